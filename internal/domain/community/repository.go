package community

import (
	"context"

	"github.com/google/uuid"
)

// FeedItem is a post joined with its engagement counts and whether the
// viewing user has liked it.
type FeedItem struct {
	Post         *Post
	LikeCount    int64
	CommentCount int64
	LikedByUser  bool
}

// Repository defines the persistence contract for the community feed.
type Repository interface {
	// FindPostByID retrieves a post by its unique identifier.
	FindPostByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// Feed retrieves posts newest first with counts, relative to viewerID.
	Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]FeedItem, int64, error)

	// SavePost persists a new post.
	SavePost(ctx context.Context, p *Post) error

	// DeletePost removes a post with its likes and comments.
	DeletePost(ctx context.Context, id uuid.UUID) error

	// ToggleLike likes the post for userID, or removes the like if one
	// exists. Returns true when the post ends up liked.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// FindCommentByID retrieves a comment by its unique identifier.
	FindCommentByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// FindCommentsByPost retrieves a post's comments oldest first.
	FindCommentsByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	// SaveComment persists a new comment.
	SaveComment(ctx context.Context, c *Comment) error

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, id uuid.UUID) error
}
