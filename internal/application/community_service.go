package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	communityDomain "github.com/thryve-market/service-marketplace/internal/domain/community"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// CreatePostRequest holds the body of a new feed post.
type CreatePostRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CreateCommentRequest holds the body of a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// PostDTO is the response representation of a feed post.
type PostDTO struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Content      string    `json:"content"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	LikedByUser  bool      `json:"liked_by_user"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommunityService handles the community feed use cases.
type CommunityService struct {
	feed   communityDomain.Repository
	logger *zap.Logger
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(feed communityDomain.Repository, logger *zap.Logger) *CommunityService {
	return &CommunityService{feed: feed, logger: logger}
}

// CreatePost publishes a post to the feed.
func (s *CommunityService) CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*PostDTO, error) {
	p, err := communityDomain.NewPost(authorID, req.Content)
	if err != nil {
		return nil, err
	}
	if err := s.feed.SavePost(ctx, p); err != nil {
		return nil, err
	}
	return &PostDTO{
		ID:        p.ID(),
		AuthorID:  p.AuthorID(),
		Content:   p.Content(),
		CreatedAt: p.CreatedAt(),
	}, nil
}

// Feed retrieves the community feed, newest first, with engagement counts
// relative to the viewing user.
func (s *CommunityService) Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) (*domain.PaginatedResult[PostDTO], error) {
	items, total, err := s.feed.Feed(ctx, viewerID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PostDTO, len(items))
	for i, item := range items {
		dtos[i] = PostDTO{
			ID:           item.Post.ID(),
			AuthorID:     item.Post.AuthorID(),
			Content:      item.Post.Content(),
			LikeCount:    item.LikeCount,
			CommentCount: item.CommentCount,
			LikedByUser:  item.LikedByUser,
			CreatedAt:    item.Post.CreatedAt(),
		}
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// DeletePost removes a post with its likes and comments. Author only;
// non-authors get not-found.
func (s *CommunityService) DeletePost(ctx context.Context, postID, actor uuid.UUID) error {
	p, err := s.feed.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !p.IsAuthor(actor) {
		return domain.NewNotFoundError("post", postID.String())
	}
	return s.feed.DeletePost(ctx, postID)
}

// ToggleLike likes or unlikes a post for the user. Returns true when the
// post ends up liked.
func (s *CommunityService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	if _, err := s.feed.FindPostByID(ctx, postID); err != nil {
		return false, err
	}
	return s.feed.ToggleLike(ctx, postID, userID)
}

// AddComment comments on a post.
func (s *CommunityService) AddComment(ctx context.Context, postID, authorID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	if _, err := s.feed.FindPostByID(ctx, postID); err != nil {
		return nil, err
	}

	c, err := communityDomain.NewComment(postID, authorID, req.Content)
	if err != nil {
		return nil, err
	}
	if err := s.feed.SaveComment(ctx, c); err != nil {
		return nil, err
	}
	return &CommentDTO{
		ID:        c.ID(),
		PostID:    c.PostID(),
		AuthorID:  c.AuthorID(),
		Content:   c.Content(),
		CreatedAt: c.CreatedAt(),
	}, nil
}

// ListComments retrieves a post's comments, oldest first.
func (s *CommunityService) ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error) {
	comments, err := s.feed.FindCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = CommentDTO{
			ID:        c.ID(),
			PostID:    c.PostID(),
			AuthorID:  c.AuthorID(),
			Content:   c.Content(),
			CreatedAt: c.CreatedAt(),
		}
	}
	return dtos, nil
}

// DeleteComment removes a comment. Author only; non-authors get not-found.
func (s *CommunityService) DeleteComment(ctx context.Context, commentID, actor uuid.UUID) error {
	c, err := s.feed.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !c.IsAuthor(actor) {
		return domain.NewNotFoundError("comment", commentID.String())
	}
	return s.feed.DeleteComment(ctx, commentID)
}
