package community

import (
	"time"

	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// Post is an entry in the community feed.
type Post struct {
	id        uuid.UUID
	authorID  uuid.UUID
	content   string
	createdAt time.Time
}

// NewPost creates a feed post.
func NewPost(authorID uuid.UUID, content string) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, domain.NewValidationError("author ID is required")
	}
	if content == "" {
		return nil, domain.NewValidationError("content is required")
	}
	return &Post{
		id:        uuid.New(),
		authorID:  authorID,
		content:   content,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructPost rebuilds a Post from persistence data.
func ReconstructPost(id, authorID uuid.UUID, content string, createdAt time.Time) *Post {
	return &Post{id: id, authorID: authorID, content: content, createdAt: createdAt}
}

// ID returns the post's unique identifier.
func (p *Post) ID() uuid.UUID { return p.id }

// AuthorID returns the posting user's id.
func (p *Post) AuthorID() uuid.UUID { return p.authorID }

// Content returns the post body.
func (p *Post) Content() string { return p.content }

// CreatedAt returns the creation timestamp.
func (p *Post) CreatedAt() time.Time { return p.createdAt }

// IsAuthor reports whether actor wrote this post.
func (p *Post) IsAuthor(actor uuid.UUID) bool { return p.authorID == actor }

// Comment is a reply to a feed post.
type Comment struct {
	id        uuid.UUID
	postID    uuid.UUID
	authorID  uuid.UUID
	content   string
	createdAt time.Time
}

// NewComment creates a comment on a post.
func NewComment(postID, authorID uuid.UUID, content string) (*Comment, error) {
	if postID == uuid.Nil || authorID == uuid.Nil {
		return nil, domain.NewValidationError("post and author IDs are required")
	}
	if content == "" {
		return nil, domain.NewValidationError("content is required")
	}
	return &Comment{
		id:        uuid.New(),
		postID:    postID,
		authorID:  authorID,
		content:   content,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id, postID, authorID uuid.UUID, content string, createdAt time.Time) *Comment {
	return &Comment{id: id, postID: postID, authorID: authorID, content: content, createdAt: createdAt}
}

// ID returns the comment's unique identifier.
func (c *Comment) ID() uuid.UUID { return c.id }

// PostID returns the commented post's id.
func (c *Comment) PostID() uuid.UUID { return c.postID }

// AuthorID returns the commenting user's id.
func (c *Comment) AuthorID() uuid.UUID { return c.authorID }

// Content returns the comment body.
func (c *Comment) Content() string { return c.content }

// CreatedAt returns the creation timestamp.
func (c *Comment) CreatedAt() time.Time { return c.createdAt }

// IsAuthor reports whether actor wrote this comment.
func (c *Comment) IsAuthor(actor uuid.UUID) bool { return c.authorID == actor }
