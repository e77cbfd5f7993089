package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	communityDomain "github.com/thryve-market/service-marketplace/internal/domain/community"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// PostModel is the GORM model for the community_posts table.
type PostModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (PostModel) TableName() string {
	return "community_posts"
}

// LikeModel is the GORM model for the post_likes table. One like per
// (post, user).
type LikeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_post_like"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_post_like"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LikeModel) TableName() string {
	return "post_likes"
}

// CommentModel is the GORM model for the post_comments table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null;size:1000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "post_comments"
}

// GormCommunityRepository is the GORM-based implementation of
// community.Repository.
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewGormCommunityRepository creates a new GormCommunityRepository.
func NewGormCommunityRepository(db *gorm.DB) *GormCommunityRepository {
	return &GormCommunityRepository{db: db}
}

// FindPostByID retrieves a post by its unique identifier.
func (r *GormCommunityRepository) FindPostByID(ctx context.Context, id uuid.UUID) (*communityDomain.Post, error) {
	var model PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("post", id.String())
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return communityDomain.ReconstructPost(model.ID, model.AuthorID, model.Content, model.CreatedAt), nil
}

// Feed retrieves posts newest first with engagement counts for viewerID.
func (r *GormCommunityRepository) Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]communityDomain.FeedItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []PostModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find posts: %w", err)
	}

	items := make([]communityDomain.FeedItem, len(posts))
	for i, p := range posts {
		item := communityDomain.FeedItem{
			Post: communityDomain.ReconstructPost(p.ID, p.AuthorID, p.Content, p.CreatedAt),
		}

		if err := r.db.WithContext(ctx).Model(&LikeModel{}).
			Where("post_id = ?", p.ID).Count(&item.LikeCount).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count likes: %w", err)
		}
		if err := r.db.WithContext(ctx).Model(&CommentModel{}).
			Where("post_id = ?", p.ID).Count(&item.CommentCount).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count comments: %w", err)
		}

		var liked int64
		if err := r.db.WithContext(ctx).Model(&LikeModel{}).
			Where("post_id = ? AND user_id = ?", p.ID, viewerID).Count(&liked).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to check like: %w", err)
		}
		item.LikedByUser = liked > 0

		items[i] = item
	}
	return items, total, nil
}

// SavePost persists a new post.
func (r *GormCommunityRepository) SavePost(ctx context.Context, p *communityDomain.Post) error {
	model := &PostModel{
		ID:        p.ID(),
		AuthorID:  p.AuthorID(),
		Content:   p.Content(),
		CreatedAt: p.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

// DeletePost removes a post with its likes and comments.
func (r *GormCommunityRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LikeModel{}, "post_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		if err := tx.Delete(&CommentModel{}, "post_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Delete(&PostModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
}

// ToggleLike likes the post for userID, or removes an existing like.
func (r *GormCommunityRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&LikeModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove like: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	like := &LikeModel{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		// A raced double-like already inserted the row; the post is liked.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, fmt.Errorf("failed to save like: %w", err)
	}
	return true, nil
}

// FindCommentByID retrieves a comment by its unique identifier.
func (r *GormCommunityRepository) FindCommentByID(ctx context.Context, id uuid.UUID) (*communityDomain.Comment, error) {
	var model CommentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("comment", id.String())
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return communityDomain.ReconstructComment(model.ID, model.PostID, model.AuthorID, model.Content, model.CreatedAt), nil
}

// FindCommentsByPost retrieves a post's comments, oldest first.
func (r *GormCommunityRepository) FindCommentsByPost(ctx context.Context, postID uuid.UUID) ([]*communityDomain.Comment, error) {
	var models []CommentModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*communityDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = communityDomain.ReconstructComment(m.ID, m.PostID, m.AuthorID, m.Content, m.CreatedAt)
	}
	return comments, nil
}

// SaveComment persists a new comment.
func (r *GormCommunityRepository) SaveComment(ctx context.Context, c *communityDomain.Comment) error {
	model := &CommentModel{
		ID:        c.ID(),
		PostID:    c.PostID(),
		AuthorID:  c.AuthorID(),
		Content:   c.Content(),
		CreatedAt: c.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment.
func (r *GormCommunityRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&CommentModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
