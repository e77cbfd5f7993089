package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	listingDomain "github.com/thryve-market/service-marketplace/internal/domain/listing"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        string          `gorm:"not null;size:10;index"`
	Category    string          `gorm:"not null;size:20;index"`
	Title       string          `gorm:"not null;size:200"`
	Description string          `gorm:"size:2000"`
	PriceCents  *int64          `gorm:""`
	SwapFor     string          `gorm:"size:500"`
	BudgetCents *int64          `gorm:""`
	ContactName string          `gorm:"not null;size:100"`
	Company     string          `gorm:"size:100"`
	Location    string          `gorm:"size:100"`
	Images      json.RawMessage `gorm:"type:jsonb"`
	Available   bool            `gorm:"not null;default:true;index"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of listing.Repository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID retrieves a listing by its unique identifier.
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return toDomainListing(&model)
}

// FindByOwnerID retrieves listings belonging to a specific owner.
func (r *GormListingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*listingDomain.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&ListingModel{}).Where("owner_id = ?", ownerID)
	return r.paged(ctx, query, page, limit)
}

// Search retrieves listings matching the filter, newest first.
func (r *GormListingRepository) Search(ctx context.Context, filter listingDomain.SearchFilter, page, limit int) ([]*listingDomain.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&ListingModel{})
	if filter.Query != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Query+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	return r.paged(ctx, query, page, limit)
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing with optimistic locking.
func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return err
	}

	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"description":  model.Description,
			"price_cents":  model.PriceCents,
			"swap_for":     model.SwapFor,
			"budget_cents": model.BudgetCents,
			"location":     model.Location,
			"images":       model.Images,
			"available":    model.Available,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("listing was modified by another transaction")
	}
	return nil
}

// Delete removes a listing.
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&ListingModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// --- Conversion helpers ---

func (r *GormListingRepository) paged(ctx context.Context, query *gorm.DB, page, limit int) ([]*listingDomain.Listing, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var models []ListingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find listings: %w", err)
	}

	listings := make([]*listingDomain.Listing, len(models))
	for i, m := range models {
		l, err := toDomainListing(&m)
		if err != nil {
			return nil, 0, err
		}
		listings[i] = l
	}
	return listings, total, nil
}

func toListingModel(l *listingDomain.Listing) (*ListingModel, error) {
	var imagesJSON json.RawMessage
	if len(l.Images()) > 0 {
		data, err := json.Marshal(l.Images())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal listing images: %w", err)
		}
		imagesJSON = data
	}

	return &ListingModel{
		ID:          l.ID(),
		OwnerID:     l.OwnerID(),
		Type:        string(l.Type()),
		Category:    string(l.Category()),
		Title:       l.Title(),
		Description: l.Description(),
		PriceCents:  l.PriceCents(),
		SwapFor:     l.SwapFor(),
		BudgetCents: l.BudgetCents(),
		ContactName: l.ContactName(),
		Company:     l.Company(),
		Location:    l.Location(),
		Images:      imagesJSON,
		Available:   l.Available(),
		Version:     l.Version(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}, nil
}

func toDomainListing(m *ListingModel) (*listingDomain.Listing, error) {
	var images []listingDomain.ImageRef
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing images: %w", err)
		}
	}

	return listingDomain.ReconstructListing(
		m.ID,
		m.OwnerID,
		listingDomain.ListingType(m.Type),
		listingDomain.Category(m.Category),
		m.Title,
		m.Description,
		m.PriceCents,
		m.SwapFor,
		m.BudgetCents,
		m.ContactName,
		m.Company,
		m.Location,
		images,
		m.Available,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
