package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	listingDomain "github.com/thryve-market/service-marketplace/internal/domain/listing"
	"github.com/thryve-market/service-marketplace/internal/events"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
	"github.com/thryve-market/service-marketplace/internal/platform/kafka"
)

// CreateListingRequest holds the data needed to create a listing.
type CreateListingRequest struct {
	Type        string                   `json:"type" binding:"required,oneof=sale swap buy"`
	Category    string                   `json:"category" binding:"required,oneof=electronics furniture other"`
	Title       string                   `json:"title" binding:"required,max=200"`
	Description string                   `json:"description"`
	PriceCents  *int64                   `json:"price_cents"`
	SwapFor     string                   `json:"swap_for"`
	BudgetCents *int64                   `json:"budget_cents"`
	ContactName string                   `json:"contact_name" binding:"required,max=100"`
	Company     string                   `json:"company" binding:"max=100"`
	Location    string                   `json:"location" binding:"max=100"`
	Images      []listingDomain.ImageRef `json:"images"`
}

// UpdateListingRequest holds the editable fields of a listing.
type UpdateListingRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	PriceCents  *int64 `json:"price_cents"`
	SwapFor     string `json:"swap_for"`
	BudgetCents *int64 `json:"budget_cents"`
	Location    string `json:"location" binding:"max=100"`
}

// ListingDTO is the response representation of a listing.
type ListingDTO struct {
	ID          uuid.UUID                `json:"id"`
	OwnerID     uuid.UUID                `json:"owner_id"`
	Type        string                   `json:"type"`
	Category    string                   `json:"category"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	PriceCents  *int64                   `json:"price_cents,omitempty"`
	SwapFor     string                   `json:"swap_for,omitempty"`
	BudgetCents *int64                   `json:"budget_cents,omitempty"`
	ContactName string                   `json:"contact_name"`
	Company     string                   `json:"company,omitempty"`
	Location    string                   `json:"location,omitempty"`
	Images      []listingDomain.ImageRef `json:"images,omitempty"`
	Available   bool                     `json:"available"`
	Version     int64                    `json:"version"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ListingService handles the marketplace listing use cases.
type ListingService struct {
	listings listingDomain.Repository
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(listings listingDomain.Repository, producer *kafka.Producer, logger *zap.Logger) *ListingService {
	return &ListingService{listings: listings, producer: producer, logger: logger}
}

// CreateListing creates a listing owned by ownerID.
func (s *ListingService) CreateListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest) (*ListingDTO, error) {
	lst, err := listingDomain.NewListing(
		ownerID,
		listingDomain.ListingType(req.Type),
		listingDomain.Category(req.Category),
		req.Title,
		req.Description,
		req.PriceCents,
		req.SwapFor,
		req.BudgetCents,
		req.ContactName,
		req.Company,
		req.Location,
	)
	if err != nil {
		return nil, err
	}
	if len(req.Images) > 0 {
		lst.SetImages(req.Images)
	}

	if err := s.listings.Save(ctx, lst); err != nil {
		return nil, err
	}

	s.publishListingEvent(ctx, events.ListingCreated, lst)

	result := toListingDTO(lst)
	return &result, nil
}

// GetListing retrieves a listing by id.
func (s *ListingService) GetListing(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	lst, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	result := toListingDTO(lst)
	return &result, nil
}

// Browse retrieves listings matching the filter, newest first.
func (s *ListingService) Browse(ctx context.Context, filter listingDomain.SearchFilter, page, limit int) (*domain.PaginatedResult[ListingDTO], error) {
	listings, total, err := s.listings.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toListingDTOs(listings), total, page, limit)
	return &result, nil
}

// GetOwnerListings retrieves the user's own listings.
func (s *ListingService) GetOwnerListings(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[ListingDTO], error) {
	listings, total, err := s.listings.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toListingDTOs(listings), total, page, limit)
	return &result, nil
}

// UpdateListing edits a listing. Owner only; non-owners get not-found.
func (s *ListingService) UpdateListing(ctx context.Context, listingID, actor uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	lst, err := s.findOwned(ctx, listingID, actor)
	if err != nil {
		return nil, err
	}

	if err := lst.UpdateDetails(req.Title, req.Description, req.PriceCents, req.SwapFor, req.BudgetCents, req.Location); err != nil {
		return nil, err
	}

	lst.IncrementVersion()
	if err := s.listings.Update(ctx, lst); err != nil {
		return nil, err
	}

	result := toListingDTO(lst)
	return &result, nil
}

// SetAvailability marks a listing available or unavailable. Owner only.
// Withdrawing a listing cancels its open booking requests via the listing
// event consumer.
func (s *ListingService) SetAvailability(ctx context.Context, listingID, actor uuid.UUID, available bool) (*ListingDTO, error) {
	lst, err := s.findOwned(ctx, listingID, actor)
	if err != nil {
		return nil, err
	}

	lst.SetAvailability(available)
	lst.IncrementVersion()
	if err := s.listings.Update(ctx, lst); err != nil {
		return nil, err
	}

	if !available {
		s.publishListingEvent(ctx, events.ListingUnavailable, lst)
	}

	result := toListingDTO(lst)
	return &result, nil
}

// DeleteListing removes a listing. Owner only. Open booking requests are
// cancelled via the listing event consumer.
func (s *ListingService) DeleteListing(ctx context.Context, listingID, actor uuid.UUID) error {
	lst, err := s.findOwned(ctx, listingID, actor)
	if err != nil {
		return err
	}

	if err := s.listings.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.publishListingEvent(ctx, events.ListingRemoved, lst)
	return nil
}

// --- Helpers ---

func (s *ListingService) findOwned(ctx context.Context, listingID, actor uuid.UUID) (*listingDomain.Listing, error) {
	lst, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !lst.IsOwner(actor) {
		return nil, domain.NewNotFoundError("listing", listingID.String())
	}
	return lst, nil
}

func (s *ListingService) publishListingEvent(ctx context.Context, eventType string, lst *listingDomain.Listing) {
	evt := events.ListingEvent{
		ListingID:  lst.ID(),
		OwnerID:    lst.OwnerID(),
		OccurredAt: time.Now().UTC(),
	}
	cloudEvent, err := kafka.NewCloudEvent("service-marketplace", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventWithKey(ctx, events.TopicListingEvents, lst.ID().String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toListingDTO(lst *listingDomain.Listing) ListingDTO {
	return ListingDTO{
		ID:          lst.ID(),
		OwnerID:     lst.OwnerID(),
		Type:        string(lst.Type()),
		Category:    string(lst.Category()),
		Title:       lst.Title(),
		Description: lst.Description(),
		PriceCents:  lst.PriceCents(),
		SwapFor:     lst.SwapFor(),
		BudgetCents: lst.BudgetCents(),
		ContactName: lst.ContactName(),
		Company:     lst.Company(),
		Location:    lst.Location(),
		Images:      lst.Images(),
		Available:   lst.Available(),
		Version:     lst.Version(),
		CreatedAt:   lst.CreatedAt(),
		UpdatedAt:   lst.UpdatedAt(),
	}
}

func toListingDTOs(listings []*listingDomain.Listing) []ListingDTO {
	dtos := make([]ListingDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toListingDTO(l)
	}
	return dtos
}
