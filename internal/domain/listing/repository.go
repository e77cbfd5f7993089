package listing

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a marketplace browse query. Zero values mean "no
// filter".
type SearchFilter struct {
	Query    string
	Category Category
	Type     ListingType
}

// Repository defines the persistence contract for listing aggregates.
type Repository interface {
	// FindByID retrieves a listing by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindByOwnerID retrieves listings belonging to a specific owner with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Listing, int64, error)

	// Search retrieves listings matching the filter, newest first, with pagination.
	Search(ctx context.Context, filter SearchFilter, page, limit int) ([]*Listing, int64, error)

	// Save persists a new listing.
	Save(ctx context.Context, l *Listing) error

	// Update persists changes to an existing listing with optimistic locking.
	Update(ctx context.Context, l *Listing) error

	// Delete removes a listing.
	Delete(ctx context.Context, id uuid.UUID) error
}
