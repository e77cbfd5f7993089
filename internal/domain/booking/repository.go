package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking request aggregates.
type Repository interface {
	// FindByID retrieves a booking request by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// ExistsPending reports whether a pending request exists for the
	// (listing, sender) pair.
	ExistsPending(ctx context.Context, listingID, senderID uuid.UUID) (bool, error)

	// CountScheduledOverlapping counts scheduled requests for the listing
	// whose date ranges overlap dates (inclusive bounds).
	CountScheduledOverlapping(ctx context.Context, listingID uuid.UUID, dates DateRange) (int64, error)

	// FindBySenderID retrieves requests sent by a user, newest first, with pagination.
	FindBySenderID(ctx context.Context, senderID uuid.UUID, page, limit int) ([]*Request, int64, error)

	// FindByReceiverID retrieves requests received by a user, newest first, with pagination.
	FindByReceiverID(ctx context.Context, receiverID uuid.UUID, page, limit int) ([]*Request, int64, error)

	// FindOpenByListingID retrieves the listing's pending and scheduled requests.
	FindOpenByListingID(ctx context.Context, listingID uuid.UUID) ([]*Request, error)

	// ListAll retrieves all requests with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Request, int64, error)

	// CountByStatus returns request counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new request.
	Save(ctx context.Context, r *Request) error

	// Update persists changes to an existing request with optimistic locking.
	Update(ctx context.Context, r *Request) error
}
