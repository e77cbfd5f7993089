package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// Request is the aggregate root for a booking request: one user's proposal
// to transact on another user's listing for a date range. Requests are never
// deleted, only status-transitioned.
type Request struct {
	id         uuid.UUID
	listingID  uuid.UUID
	senderID   uuid.UUID
	receiverID uuid.UUID
	dates      DateRange
	message    string
	status     Status

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRequest creates a pending booking request. The receiver is the
// listing's owner; booking one's own listing is rejected.
func NewRequest(listingID, senderID, listingOwnerID uuid.UUID, dates DateRange, message string) (*Request, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if senderID == uuid.Nil {
		return nil, domain.NewValidationError("sender ID is required")
	}
	if senderID == listingOwnerID {
		return nil, domain.NewSelfBookingError("cannot book your own listing")
	}

	now := time.Now().UTC()
	return &Request{
		id:         uuid.New(),
		listingID:  listingID,
		senderID:   senderID,
		receiverID: listingOwnerID,
		dates:      dates,
		message:    message,
		status:     StatusPending,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructRequest rebuilds a Request from persistence data (no validation).
func ReconstructRequest(
	id, listingID, senderID, receiverID uuid.UUID,
	dates DateRange,
	message string,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Request {
	return &Request{
		id:         id,
		listingID:  listingID,
		senderID:   senderID,
		receiverID: receiverID,
		dates:      dates,
		message:    message,
		status:     status,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

// ID returns the request's unique identifier.
func (r *Request) ID() uuid.UUID { return r.id }

// ListingID returns the booked listing's id.
func (r *Request) ListingID() uuid.UUID { return r.listingID }

// SenderID returns the requesting user's id.
func (r *Request) SenderID() uuid.UUID { return r.senderID }

// ReceiverID returns the listing owner's id.
func (r *Request) ReceiverID() uuid.UUID { return r.receiverID }

// Dates returns the proposed date range.
func (r *Request) Dates() DateRange { return r.dates }

// Message returns the sender's optional message.
func (r *Request) Message() string { return r.message }

// Status returns the current status.
func (r *Request) Status() Status { return r.status }

// Version returns the entity version for optimistic locking.
func (r *Request) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Request) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Request) UpdatedAt() time.Time { return r.updatedAt }

// --- Authorization predicates ---

// IsSender reports whether actor created this request.
func (r *Request) IsSender(actor uuid.UUID) bool { return r.senderID == actor }

// IsReceiver reports whether actor owns the booked listing.
func (r *Request) IsReceiver(actor uuid.UUID) bool { return r.receiverID == actor }

// IsParty reports whether actor is the sender or the receiver.
func (r *Request) IsParty(actor uuid.UUID) bool {
	return r.IsSender(actor) || r.IsReceiver(actor)
}

// CancellableBy reports whether actor may cancel the request in its current
// status: the sender while pending, either party once scheduled.
func (r *Request) CancellableBy(actor uuid.UUID) bool {
	switch r.status {
	case StatusPending:
		return r.IsSender(actor)
	case StatusScheduled:
		return r.IsParty(actor)
	}
	return false
}

// --- Transitions ---

// Decline transitions the request from pending to declined.
func (r *Request) Decline() error {
	return r.transition(StatusDeclined)
}

// Schedule transitions the request from pending to scheduled. Date conflicts
// are checked at creation, not here; callers wanting a stronger guarantee
// re-validate before scheduling.
func (r *Request) Schedule() error {
	return r.transition(StatusScheduled)
}

// Complete transitions the request from scheduled to completed.
func (r *Request) Complete() error {
	return r.transition(StatusCompleted)
}

// Cancel transitions the request to cancelled from any cancellable status.
func (r *Request) Cancel() error {
	return r.transition(StatusCancelled)
}

func (r *Request) transition(target Status) error {
	if !r.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(r.status), string(target))
	}
	r.status = target
	r.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Request) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}
