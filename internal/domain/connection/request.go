package connection

import (
	"time"

	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// RequestStatus represents the state of a connection request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	// RequestDeclined exists in the enum for completeness, but declines
	// delete the record instead of retaining it so the pair can resend.
	RequestDeclined RequestStatus = "declined"
)

// IsValid returns true if the status is recognized.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestDeclined:
		return true
	}
	return false
}

// Request is one user's proposal to form a mutual connection with another.
type Request struct {
	id         uuid.UUID
	senderID   uuid.UUID
	receiverID uuid.UUID
	message    string
	status     RequestStatus
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRequest creates a pending connection request.
func NewRequest(senderID, receiverID uuid.UUID, message string) (*Request, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, domain.NewValidationError("sender and receiver IDs are required")
	}
	if senderID == receiverID {
		return nil, domain.NewSelfConnectionError("cannot connect with yourself")
	}

	now := time.Now().UTC()
	return &Request{
		id:         uuid.New(),
		senderID:   senderID,
		receiverID: receiverID,
		message:    message,
		status:     RequestPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructRequest rebuilds a Request from persistence data (no validation).
func ReconstructRequest(id, senderID, receiverID uuid.UUID, message string, status RequestStatus, createdAt, updatedAt time.Time) *Request {
	return &Request{
		id:         id,
		senderID:   senderID,
		receiverID: receiverID,
		message:    message,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the request's unique identifier.
func (r *Request) ID() uuid.UUID { return r.id }

// SenderID returns the requesting user's id.
func (r *Request) SenderID() uuid.UUID { return r.senderID }

// ReceiverID returns the receiving user's id.
func (r *Request) ReceiverID() uuid.UUID { return r.receiverID }

// Message returns the sender's optional message.
func (r *Request) Message() string { return r.message }

// Status returns the current status.
func (r *Request) Status() RequestStatus { return r.status }

// CreatedAt returns the creation timestamp.
func (r *Request) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Request) UpdatedAt() time.Time { return r.updatedAt }

// IsSender reports whether actor created this request.
func (r *Request) IsSender(actor uuid.UUID) bool { return r.senderID == actor }

// IsReceiver reports whether actor is the request's target.
func (r *Request) IsReceiver(actor uuid.UUID) bool { return r.receiverID == actor }

// IsParty reports whether actor is the sender or the receiver.
func (r *Request) IsParty(actor uuid.UUID) bool {
	return r.IsSender(actor) || r.IsReceiver(actor)
}

// Accept transitions the request from pending to accepted. The accepted
// record is retained alongside the resulting Connection.
func (r *Request) Accept() error {
	if r.status != RequestPending {
		return domain.NewInvalidStateError(string(r.status), string(RequestAccepted))
	}
	r.status = RequestAccepted
	r.updatedAt = time.Now().UTC()
	return nil
}
