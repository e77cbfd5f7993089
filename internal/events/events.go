package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics the marketplace service produces to and consumes from.
const (
	TopicBookingEvents    = "marketplace.booking.events"
	TopicConnectionEvents = "marketplace.connection.events"
	TopicListingEvents    = "marketplace.listing.events"
)

// Event type names carried in the CloudEvent envelope.
const (
	BookingRequested = "booking.requested"
	BookingDeclined  = "booking.declined"
	BookingScheduled = "booking.scheduled"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"

	ConnectionRequested        = "connection.requested"
	ConnectionAccepted         = "connection.accepted"
	ConnectionRequestDeclined  = "connection.request_declined"
	ConnectionRequestCancelled = "connection.request_cancelled"
	ConnectionRemoved          = "connection.removed"

	ListingCreated     = "listing.created"
	ListingUnavailable = "listing.unavailable"
	ListingRemoved     = "listing.removed"
)

// BookingEvent notifies the parties of a booking request transition. It
// doubles as the notification payload the web layer fans out to users.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ConnectionEvent notifies the parties of a connection lifecycle change.
type ConnectionEvent struct {
	RequestID    uuid.UUID `json:"request_id,omitempty"`
	ConnectionID uuid.UUID `json:"connection_id,omitempty"`
	SenderID     uuid.UUID `json:"sender_id"`
	ReceiverID   uuid.UUID `json:"receiver_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ListingEvent announces listing availability changes so open bookings can
// be resolved.
type ListingEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
