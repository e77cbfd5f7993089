package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/thryve-market/service-marketplace/internal/domain/booking"
	listingDomain "github.com/thryve-market/service-marketplace/internal/domain/listing"
	"github.com/thryve-market/service-marketplace/internal/events"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
	"github.com/thryve-market/service-marketplace/internal/platform/kafka"
)

// CreateBookingRequest holds the data needed to create a booking request.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`
	Message   string    `json:"message"`
}

// BookingDTO is the response representation of a booking request.
type BookingDTO struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Message    string    `json:"message,omitempty"`
	Status     string    `json:"status"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingService validates and applies every booking request transition.
type BookingService struct {
	bookings bookingDomain.Repository
	listings listingDomain.Repository
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	listings listingDomain.Repository,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		listings: listings,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking creates a pending booking request from sender for a listing.
// Self-bookings, duplicate pending requests per (listing, sender), and date
// ranges overlapping a scheduled booking on the listing are rejected. Only
// scheduled bookings count for conflicts; pending ones do not.
func (s *BookingService) CreateBooking(ctx context.Context, senderID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	lst, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !lst.Available() {
		return nil, domain.NewValidationError("listing is not available for booking")
	}

	dates := bookingDomain.NewDateRange(req.StartDate, req.EndDate)

	bk, err := bookingDomain.NewRequest(lst.ID(), senderID, lst.OwnerID(), dates, req.Message)
	if err != nil {
		return nil, err
	}

	pending, err := s.bookings.ExistsPending(ctx, lst.ID(), senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending bookings: %w", err)
	}
	if pending {
		return nil, domain.NewDuplicatePendingError("a pending booking request already exists for this listing")
	}

	overlapping, err := s.bookings.CountScheduledOverlapping(ctx, lst.ID(), dates)
	if err != nil {
		return nil, fmt.Errorf("failed to check date conflicts: %w", err)
	}
	if overlapping > 0 {
		return nil, domain.NewDateConflictError("the proposed dates overlap a scheduled booking")
	}

	// The partial unique index on (listing, sender, pending) backstops the
	// check above under concurrent sends.
	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRequested, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking request visible to actor. Requests the
// actor is not a party to report not-found rather than forbidden.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingDTO, error) {
	bk, err := s.findVisible(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// DeclineBooking declines a pending request. Receiver only.
func (s *BookingService) DeclineBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, actor, events.BookingDeclined,
		func(bk *bookingDomain.Request) error {
			if !bk.IsReceiver(actor) {
				return domain.NewNotFoundError("booking request", bookingID.String())
			}
			return bk.Decline()
		})
}

// ScheduleBooking schedules a pending request. Receiver only. Date conflicts
// are not re-checked here; they are enforced at creation.
func (s *BookingService) ScheduleBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, actor, events.BookingScheduled,
		func(bk *bookingDomain.Request) error {
			if !bk.IsReceiver(actor) {
				return domain.NewNotFoundError("booking request", bookingID.String())
			}
			return bk.Schedule()
		})
}

// CompleteBooking completes a scheduled request. Either party.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, actor, events.BookingCompleted,
		func(bk *bookingDomain.Request) error {
			if !bk.IsParty(actor) {
				return domain.NewNotFoundError("booking request", bookingID.String())
			}
			return bk.Complete()
		})
}

// CancelBooking cancels a request: the sender while pending, either party
// once scheduled. A party whose role does not permit cancelling in the
// current status gets the same not-found signal as a stranger.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, actor, events.BookingCancelled,
		func(bk *bookingDomain.Request) error {
			if !bk.IsParty(actor) {
				return domain.NewNotFoundError("booking request", bookingID.String())
			}
			if !bk.Status().CanTransitionTo(bookingDomain.StatusCancelled) {
				return domain.NewInvalidStateError(string(bk.Status()), string(bookingDomain.StatusCancelled))
			}
			if !bk.CancellableBy(actor) {
				return domain.NewNotFoundError("booking request", bookingID.String())
			}
			return bk.Cancel()
		})
}

// GetSentBookings retrieves paginated requests the user has sent.
func (s *BookingService) GetSentBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindBySenderID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetReceivedBookings retrieves paginated requests against the user's listings.
func (s *BookingService) GetReceivedBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByReceiverID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// CancelOpenForListing cancels every pending or scheduled request for a
// listing that has been removed or withdrawn. Invoked by the listing event
// consumer.
func (s *BookingService) CancelOpenForListing(ctx context.Context, listingID uuid.UUID) error {
	open, err := s.bookings.FindOpenByListingID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to load open bookings: %w", err)
	}

	for _, bk := range open {
		if err := bk.Cancel(); err != nil {
			// Raced into a terminal state; nothing left to do.
			continue
		}
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			if domain.IsCode(err, domain.ErrCodeConflict) {
				continue
			}
			return err
		}
		s.publishBookingEvent(ctx, events.BookingCancelled, bk)
	}
	return nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all booking requests (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// findVisible loads a request and collapses "no such id" and "actor is not
// a party" into one not-found signal.
func (s *BookingService) findVisible(ctx context.Context, bookingID, actor uuid.UUID) (*bookingDomain.Request, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsParty(actor) {
		return nil, domain.NewNotFoundError("booking request", bookingID.String())
	}
	return bk, nil
}

// transition runs one read-check-write unit: load, authorize and mutate via
// apply, then write conditionally on the version read.
func (s *BookingService) transition(
	ctx context.Context,
	bookingID, actor uuid.UUID,
	eventType string,
	apply func(*bookingDomain.Request) error,
) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := apply(bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, eventType, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Request) {
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		ListingID:  bk.ListingID(),
		SenderID:   bk.SenderID(),
		ReceiverID: bk.ReceiverID(),
		Status:     string(bk.Status()),
		StartDate:  bk.Dates().Start,
		EndDate:    bk.Dates().End,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), evt)
}

// publishEvent is fire-and-forget: a notification that fails to publish
// never rolls back the transition it describes.
func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-marketplace", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEventWithKey(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Request) BookingDTO {
	return BookingDTO{
		ID:         bk.ID(),
		ListingID:  bk.ListingID(),
		SenderID:   bk.SenderID(),
		ReceiverID: bk.ReceiverID(),
		StartDate:  bk.Dates().Start,
		EndDate:    bk.Dates().End,
		Message:    bk.Message(),
		Status:     string(bk.Status()),
		Version:    bk.Version(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Request) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
