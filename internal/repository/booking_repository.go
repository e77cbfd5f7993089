package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/thryve-market/service-marketplace/internal/domain/booking"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// BookingRequestModel is the GORM model for the booking_requests table. The
// partial unique index enforces one pending request per (listing, sender) at
// the storage layer, backstopping the service-level check under concurrency.
type BookingRequestModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_booking,where:status = 'pending'"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_booking,where:status = 'pending'"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate  time.Time `gorm:"not null"`
	EndDate    time.Time `gorm:"not null"`
	Message    string    `gorm:"size:2000"`
	Status     string    `gorm:"not null;size:20;index"`
	Version    int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingRequestModel) TableName() string {
	return "booking_requests"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking request by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Request, error) {
	var model BookingRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking request", id.String())
		}
		return nil, fmt.Errorf("failed to find booking request: %w", err)
	}
	return toDomainBooking(&model)
}

// ExistsPending reports whether a pending request exists for the
// (listing, sender) pair.
func (r *GormBookingRepository) ExistsPending(ctx context.Context, listingID, senderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingRequestModel{}).
		Where("listing_id = ? AND sender_id = ? AND status = ?", listingID, senderID, string(bookingDomain.StatusPending)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count pending bookings: %w", err)
	}
	return count > 0, nil
}

// CountScheduledOverlapping counts scheduled requests for the listing whose
// date ranges overlap dates, bounds inclusive.
func (r *GormBookingRepository) CountScheduledOverlapping(ctx context.Context, listingID uuid.UUID, dates bookingDomain.DateRange) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingRequestModel{}).
		Where("listing_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			listingID, string(bookingDomain.StatusScheduled), dates.End, dates.Start).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// FindBySenderID retrieves requests sent by a user, newest first.
func (r *GormBookingRepository) FindBySenderID(ctx context.Context, senderID uuid.UUID, page, limit int) ([]*bookingDomain.Request, int64, error) {
	return r.findPaged(ctx, "sender_id = ?", senderID, page, limit)
}

// FindByReceiverID retrieves requests received by a user, newest first.
func (r *GormBookingRepository) FindByReceiverID(ctx context.Context, receiverID uuid.UUID, page, limit int) ([]*bookingDomain.Request, int64, error) {
	return r.findPaged(ctx, "receiver_id = ?", receiverID, page, limit)
}

// FindOpenByListingID retrieves the listing's pending and scheduled requests.
func (r *GormBookingRepository) FindOpenByListingID(ctx context.Context, listingID uuid.UUID) ([]*bookingDomain.Request, error) {
	var models []BookingRequestModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status IN ?", listingID,
			[]string{string(bookingDomain.StatusPending), string(bookingDomain.StatusScheduled)}).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find open bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all requests with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Request, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingRequestModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingRequestModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns request counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingRequestModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new request. A concurrent send that raced past the
// service-level pending check trips the partial unique index here.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Request) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicatePendingError("a pending booking request already exists for this listing")
		}
		return fmt.Errorf("failed to save booking request: %w", err)
	}
	return nil
}

// Update persists changes to an existing request, conditional on the
// version the aggregate was loaded with. Zero rows affected means another
// transaction decided first.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Request) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingRequestModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking request was modified by another transaction")
	}
	return nil
}

// --- Conversion helpers ---

func (r *GormBookingRepository) findPaged(ctx context.Context, cond string, arg interface{}, page, limit int) ([]*bookingDomain.Request, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingRequestModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingRequestModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func toBookingModel(bk *bookingDomain.Request) *BookingRequestModel {
	return &BookingRequestModel{
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

func toDomainBooking(m *BookingRequestModel) (*bookingDomain.Request, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.ReconstructRequest(
		m.ID,
		m.ListingID,
		m.SenderID,
		m.ReceiverID,
		bookingDomain.DateRange{Start: m.StartDate, End: m.EndDate},
		m.Message,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingRequestModel) ([]*bookingDomain.Request, error) {
	bookings := make([]*bookingDomain.Request, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
