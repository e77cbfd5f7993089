package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	connectionDomain "github.com/thryve-market/service-marketplace/internal/domain/connection"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// ConnectionRequestModel is the GORM model for the connection_requests
// table. The partial unique index enforces one pending request per ordered
// (sender, receiver) pair at the storage layer.
type ConnectionRequestModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_connection_request,where:status = 'pending'"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_connection_request,where:status = 'pending'"`
	Message    string    `gorm:"size:1000"`
	Status     string    `gorm:"not null;size:20;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ConnectionRequestModel) TableName() string {
	return "connection_requests"
}

// ConnectionModel is the GORM model for the connections table. user_a and
// user_b are stored canonically (smaller UUID first), so the composite
// unique index enforces at most one connection per unordered pair.
type ConnectionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserA     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_connection_pair"`
	UserB     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_connection_pair"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ConnectionModel) TableName() string {
	return "connections"
}

// GormConnectionRequestRepository is the GORM-based implementation of
// connection.RequestRepository.
type GormConnectionRequestRepository struct {
	db *gorm.DB
}

// NewGormConnectionRequestRepository creates a new GormConnectionRequestRepository.
func NewGormConnectionRequestRepository(db *gorm.DB) *GormConnectionRequestRepository {
	return &GormConnectionRequestRepository{db: db}
}

// FindByID retrieves a connection request by its unique identifier.
func (r *GormConnectionRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*connectionDomain.Request, error) {
	var model ConnectionRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("connection request", id.String())
		}
		return nil, fmt.Errorf("failed to find connection request: %w", err)
	}
	return toDomainConnectionRequest(&model), nil
}

// FindPendingByReceiver retrieves a user's incoming pending requests.
func (r *GormConnectionRequestRepository) FindPendingByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*connectionDomain.Request, error) {
	return r.findPending(ctx, "receiver_id = ?", receiverID)
}

// FindPendingBySender retrieves a user's outgoing pending requests.
func (r *GormConnectionRequestRepository) FindPendingBySender(ctx context.Context, senderID uuid.UUID) ([]*connectionDomain.Request, error) {
	return r.findPending(ctx, "sender_id = ?", senderID)
}

// Save persists a new request.
func (r *GormConnectionRequestRepository) Save(ctx context.Context, cr *connectionDomain.Request) error {
	model := toConnectionRequestModel(cr)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicatePendingError("a pending connection request already exists")
		}
		return fmt.Errorf("failed to save connection request: %w", err)
	}
	return nil
}

// Update persists a status change, conditional on the record still being
// pending so a raced decision cannot be overwritten.
func (r *GormConnectionRequestRepository) Update(ctx context.Context, cr *connectionDomain.Request) error {
	result := r.db.WithContext(ctx).
		Model(&ConnectionRequestModel{}).
		Where("id = ? AND status = ?", cr.ID(), string(connectionDomain.RequestPending)).
		Updates(map[string]interface{}{
			"status":     string(cr.Status()),
			"updated_at": cr.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update connection request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("connection request was decided by another transaction")
	}
	return nil
}

// Delete removes a single request.
func (r *GormConnectionRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&ConnectionRequestModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete connection request: %w", err)
	}
	return nil
}

// DeleteBetween removes every request between two users, both directions.
func (r *GormConnectionRequestRepository) DeleteBetween(ctx context.Context, x, y uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", x, y, y, x).
		Delete(&ConnectionRequestModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete connection requests: %w", err)
	}
	return nil
}

func (r *GormConnectionRequestRepository) findPending(ctx context.Context, cond string, arg interface{}) ([]*connectionDomain.Request, error) {
	var models []ConnectionRequestModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("status = ?", string(connectionDomain.RequestPending)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending connection requests: %w", err)
	}

	requests := make([]*connectionDomain.Request, len(models))
	for i, m := range models {
		requests[i] = toDomainConnectionRequest(&m)
	}
	return requests, nil
}

// GormConnectionRepository is the GORM-based implementation of
// connection.ConnectionRepository.
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository.
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByID retrieves a connection by its unique identifier.
func (r *GormConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*connectionDomain.Connection, error) {
	var model ConnectionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("connection", id.String())
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}
	return connectionDomain.ReconstructConnection(model.ID, model.UserA, model.UserB, model.CreatedAt), nil
}

// FindByUser retrieves every connection the user is a member of.
func (r *GormConnectionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*connectionDomain.Connection, error) {
	var models []ConnectionModel
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find connections: %w", err)
	}

	conns := make([]*connectionDomain.Connection, len(models))
	for i, m := range models {
		conns[i] = connectionDomain.ReconstructConnection(m.ID, m.UserA, m.UserB, m.CreatedAt)
	}
	return conns, nil
}

// ExistsBetween reports whether the unordered pair is connected.
func (r *GormConnectionRepository) ExistsBetween(ctx context.Context, x, y uuid.UUID) (bool, error) {
	a, b := connectionDomain.CanonicalPair(x, y)
	var count int64
	err := r.db.WithContext(ctx).Model(&ConnectionModel{}).
		Where("user_a = ? AND user_b = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return count > 0, nil
}

// Save persists a new connection. A raced double-accept trips the pair's
// unique index here.
func (r *GormConnectionRepository) Save(ctx context.Context, c *connectionDomain.Connection) error {
	model := &ConnectionModel{
		ID:        c.ID(),
		UserA:     c.UserA(),
		UserB:     c.UserB(),
		CreatedAt: c.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewAlreadyConnectedError("already connected with this user")
		}
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// Delete removes a connection.
func (r *GormConnectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&ConnectionModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// --- Conversion helpers ---

func toConnectionRequestModel(cr *connectionDomain.Request) *ConnectionRequestModel {
	return &ConnectionRequestModel{
		ID:         cr.ID(),
		SenderID:   cr.SenderID(),
		ReceiverID: cr.ReceiverID(),
		Message:    cr.Message(),
		Status:     string(cr.Status()),
		CreatedAt:  cr.CreatedAt(),
		UpdatedAt:  cr.UpdatedAt(),
	}
}

func toDomainConnectionRequest(m *ConnectionRequestModel) *connectionDomain.Request {
	return connectionDomain.ReconstructRequest(
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.Message,
		connectionDomain.RequestStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
