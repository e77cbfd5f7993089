package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	connectionDomain "github.com/thryve-market/service-marketplace/internal/domain/connection"
	"github.com/thryve-market/service-marketplace/internal/events"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
	"github.com/thryve-market/service-marketplace/internal/platform/kafka"
)

// SendConnectionRequest holds the data needed to send a connection request.
type SendConnectionRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Message    string    `json:"message"`
}

// ConnectionRequestDTO is the response representation of a connection request.
type ConnectionRequestDTO struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Message    string    `json:"message,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ConnectionDTO is the response representation of an established connection.
type ConnectionDTO struct {
	ID        uuid.UUID `json:"id"`
	UserA     uuid.UUID `json:"user_a"`
	UserB     uuid.UUID `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptResultDTO pairs the accepted request with the connection it created.
type AcceptResultDTO struct {
	Request    ConnectionRequestDTO `json:"request"`
	Connection ConnectionDTO        `json:"connection"`
}

// ConnectionRequestsDTO groups a user's pending requests by direction.
type ConnectionRequestsDTO struct {
	Incoming []ConnectionRequestDTO `json:"incoming"`
	Sent     []ConnectionRequestDTO `json:"sent"`
}

// ConnectionService validates and applies every connection lifecycle
// transition.
type ConnectionService struct {
	requests    connectionDomain.RequestRepository
	connections connectionDomain.ConnectionRepository
	producer    *kafka.Producer
	logger      *zap.Logger
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(
	requests connectionDomain.RequestRepository,
	connections connectionDomain.ConnectionRepository,
	producer *kafka.Producer,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		requests:    requests,
		connections: connections,
		producer:    producer,
		logger:      logger,
	}
}

// SendRequest creates a pending connection request from sender. An existing
// connection rejects the send; any prior request between the pair, in either
// direction, is removed first so a fresh request supersedes it.
func (s *ConnectionService) SendRequest(ctx context.Context, senderID uuid.UUID, req SendConnectionRequest) (*ConnectionRequestDTO, error) {
	cr, err := connectionDomain.NewRequest(senderID, req.ReceiverID, req.Message)
	if err != nil {
		return nil, err
	}

	connected, err := s.connections.ExistsBetween(ctx, senderID, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}
	if connected {
		return nil, domain.NewAlreadyConnectedError("already connected with this user")
	}

	if err := s.requests.DeleteBetween(ctx, senderID, req.ReceiverID); err != nil {
		return nil, fmt.Errorf("failed to clear prior requests: %w", err)
	}

	if err := s.requests.Save(ctx, cr); err != nil {
		return nil, err
	}

	s.publishConnectionEvent(ctx, events.ConnectionRequested, cr, uuid.Nil)

	result := toConnectionRequestDTO(cr)
	return &result, nil
}

// Accept accepts a pending request. Receiver only. The request is retained
// with status accepted and a Connection is created for the pair.
func (s *ConnectionService) Accept(ctx context.Context, requestID, actor uuid.UUID) (*AcceptResultDTO, error) {
	cr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !cr.IsReceiver(actor) {
		return nil, domain.NewNotFoundError("connection request", requestID.String())
	}
	if err := cr.Accept(); err != nil {
		return nil, err
	}

	conn, err := connectionDomain.NewConnection(cr.SenderID(), cr.ReceiverID())
	if err != nil {
		return nil, err
	}

	// The unique (user_a, user_b) index turns a raced double-accept into
	// AlreadyConnectedError here, before the request row changes.
	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, cr); err != nil {
		return nil, err
	}

	s.publishConnectionEvent(ctx, events.ConnectionAccepted, cr, conn.ID())

	return &AcceptResultDTO{
		Request:    toConnectionRequestDTO(cr),
		Connection: toConnectionDTO(conn),
	}, nil
}

// Decline declines a pending request. Receiver only. The record is deleted
// rather than archived so the pair can resend later.
func (s *ConnectionService) Decline(ctx context.Context, requestID, actor uuid.UUID) error {
	cr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !cr.IsReceiver(actor) {
		return domain.NewNotFoundError("connection request", requestID.String())
	}
	if cr.Status() != connectionDomain.RequestPending {
		return domain.NewInvalidStateError(string(cr.Status()), string(connectionDomain.RequestDeclined))
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}

	s.publishConnectionEvent(ctx, events.ConnectionRequestDeclined, cr, uuid.Nil)
	return nil
}

// CancelRequest withdraws a pending request. Sender only. The record is
// deleted.
func (s *ConnectionService) CancelRequest(ctx context.Context, requestID, actor uuid.UUID) error {
	cr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !cr.IsSender(actor) {
		return domain.NewNotFoundError("connection request", requestID.String())
	}
	if cr.Status() != connectionDomain.RequestPending {
		return domain.NewInvalidStateError(string(cr.Status()), "cancelled")
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}

	s.publishConnectionEvent(ctx, events.ConnectionRequestCancelled, cr, uuid.Nil)
	return nil
}

// Remove deletes a connection the actor is a member of and purges all
// request history between the pair, returning them to a clean slate.
func (s *ConnectionService) Remove(ctx context.Context, connectionID, actor uuid.UUID) error {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if !conn.IsMember(actor) {
		return domain.NewNotFoundError("connection", connectionID.String())
	}

	if err := s.connections.Delete(ctx, connectionID); err != nil {
		return err
	}
	if err := s.requests.DeleteBetween(ctx, conn.UserA(), conn.UserB()); err != nil {
		return fmt.Errorf("failed to purge request history: %w", err)
	}

	evt := events.ConnectionEvent{
		ConnectionID: conn.ID(),
		SenderID:     conn.UserA(),
		ReceiverID:   conn.UserB(),
		OccurredAt:   time.Now().UTC(),
	}
	s.publish(ctx, events.ConnectionRemoved, conn.ID().String(), evt)
	return nil
}

// ListRequests retrieves the user's pending requests, incoming and sent.
func (s *ConnectionService) ListRequests(ctx context.Context, userID uuid.UUID) (*ConnectionRequestsDTO, error) {
	incoming, err := s.requests.FindPendingByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.requests.FindPendingBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ConnectionRequestsDTO{
		Incoming: toConnectionRequestDTOs(incoming),
		Sent:     toConnectionRequestDTOs(sent),
	}, nil
}

// ListConnections retrieves every connection the user is a member of.
func (s *ConnectionService) ListConnections(ctx context.Context, userID uuid.UUID) ([]ConnectionDTO, error) {
	conns, err := s.connections.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ConnectionDTO, len(conns))
	for i, c := range conns {
		dtos[i] = toConnectionDTO(c)
	}
	return dtos, nil
}

// --- Helpers ---

func (s *ConnectionService) publishConnectionEvent(ctx context.Context, eventType string, cr *connectionDomain.Request, connectionID uuid.UUID) {
	evt := events.ConnectionEvent{
		RequestID:    cr.ID(),
		ConnectionID: connectionID,
		SenderID:     cr.SenderID(),
		ReceiverID:   cr.ReceiverID(),
		OccurredAt:   time.Now().UTC(),
	}
	s.publish(ctx, eventType, cr.ID().String(), evt)
}

func (s *ConnectionService) publish(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-marketplace", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventWithKey(ctx, events.TopicConnectionEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toConnectionRequestDTO(cr *connectionDomain.Request) ConnectionRequestDTO {
	return ConnectionRequestDTO{
		ID:         cr.ID(),
		SenderID:   cr.SenderID(),
		ReceiverID: cr.ReceiverID(),
		Message:    cr.Message(),
		Status:     string(cr.Status()),
		CreatedAt:  cr.CreatedAt(),
		UpdatedAt:  cr.UpdatedAt(),
	}
}

func toConnectionRequestDTOs(requests []*connectionDomain.Request) []ConnectionRequestDTO {
	dtos := make([]ConnectionRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toConnectionRequestDTO(r)
	}
	return dtos
}

func toConnectionDTO(c *connectionDomain.Connection) ConnectionDTO {
	return ConnectionDTO{
		ID:        c.ID(),
		UserA:     c.UserA(),
		UserB:     c.UserB(),
		CreatedAt: c.CreatedAt(),
	}
}
