package connection

import (
	"context"

	"github.com/google/uuid"
)

// RequestRepository defines the persistence contract for connection requests.
type RequestRepository interface {
	// FindByID retrieves a request by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// FindPendingByReceiver retrieves a user's incoming pending requests.
	FindPendingByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*Request, error)

	// FindPendingBySender retrieves a user's outgoing pending requests.
	FindPendingBySender(ctx context.Context, senderID uuid.UUID) ([]*Request, error)

	// Save persists a new request.
	Save(ctx context.Context, r *Request) error

	// Update persists a status change (accept) conditional on the record
	// still being pending; zero rows affected reports a conflict.
	Update(ctx context.Context, r *Request) error

	// Delete removes a single request.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBetween removes every request between two users, both directions.
	DeleteBetween(ctx context.Context, x, y uuid.UUID) error
}

// ConnectionRepository defines the persistence contract for connections.
type ConnectionRepository interface {
	// FindByID retrieves a connection by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)

	// FindByUser retrieves every connection the user is a member of.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error)

	// ExistsBetween reports whether the unordered pair is connected.
	ExistsBetween(ctx context.Context, x, y uuid.UUID) (bool, error)

	// Save persists a new connection.
	Save(ctx context.Context, c *Connection) error

	// Delete removes a connection.
	Delete(ctx context.Context, id uuid.UUID) error
}
