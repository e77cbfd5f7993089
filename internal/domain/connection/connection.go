package connection

import (
	"time"

	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// Connection is an established, symmetric relationship between two users.
// The pair is stored canonically (smaller UUID first) so unordered-pair
// uniqueness reduces to a composite unique index.
type Connection struct {
	id        uuid.UUID
	userA     uuid.UUID
	userB     uuid.UUID
	createdAt time.Time
}

// CanonicalPair orders two user ids into the stored (userA, userB) form.
func CanonicalPair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if x.String() > y.String() {
		return y, x
	}
	return x, y
}

// NewConnection creates a Connection between two distinct users.
func NewConnection(x, y uuid.UUID) (*Connection, error) {
	if x == uuid.Nil || y == uuid.Nil {
		return nil, domain.NewValidationError("both user IDs are required")
	}
	if x == y {
		return nil, domain.NewSelfConnectionError("cannot connect with yourself")
	}

	a, b := CanonicalPair(x, y)
	return &Connection{
		id:        uuid.New(),
		userA:     a,
		userB:     b,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructConnection rebuilds a Connection from persistence data.
func ReconstructConnection(id, userA, userB uuid.UUID, createdAt time.Time) *Connection {
	return &Connection{id: id, userA: userA, userB: userB, createdAt: createdAt}
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() uuid.UUID { return c.id }

// UserA returns the canonically first member of the pair.
func (c *Connection) UserA() uuid.UUID { return c.userA }

// UserB returns the canonically second member of the pair.
func (c *Connection) UserB() uuid.UUID { return c.userB }

// CreatedAt returns the creation timestamp.
func (c *Connection) CreatedAt() time.Time { return c.createdAt }

// IsMember reports whether actor is a party to this connection.
func (c *Connection) IsMember(actor uuid.UUID) bool {
	return c.userA == actor || c.userB == actor
}

// OtherMember returns the member that is not actor. The caller must have
// checked IsMember first.
func (c *Connection) OtherMember(actor uuid.UUID) uuid.UUID {
	if c.userA == actor {
		return c.userB
	}
	return c.userA
}
