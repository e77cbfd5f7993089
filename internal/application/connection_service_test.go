package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thryve-market/service-marketplace/internal/application"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

func sendRequest(t *testing.T, stack *marketplaceStack, senderID, receiverID uuid.UUID) *application.ConnectionRequestDTO {
	t.Helper()

	cr, err := stack.Connections.SendRequest(context.Background(), senderID, application.SendConnectionRequest{
		ReceiverID: receiverID,
		Message:    "we should work together",
	})
	require.NoError(t, err)
	return cr
}

func TestSendRequest(t *testing.T) {
	stack := setupStack(t)
	senderID := uuid.New()
	receiverID := uuid.New()

	cr := sendRequest(t, stack, senderID, receiverID)

	assert.Equal(t, "pending", cr.Status)
	assert.Equal(t, senderID, cr.SenderID)
	assert.Equal(t, receiverID, cr.ReceiverID)
}

func TestSendRequest_RejectsSelf(t *testing.T) {
	stack := setupStack(t)
	userID := uuid.New()

	_, err := stack.Connections.SendRequest(context.Background(), userID, application.SendConnectionRequest{
		ReceiverID: userID,
	})

	assert.True(t, domain.IsCode(err, domain.ErrCodeSelfConnection))
}

func TestSendRequest_SupersedesPriorRequest(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	first := sendRequest(t, stack, userA, userB)

	// A resend in the opposite direction replaces the prior request instead
	// of stacking a second one.
	second := sendRequest(t, stack, userB, userA)

	_, err := stack.Connections.Accept(ctx, first.ID, userB)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "the superseded request is gone")

	requests, err := stack.Connections.ListRequests(ctx, userA)
	require.NoError(t, err)
	require.Len(t, requests.Incoming, 1)
	assert.Equal(t, second.ID, requests.Incoming[0].ID)
	assert.Empty(t, requests.Sent)
}

func TestAccept(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	cr := sendRequest(t, stack, senderID, receiverID)

	result, err := stack.Connections.Accept(ctx, cr.ID, receiverID)
	require.NoError(t, err)

	assert.Equal(t, "accepted", result.Request.Status)
	assert.NotEqual(t, uuid.Nil, result.Connection.ID)

	conns, err := stack.Connections.ListConnections(ctx, senderID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, result.Connection.ID, conns[0].ID)
}

func TestAccept_Authorization(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	cr := sendRequest(t, stack, senderID, receiverID)

	_, err := stack.Connections.Accept(ctx, cr.ID, senderID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "the sender cannot accept their own request")

	_, err = stack.Connections.Accept(ctx, cr.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	_, err = stack.Connections.Accept(ctx, uuid.New(), receiverID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

func TestAccept_Twice(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	receiverID := uuid.New()
	cr := sendRequest(t, stack, uuid.New(), receiverID)

	_, err := stack.Connections.Accept(ctx, cr.ID, receiverID)
	require.NoError(t, err)

	_, err = stack.Connections.Accept(ctx, cr.ID, receiverID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
}

func TestSendRequest_WhileConnected(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	cr := sendRequest(t, stack, userA, userB)
	_, err := stack.Connections.Accept(ctx, cr.ID, userB)
	require.NoError(t, err)

	// Both directions are blocked while the connection stands.
	_, err = stack.Connections.SendRequest(ctx, userA, application.SendConnectionRequest{ReceiverID: userB})
	assert.True(t, domain.IsCode(err, domain.ErrCodeAlreadyConnected))

	_, err = stack.Connections.SendRequest(ctx, userB, application.SendConnectionRequest{ReceiverID: userA})
	assert.True(t, domain.IsCode(err, domain.ErrCodeAlreadyConnected))
}

func TestDecline_AllowsResend(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	cr := sendRequest(t, stack, senderID, receiverID)

	require.NoError(t, stack.Connections.Decline(ctx, cr.ID, receiverID))

	// Nothing remains of the declined request, so either side can try again.
	resend := sendRequest(t, stack, receiverID, senderID)
	assert.Equal(t, "pending", resend.Status)
}

func TestDecline_Authorization(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	cr := sendRequest(t, stack, senderID, uuid.New())

	err := stack.Connections.Decline(ctx, cr.ID, senderID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	err = stack.Connections.Decline(ctx, cr.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

func TestCancelRequest(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	cr := sendRequest(t, stack, senderID, receiverID)

	err := stack.Connections.CancelRequest(ctx, cr.ID, receiverID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "only the sender withdraws a request")

	require.NoError(t, stack.Connections.CancelRequest(ctx, cr.ID, senderID))

	requests, err := stack.Connections.ListRequests(ctx, receiverID)
	require.NoError(t, err)
	assert.Empty(t, requests.Incoming)
}

func TestRemove(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	cr := sendRequest(t, stack, userA, userB)
	result, err := stack.Connections.Accept(ctx, cr.ID, userB)
	require.NoError(t, err)

	err = stack.Connections.Remove(ctx, result.Connection.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	require.NoError(t, stack.Connections.Remove(ctx, result.Connection.ID, userA))

	conns, err := stack.Connections.ListConnections(ctx, userB)
	require.NoError(t, err)
	assert.Empty(t, conns)

	// Removal clears the slate; a fresh request goes through.
	again := sendRequest(t, stack, userB, userA)
	assert.Equal(t, "pending", again.Status)
}
