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

func createBooking(t *testing.T, stack *marketplaceStack, listingID, senderID uuid.UUID, startDay, endDay int) *application.BookingDTO {
	t.Helper()

	start, end := bookingDates(startDay, endDay)
	bk, err := stack.Bookings.CreateBooking(context.Background(), senderID, application.CreateBookingRequest{
		ListingID: listingID,
		StartDate: start,
		EndDate:   end,
		Message:   "is this still available?",
	})
	require.NoError(t, err)
	return bk
}

func TestCreateBooking(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	bk := createBooking(t, stack, lst.ID, senderID, 10, 15)

	assert.Equal(t, "pending", bk.Status)
	assert.Equal(t, senderID, bk.SenderID)
	assert.Equal(t, ownerID, bk.ReceiverID)
	assert.Equal(t, int64(1), bk.Version)

	got, err := stack.Bookings.GetBooking(ctx, bk.ID, senderID)
	require.NoError(t, err)
	assert.Equal(t, bk.ID, got.ID)
}

func TestCreateBooking_OwnListing(t *testing.T) {
	stack := setupStack(t)
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	start, end := bookingDates(10, 15)
	_, err := stack.Bookings.CreateBooking(context.Background(), ownerID, application.CreateBookingRequest{
		ListingID: lst.ID,
		StartDate: start,
		EndDate:   end,
	})

	assert.True(t, domain.IsCode(err, domain.ErrCodeSelfBooking))
}

func TestCreateBooking_UnknownListing(t *testing.T) {
	stack := setupStack(t)

	start, end := bookingDates(10, 15)
	_, err := stack.Bookings.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
		ListingID: uuid.New(),
		StartDate: start,
		EndDate:   end,
	})

	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

func TestCreateBooking_UnavailableListing(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	_, err := stack.Listings.SetAvailability(ctx, lst.ID, ownerID, false)
	require.NoError(t, err)

	start, end := bookingDates(10, 15)
	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		ListingID: lst.ID,
		StartDate: start,
		EndDate:   end,
	})

	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
}

func TestCreateBooking_DuplicatePending(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	senderID := uuid.New()
	lst := seedListing(t, stack, uuid.New())

	createBooking(t, stack, lst.ID, senderID, 10, 15)

	start, end := bookingDates(20, 25)
	_, err := stack.Bookings.CreateBooking(ctx, senderID, application.CreateBookingRequest{
		ListingID: lst.ID,
		StartDate: start,
		EndDate:   end,
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeDuplicatePending),
		"a second request for the same listing is blocked while the first is pending, even on other dates")

	// Another user is unaffected.
	createBooking(t, stack, lst.ID, uuid.New(), 20, 25)
}

func TestCreateBooking_ResendAfterResolution(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	first := createBooking(t, stack, lst.ID, senderID, 10, 15)
	_, err := stack.Bookings.DeclineBooking(ctx, first.ID, ownerID)
	require.NoError(t, err)

	// The declined request no longer blocks a new one.
	second := createBooking(t, stack, lst.ID, senderID, 10, 15)
	assert.Equal(t, "pending", second.Status)
}

func TestCreateBooking_DateConflicts(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	first := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)

	// Pending requests do not reserve dates.
	overlapping := createBooking(t, stack, lst.ID, uuid.New(), 12, 18)
	assert.Equal(t, "pending", overlapping.Status)

	_, err := stack.Bookings.ScheduleBooking(ctx, first.ID, ownerID)
	require.NoError(t, err)

	// Scheduled ones do, with inclusive bounds.
	start, end := bookingDates(15, 20)
	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		ListingID: lst.ID,
		StartDate: start,
		EndDate:   end,
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeDateConflict),
		"a range starting on the scheduled range's last day conflicts")

	adjacent := createBooking(t, stack, lst.ID, uuid.New(), 16, 20)
	assert.Equal(t, "pending", adjacent.Status)
}

func TestScheduleBooking_Authorization(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)
	bk := createBooking(t, stack, lst.ID, senderID, 10, 15)

	_, err := stack.Bookings.ScheduleBooking(ctx, bk.ID, senderID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "the sender cannot schedule")

	_, err = stack.Bookings.ScheduleBooking(ctx, bk.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "a stranger gets the same answer as a missing id")

	scheduled, err := stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "scheduled", scheduled.Status)
	assert.Equal(t, int64(2), scheduled.Version)
}

func TestScheduleBooking_OnlyFromPending(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)
	bk := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)

	_, err := stack.Bookings.DeclineBooking(ctx, bk.ID, ownerID)
	require.NoError(t, err)

	_, err = stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
}

func TestCompleteBooking(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)
	bk := createBooking(t, stack, lst.ID, senderID, 10, 15)

	_, err := stack.Bookings.CompleteBooking(ctx, bk.ID, senderID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState), "completion requires a scheduled booking")

	_, err = stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
	require.NoError(t, err)

	_, err = stack.Bookings.CompleteBooking(ctx, bk.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	done, err := stack.Bookings.CompleteBooking(ctx, bk.ID, senderID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("sender cancels while pending", func(t *testing.T) {
		stack := setupStack(t)
		senderID := uuid.New()
		lst := seedListing(t, stack, uuid.New())
		bk := createBooking(t, stack, lst.ID, senderID, 10, 15)

		cancelled, err := stack.Bookings.CancelBooking(ctx, bk.ID, senderID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("receiver cannot cancel while pending", func(t *testing.T) {
		stack := setupStack(t)
		ownerID := uuid.New()
		lst := seedListing(t, stack, ownerID)
		bk := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)

		_, err := stack.Bookings.CancelBooking(ctx, bk.ID, ownerID)
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound),
			"the receiver's path out of pending is decline, and the refusal is indistinguishable from a missing id")
	})

	t.Run("either party cancels while scheduled", func(t *testing.T) {
		stack := setupStack(t)
		ownerID := uuid.New()
		lst := seedListing(t, stack, ownerID)
		bk := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)
		_, err := stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
		require.NoError(t, err)

		cancelled, err := stack.Bookings.CancelBooking(ctx, bk.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		stack := setupStack(t)
		lst := seedListing(t, stack, uuid.New())
		bk := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)

		_, err := stack.Bookings.CancelBooking(ctx, bk.ID, uuid.New())
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})

	t.Run("completed bookings stay completed", func(t *testing.T) {
		stack := setupStack(t)
		ownerID := uuid.New()
		senderID := uuid.New()
		lst := seedListing(t, stack, ownerID)
		bk := createBooking(t, stack, lst.ID, senderID, 10, 15)
		_, err := stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
		require.NoError(t, err)
		_, err = stack.Bookings.CompleteBooking(ctx, bk.ID, ownerID)
		require.NoError(t, err)

		_, err = stack.Bookings.CancelBooking(ctx, bk.ID, senderID)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
	})
}

func TestGetBooking_VisibleToPartiesOnly(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)
	bk := createBooking(t, stack, lst.ID, senderID, 10, 15)

	_, err := stack.Bookings.GetBooking(ctx, bk.ID, ownerID)
	require.NoError(t, err)

	_, err = stack.Bookings.GetBooking(ctx, bk.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

func TestListBookings_ByDirection(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	senderID := uuid.New()
	lst := seedListing(t, stack, ownerID)
	createBooking(t, stack, lst.ID, senderID, 10, 15)
	createBooking(t, stack, lst.ID, uuid.New(), 20, 25)

	sent, err := stack.Bookings.GetSentBookings(ctx, senderID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent.Total)

	received, err := stack.Bookings.GetReceivedBookings(ctx, ownerID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), received.Total)
}

func TestCancelOpenForListing(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	pending := createBooking(t, stack, lst.ID, uuid.New(), 1, 5)
	scheduled := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)
	declined := createBooking(t, stack, lst.ID, uuid.New(), 20, 25)

	_, err := stack.Bookings.ScheduleBooking(ctx, scheduled.ID, ownerID)
	require.NoError(t, err)
	_, err = stack.Bookings.DeclineBooking(ctx, declined.ID, ownerID)
	require.NoError(t, err)

	require.NoError(t, stack.Bookings.CancelOpenForListing(ctx, lst.ID))

	for _, id := range []uuid.UUID{pending.ID, scheduled.ID} {
		got, err := stack.Bookings.GetBooking(ctx, id, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", got.Status)
	}

	got, err := stack.Bookings.GetBooking(ctx, declined.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "declined", got.Status, "resolved requests are left alone")
}

func TestGetBookingStats(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	createBooking(t, stack, lst.ID, uuid.New(), 1, 5)
	bk := createBooking(t, stack, lst.ID, uuid.New(), 10, 15)
	_, err := stack.Bookings.ScheduleBooking(ctx, bk.ID, ownerID)
	require.NoError(t, err)

	stats, err := stack.Bookings.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["scheduled"])
}
