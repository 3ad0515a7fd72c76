package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadlane/service-logistics/internal/domain/booking"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	t.Run("pending can go to confirmed or cancelled", func(t *testing.T) {
		assert.True(t, booking.StatusPending.CanTransitionTo(booking.StatusConfirmed))
		assert.True(t, booking.StatusPending.CanTransitionTo(booking.StatusCancelled))
		assert.False(t, booking.StatusPending.CanTransitionTo(booking.StatusInTransit))
		assert.False(t, booking.StatusPending.CanTransitionTo(booking.StatusDelivered))
	})

	t.Run("confirmed can go to in_transit or cancelled", func(t *testing.T) {
		assert.True(t, booking.StatusConfirmed.CanTransitionTo(booking.StatusInTransit))
		assert.True(t, booking.StatusConfirmed.CanTransitionTo(booking.StatusCancelled))
		assert.False(t, booking.StatusConfirmed.CanTransitionTo(booking.StatusDelivered))
		assert.False(t, booking.StatusConfirmed.CanTransitionTo(booking.StatusPending))
	})

	t.Run("in_transit can go to delivered or cancelled", func(t *testing.T) {
		assert.True(t, booking.StatusInTransit.CanTransitionTo(booking.StatusDelivered))
		assert.True(t, booking.StatusInTransit.CanTransitionTo(booking.StatusCancelled))
		assert.False(t, booking.StatusInTransit.CanTransitionTo(booking.StatusConfirmed))
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, from := range []booking.BookingStatus{booking.StatusDelivered, booking.StatusCancelled} {
			for _, to := range []booking.BookingStatus{
				booking.StatusPending,
				booking.StatusConfirmed,
				booking.StatusInTransit,
				booking.StatusDelivered,
				booking.StatusCancelled,
			} {
				assert.False(t, from.CanTransitionTo(to), "%s -> %s should be rejected", from, to)
			}
		}
	})

	t.Run("no self transitions", func(t *testing.T) {
		for _, s := range []booking.BookingStatus{
			booking.StatusPending,
			booking.StatusConfirmed,
			booking.StatusInTransit,
		} {
			assert.False(t, s.CanTransitionTo(s))
		}
	})
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, booking.StatusPending.IsTerminal())
	assert.False(t, booking.StatusConfirmed.IsTerminal())
	assert.False(t, booking.StatusInTransit.IsTerminal())
	assert.True(t, booking.StatusDelivered.IsTerminal())
	assert.True(t, booking.StatusCancelled.IsTerminal())
}

func TestBookingStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, booking.StatusPending.CanBeCancelled())
	assert.True(t, booking.StatusConfirmed.CanBeCancelled())
	assert.True(t, booking.StatusInTransit.CanBeCancelled())
	assert.False(t, booking.StatusDelivered.CanBeCancelled())
	assert.False(t, booking.StatusCancelled.CanBeCancelled())
}

func TestBookingStatus_ProgressPercent(t *testing.T) {
	assert.Equal(t, 10.0, booking.StatusPending.ProgressPercent())
	assert.Equal(t, 25.0, booking.StatusConfirmed.ProgressPercent())
	assert.Equal(t, 65.0, booking.StatusInTransit.ProgressPercent())
	assert.Equal(t, 100.0, booking.StatusDelivered.ProgressPercent())
	assert.Equal(t, 0.0, booking.StatusCancelled.ProgressPercent())
}

func TestParseBookingStatus(t *testing.T) {
	t.Run("accepts known statuses", func(t *testing.T) {
		for _, s := range []string{"pending", "confirmed", "in_transit", "delivered", "cancelled"} {
			parsed, err := booking.ParseBookingStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, string(parsed))
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := booking.ParseBookingStatus("shipped")
		require.Error(t, err)
	})
}
