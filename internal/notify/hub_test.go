package notify_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loadlane/service-logistics/internal/notify"
)

func event(bookingID, ownerID uuid.UUID, status string) notify.Event {
	return notify.Event{
		BookingID:  bookingID,
		OwnerID:    ownerID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func collect(sub *notify.Subscription, n int, timeout time.Duration) []notify.Event {
	var out []notify.Event
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return out
			}
			out = append(out, e)
		case <-deadline:
			return out
		}
	}
	return out
}

func TestHub_PublishSubscribe(t *testing.T) {
	t.Run("delivers events for the subscribed booking in order", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		bookingID := uuid.New()
		ownerID := uuid.New()
		sub := hub.Subscribe(notify.Filter{BookingID: bookingID})
		defer hub.Unsubscribe(sub)

		for _, status := range []string{"confirmed", "in_transit", "delivered"} {
			hub.Publish(event(bookingID, ownerID, status))
		}

		got := collect(sub, 3, time.Second)
		require.Len(t, got, 3)
		assert.Equal(t, "confirmed", got[0].Status)
		assert.Equal(t, "in_transit", got[1].Status)
		assert.Equal(t, "delivered", got[2].Status)
	})

	t.Run("filters by booking ID", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		mine := uuid.New()
		sub := hub.Subscribe(notify.Filter{BookingID: mine})
		defer hub.Unsubscribe(sub)

		hub.Publish(event(uuid.New(), uuid.New(), "confirmed"))
		hub.Publish(event(mine, uuid.New(), "in_transit"))

		got := collect(sub, 1, time.Second)
		require.Len(t, got, 1)
		assert.Equal(t, mine, got[0].BookingID)
	})

	t.Run("filters by owner ID across bookings", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		owner := uuid.New()
		sub := hub.Subscribe(notify.Filter{OwnerID: owner})
		defer hub.Unsubscribe(sub)

		hub.Publish(event(uuid.New(), owner, "confirmed"))
		hub.Publish(event(uuid.New(), uuid.New(), "confirmed"))
		hub.Publish(event(uuid.New(), owner, "delivered"))

		got := collect(sub, 2, time.Second)
		require.Len(t, got, 2)
		for _, e := range got {
			assert.Equal(t, owner, e.OwnerID)
		}
	})

	t.Run("multiple subscribers each get a copy", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		bookingID := uuid.New()
		ownerID := uuid.New()
		byBooking := hub.Subscribe(notify.Filter{BookingID: bookingID})
		byOwner := hub.Subscribe(notify.Filter{OwnerID: ownerID})
		defer hub.Unsubscribe(byBooking)
		defer hub.Unsubscribe(byOwner)

		hub.Publish(event(bookingID, ownerID, "confirmed"))

		require.Len(t, collect(byBooking, 1, time.Second), 1)
		require.Len(t, collect(byOwner, 1, time.Second), 1)
	})
}

func TestHub_Backpressure(t *testing.T) {
	t.Run("slow subscriber eventually sees the latest event", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		bookingID := uuid.New()
		ownerID := uuid.New()
		sub := hub.Subscribe(notify.Filter{BookingID: bookingID})
		defer hub.Unsubscribe(sub)

		// Far more events than the subscriber buffer holds; nothing is read
		// until all publishes are done.
		total := 500
		for i := 0; i < total; i++ {
			hub.Publish(notify.Event{
				BookingID: bookingID,
				OwnerID:   ownerID,
				Status:    "in_transit",
				Progress:  float64(i),
			})
		}

		got := collect(sub, total, 200*time.Millisecond)
		require.NotEmpty(t, got)
		assert.Less(t, len(got), total, "drops expected under backpressure")
		assert.Equal(t, float64(total-1), got[len(got)-1].Progress, "latest event must survive")
	})
}

func TestHub_Unsubscribe(t *testing.T) {
	t.Run("closes the channel", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		sub := hub.Subscribe(notify.Filter{BookingID: uuid.New()})
		hub.Unsubscribe(sub)

		_, ok := <-sub.Events()
		assert.False(t, ok)
	})

	t.Run("is idempotent", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		sub := hub.Subscribe(notify.Filter{BookingID: uuid.New()})
		hub.Unsubscribe(sub)
		hub.Unsubscribe(sub)
	})

	t.Run("publish after unsubscribe does not panic", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		defer hub.Close()

		bookingID := uuid.New()
		sub := hub.Subscribe(notify.Filter{BookingID: bookingID})
		hub.Unsubscribe(sub)

		hub.Publish(event(bookingID, uuid.New(), "confirmed"))
	})
}

func TestHub_Close(t *testing.T) {
	t.Run("closes all subscriber channels", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		a := hub.Subscribe(notify.Filter{BookingID: uuid.New()})
		b := hub.Subscribe(notify.Filter{OwnerID: uuid.New()})

		hub.Close()

		_, okA := <-a.Events()
		_, okB := <-b.Events()
		assert.False(t, okA)
		assert.False(t, okB)
	})

	t.Run("subscribe after close returns a closed subscription", func(t *testing.T) {
		hub := notify.NewHub(zap.NewNop())
		hub.Close()

		sub := hub.Subscribe(notify.Filter{BookingID: uuid.New()})
		_, ok := <-sub.Events()
		assert.False(t, ok)
	})
}
