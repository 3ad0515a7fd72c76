package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer bounds each subscriber's queue. When a subscriber lags,
// the oldest buffered event is dropped so the latest state still arrives;
// this is a deliberate lossy policy, not a failure.
const subscriberBuffer = 16

// Event is a booking state change pushed to subscribers.
type Event struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Status        string    `json:"status"`
	Progress      float64   `json:"progress"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Filter selects events either by booking ID or by owning user ID. Exactly
// one of the fields should be set.
type Filter struct {
	BookingID uuid.UUID
	OwnerID   uuid.UUID
}

func (f Filter) matches(e Event) bool {
	if f.BookingID != uuid.Nil {
		return e.BookingID == f.BookingID
	}
	if f.OwnerID != uuid.Nil {
		return e.OwnerID == f.OwnerID
	}
	return false
}

// Subscription is one subscriber's view of the event stream. Events arrive in
// the order the state machine produced them for any single booking. There is
// no replay: a reconnecting subscriber must re-fetch current state.
type Subscription struct {
	filter Filter
	ch     chan Event
	mu     sync.Mutex
}

// Events returns the subscriber's event channel. It is closed on unsubscribe
// and on hub shutdown.
func (s *Subscription) Events() <-chan Event { return s.ch }

// deliver enqueues an event, dropping the oldest buffered event when the
// subscriber is not keeping up.
func (s *Subscription) deliver(e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		select {
		case s.ch <- e:
			return true
		default:
			select {
			case <-s.ch: // drop oldest
			default:
			}
		}
	}
}

// Hub fans booking state changes out to subscribed viewers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a subscriber for events matching the filter.
func (h *Hub) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		filter: filter,
		ch:     make(chan Event, subscriberBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Publish delivers an event to every matching subscriber. Delivery is
// at-least-once per live subscription; there is no durability across
// disconnects.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		if sub.filter.matches(e) {
			sub.deliver(e)
		}
	}
	h.logger.Debug("published booking event",
		zap.String("booking_id", e.BookingID.String()),
		zap.String("status", e.Status),
	)
}

// Close shuts the hub down, closing all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
