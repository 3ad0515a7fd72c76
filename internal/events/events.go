package events

import (
	"time"

	"github.com/google/uuid"
)

// EventSource identifies this service in CloudEvent envelopes.
const EventSource = "service-logistics"

// Kafka topics.
const (
	// TopicBookingEvents carries booking lifecycle events, keyed by booking ID
	// so all events for one booking stay in a single partition, in order.
	TopicBookingEvents = "booking.events"

	// TopicDispatchEvents carries provider assignment decisions from the
	// dispatch service.
	TopicDispatchEvents = "dispatch.events"
)

// Booking lifecycle event types published to TopicBookingEvents.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingInTransit = "booking.in_transit"
	TypeBookingDelivered = "booking.delivered"
	TypeBookingCancelled = "booking.cancelled"
)

// TypeProviderAssigned is consumed from TopicDispatchEvents.
const TypeProviderAssigned = "dispatch.provider_assigned"

// BookingEventPayload is the data section of every booking lifecycle event.
type BookingEventPayload struct {
	BookingID       uuid.UUID  `json:"booking_id"`
	BookingNumber   string     `json:"booking_number"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	ProviderID      *uuid.UUID `json:"provider_id,omitempty"`
	Status          string     `json:"status"`
	TruckTypeCode   string     `json:"truck_type_code"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	DistanceKm      float64    `json:"distance_km"`
	TotalPricePaise int64      `json:"total_price_paise"`
	Currency        string     `json:"currency"`
	PickupDate      time.Time  `json:"pickup_date"`
	OccurredAt      time.Time  `json:"occurred_at"`
}

// ProviderAssignedPayload is the data section of a dispatch.provider_assigned
// event.
type ProviderAssignedPayload struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	AssignedAt time.Time `json:"assigned_at"`
}
