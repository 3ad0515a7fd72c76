package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ActorSystem is recorded in tracking updates for transitions triggered by
// automated flows rather than a user.
const ActorSystem = "system"

// TrackingUpdate is one entry in a booking's append-only state-change log.
type TrackingUpdate struct {
	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Actor     string        `json:"actor"`
}

// Booking is the aggregate root for a shipment. Status transitions are
// monotonic per the state machine; the price and route snapshot are immutable
// after creation.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	ownerID       uuid.UUID
	providerID    *uuid.UUID
	status        BookingStatus

	origin      string
	destination string
	routeSpec   RouteSpec
	packageSpec PackageSpec

	truckTypeID   uuid.UUID
	truckTypeCode string

	distanceKm     float64
	estimatedHours float64
	basePricePaise int64
	totalPricePaise int64
	currency       string

	pickupDate      time.Time
	trackingUpdates []TrackingUpdate

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format
// "BK-YYYYMMDD-XXXXXX". The random suffix uses an alphabet without ambiguous
// characters; collision probability within a day is negligible.
func generateBookingNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		suffix[i] = bookingNumberChars[n.Int64()]
	}
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), suffix), nil
}

// NewBooking creates a new Booking with status=pending. The route snapshot and
// prices come from the routing client and pricing engine; they are fixed here
// and never re-derived.
func NewBooking(
	ownerID uuid.UUID,
	origin, destination string,
	routeSpec RouteSpec,
	packageSpec PackageSpec,
	truckType TruckType,
	basePricePaise, totalPricePaise int64,
	pickupDate time.Time,
) (*Booking, error) {
	if ownerID == uuid.Nil {
		return nil, errs.NewValidation("owner ID is required")
	}
	if origin == "" {
		return nil, errs.NewValidation("origin is required")
	}
	if destination == "" {
		return nil, errs.NewValidation("destination is required")
	}
	if routeSpec.DistanceKm < 0 {
		return nil, errs.NewValidation("route distance cannot be negative")
	}
	if totalPricePaise < 0 {
		return nil, errs.NewValidation("total price cannot be negative")
	}
	if packageSpec.WeightKg < 0 {
		return nil, errs.NewValidation("package weight cannot be negative")
	}
	if packageSpec.WeightKg > 0 && packageSpec.WeightKg > truckType.CapacityKg {
		return nil, errs.NewValidation(fmt.Sprintf(
			"package weight %.0fkg exceeds %s capacity of %.0fkg",
			packageSpec.WeightKg, truckType.Code, truckType.CapacityKg))
	}
	if pickupDate.IsZero() {
		return nil, errs.NewValidation("pickup date is required")
	}

	now := time.Now().UTC()
	bookingNumber, err := generateBookingNumber(now)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		ownerID:         ownerID,
		status:          StatusPending,
		origin:          origin,
		destination:     destination,
		routeSpec:       routeSpec,
		packageSpec:     packageSpec,
		truckTypeID:     truckType.ID,
		truckTypeCode:   truckType.Code,
		distanceKm:      routeSpec.DistanceKm,
		estimatedHours:  routeSpec.DurationHours,
		basePricePaise:  basePricePaise,
		totalPricePaise: totalPricePaise,
		currency:        CurrencyINR,
		pickupDate:      pickupDate,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	ownerID uuid.UUID,
	providerID *uuid.UUID,
	status BookingStatus,
	origin, destination string,
	routeSpec RouteSpec,
	packageSpec PackageSpec,
	truckTypeID uuid.UUID,
	truckTypeCode string,
	distanceKm, estimatedHours float64,
	basePricePaise, totalPricePaise int64,
	currency string,
	pickupDate time.Time,
	trackingUpdates []TrackingUpdate,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		ownerID:         ownerID,
		providerID:      providerID,
		status:          status,
		origin:          origin,
		destination:     destination,
		routeSpec:       routeSpec,
		packageSpec:     packageSpec,
		truckTypeID:     truckTypeID,
		truckTypeCode:   truckTypeCode,
		distanceKm:      distanceKm,
		estimatedHours:  estimatedHours,
		basePricePaise:  basePricePaise,
		totalPricePaise: totalPricePaise,
		currency:        currency,
		pickupDate:      pickupDate,
		trackingUpdates: trackingUpdates,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// OwnerID returns the booking owner's user ID.
func (b *Booking) OwnerID() uuid.UUID { return b.ownerID }

// ProviderID returns the assigned provider's ID, or nil if unassigned.
func (b *Booking) ProviderID() *uuid.UUID { return b.providerID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Origin returns the origin as entered by the customer.
func (b *Booking) Origin() string { return b.origin }

// Destination returns the destination as entered by the customer.
func (b *Booking) Destination() string { return b.destination }

// RouteSpec returns the route snapshot taken at creation.
func (b *Booking) RouteSpec() RouteSpec { return b.routeSpec }

// PackageSpec returns the package attributes.
func (b *Booking) PackageSpec() PackageSpec { return b.packageSpec }

// TruckTypeID returns the selected truck type's ID.
func (b *Booking) TruckTypeID() uuid.UUID { return b.truckTypeID }

// TruckTypeCode returns the selected truck type's code.
func (b *Booking) TruckTypeCode() string { return b.truckTypeCode }

// DistanceKm returns the snapshotted route distance.
func (b *Booking) DistanceKm() float64 { return b.distanceKm }

// EstimatedHours returns the snapshotted drive duration.
func (b *Booking) EstimatedHours() float64 { return b.estimatedHours }

// BasePricePaise returns the distance price before adjustments.
func (b *Booking) BasePricePaise() int64 { return b.basePricePaise }

// TotalPricePaise returns the immutable total price.
func (b *Booking) TotalPricePaise() int64 { return b.totalPricePaise }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// PickupDate returns the requested pickup date.
func (b *Booking) PickupDate() time.Time { return b.pickupDate }

// TrackingUpdates returns the append-only state-change log.
func (b *Booking) TrackingUpdates() []TrackingUpdate { return b.trackingUpdates }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// ProgressPercent returns the estimated route progress for the current status.
func (b *Booking) ProgressPercent() float64 { return b.status.ProgressPercent() }

// --- Behavior ---

func (b *Booking) transitionTo(target BookingStatus, actor string) error {
	if !b.status.CanTransitionTo(target) {
		return errs.NewInvalidTransition(string(b.status), string(target))
	}
	now := time.Now().UTC()
	b.status = target
	b.updatedAt = now
	b.trackingUpdates = append(b.trackingUpdates, TrackingUpdate{
		Status:    target,
		Timestamp: now,
		Actor:     actor,
	})
	return nil
}

// AssignProvider transitions the booking from pending to confirmed, setting
// the provider exactly once.
func (b *Booking) AssignProvider(providerID uuid.UUID, actor string) error {
	if providerID == uuid.Nil {
		return errs.NewValidation("provider ID is required")
	}
	if b.providerID != nil {
		return errs.NewInvalidTransition(string(b.status), string(StatusConfirmed))
	}
	if err := b.transitionTo(StatusConfirmed, actor); err != nil {
		return err
	}
	b.providerID = &providerID
	return nil
}

// StartTransit transitions the booking from confirmed to in_transit.
func (b *Booking) StartTransit(actor string) error {
	if b.providerID == nil {
		return errs.NewInvalidTransition(string(b.status), string(StatusInTransit))
	}
	return b.transitionTo(StatusInTransit, actor)
}

// MarkDelivered transitions the booking from in_transit to delivered.
func (b *Booking) MarkDelivered(actor string) error {
	return b.transitionTo(StatusDelivered, actor)
}

// Cancel transitions the booking to cancelled from any non-terminal state.
// The provider reference, if set, is kept for the historical record.
func (b *Booking) Cancel(actor string) error {
	if !b.status.CanBeCancelled() {
		return errs.NewInvalidTransition(string(b.status), string(StatusCancelled))
	}
	return b.transitionTo(StatusCancelled, actor)
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
