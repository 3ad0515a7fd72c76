package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/events"
	"github.com/loadlane/service-logistics/internal/notify"
	"github.com/loadlane/service-logistics/internal/pkg/auth"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
	"github.com/loadlane/service-logistics/internal/pkg/kafka"
	"github.com/loadlane/service-logistics/internal/routing"
)

// RouteResolver resolves free-text endpoints into a priced routable path.
// Satisfied by *routing.Client.
type RouteResolver interface {
	ResolveRoute(ctx context.Context, originText, destinationText string) (*routing.Route, error)
}

// EventPublisher publishes CloudEvents to Kafka. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// CreateBookingInput carries everything needed to create a booking.
type CreateBookingInput struct {
	Origin        string
	Destination   string
	TruckTypeCode string
	PickupDate    time.Time
	Package       bookingDomain.PackageSpec
}

// PositionEstimate is a booking's live tracking view: the estimated coordinate,
// status-derived progress, and the stored route geometry for the map layer.
type PositionEstimate struct {
	BookingID       uuid.UUID               `json:"booking_id"`
	BookingNumber   string                  `json:"booking_number"`
	Status          string                  `json:"status"`
	ProgressPercent float64                 `json:"progress_percent"`
	Position        routing.Coordinate      `json:"position"`
	Route           bookingDomain.RouteSpec `json:"route"`
}

// BookingStats is the admin dashboard summary.
type BookingStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// BookingService orchestrates the booking lifecycle: route resolution, pricing,
// persistence, and change notification over both the in-process hub and Kafka.
type BookingService struct {
	bookings   bookingDomain.BookingRepository
	truckTypes bookingDomain.TruckTypeRepository
	pricing    bookingDomain.PricingStrategy
	resolver   RouteResolver
	hub        *notify.Hub
	producer   EventPublisher
	logger     *zap.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	truckTypes bookingDomain.TruckTypeRepository,
	pricing bookingDomain.PricingStrategy,
	resolver RouteResolver,
	hub *notify.Hub,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		truckTypes: truckTypes,
		pricing:    pricing,
		resolver:   resolver,
		hub:        hub,
		producer:   producer,
		logger:     logger,
	}
}

// CreateBooking resolves and prices the route, then persists a new pending
// booking. Creation is all-or-nothing: any routing or pricing failure leaves
// no partial state behind.
func (s *BookingService) CreateBooking(ctx context.Context, ownerID uuid.UUID, input CreateBookingInput) (*bookingDomain.Booking, error) {
	truckType, err := s.truckTypes.FindActiveByCode(ctx, input.TruckTypeCode)
	if err != nil {
		return nil, err
	}

	route, err := s.resolver.ResolveRoute(ctx, input.Origin, input.Destination)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Calculate(route.DistanceKm, *truckType, input.Package.WeightKg)
	if err != nil {
		return nil, err
	}

	routeSpec := toRouteSpec(route)
	bk, err := bookingDomain.NewBooking(
		ownerID,
		route.Origin.Name,
		route.Destination.Name,
		routeSpec,
		input.Package,
		*truckType,
		quote.BasePricePaise,
		quote.TotalPricePaise,
		input.PickupDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("truck_type", bk.TruckTypeCode()),
		zap.Float64("distance_km", bk.DistanceKm()),
		zap.Int64("total_price_paise", bk.TotalPricePaise()),
	)

	s.notifyChange(ctx, bk, events.TypeBookingCreated)
	return bk, nil
}

// ResolveRoute previews a route without creating a booking.
func (s *BookingService) ResolveRoute(ctx context.Context, origin, destination string) (*routing.Route, error) {
	return s.resolver.ResolveRoute(ctx, origin, destination)
}

// GetBooking retrieves a booking, enforcing ownership for non-privileged roles.
func (s *BookingService) GetBooking(ctx context.Context, id, requesterID uuid.UUID, role string) (*bookingDomain.Booking, error) {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(bk, requesterID, role) {
		return nil, errs.NewForbidden("booking belongs to another user")
	}
	return bk, nil
}

// GetByNumber retrieves a booking by its public booking number. Unauthenticated
// landing-page tracking uses this, so no ownership check applies.
func (s *BookingService) GetByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	return s.bookings.FindByNumber(ctx, number)
}

// ListBookings returns the requester's role-scoped booking page: customers see
// bookings they own, providers see bookings assigned to them, admin and support
// see everything.
func (s *BookingService) ListBookings(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	page, limit = normalizePage(page, limit)
	switch role {
	case auth.RoleProvider:
		return s.bookings.FindByProviderID(ctx, requesterID, page, limit)
	case auth.RoleAdmin, auth.RoleSupport:
		return s.bookings.ListAll(ctx, page, limit)
	default:
		return s.bookings.FindByOwnerID(ctx, requesterID, page, limit)
	}
}

// GetStats returns booking counts grouped by status for the admin dashboard.
func (s *BookingService) GetStats(ctx context.Context) (*BookingStats, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStats{Total: total, ByStatus: counts}, nil
}

// AssignProvider confirms a pending booking and assigns its provider. Of two
// racing calls, exactly one wins; the loser sees ErrInvalidTransition or
// ErrConcurrentModification.
func (s *BookingService) AssignProvider(ctx context.Context, bookingID, providerID uuid.UUID, actor string) (*bookingDomain.Booking, error) {
	return s.transition(ctx, bookingID, events.TypeBookingConfirmed, func(bk *bookingDomain.Booking) error {
		return bk.AssignProvider(providerID, actor)
	})
}

// StartTransit moves a confirmed booking to in_transit.
func (s *BookingService) StartTransit(ctx context.Context, bookingID, requesterID uuid.UUID, role string, actor string) (*bookingDomain.Booking, error) {
	return s.transition(ctx, bookingID, events.TypeBookingInTransit, func(bk *bookingDomain.Booking) error {
		if err := requireAssignedProvider(bk, requesterID, role); err != nil {
			return err
		}
		return bk.StartTransit(actor)
	})
}

// MarkDelivered moves an in_transit booking to delivered.
func (s *BookingService) MarkDelivered(ctx context.Context, bookingID, requesterID uuid.UUID, role string, actor string) (*bookingDomain.Booking, error) {
	return s.transition(ctx, bookingID, events.TypeBookingDelivered, func(bk *bookingDomain.Booking) error {
		if err := requireAssignedProvider(bk, requesterID, role); err != nil {
			return err
		}
		return bk.MarkDelivered(actor)
	})
}

// CancelBooking cancels a booking from any non-terminal state. Owners may
// cancel their own bookings; admin and support may cancel any.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, role string, actor string) (*bookingDomain.Booking, error) {
	return s.transition(ctx, bookingID, events.TypeBookingCancelled, func(bk *bookingDomain.Booking) error {
		if role != auth.RoleAdmin && role != auth.RoleSupport && bk.OwnerID() != requesterID {
			return errs.NewForbidden("booking belongs to another user")
		}
		return bk.Cancel(actor)
	})
}

// EstimatePosition returns the booking's live tracking view. The estimate is
// pure: the same booking state always yields the same coordinate.
func (s *BookingService) EstimatePosition(ctx context.Context, id, requesterID uuid.UUID, role string) (*PositionEstimate, error) {
	bk, err := s.GetBooking(ctx, id, requesterID, role)
	if err != nil {
		return nil, err
	}
	return estimateFor(bk), nil
}

// TrackByNumber returns the public tracking view for a booking number.
func (s *BookingService) TrackByNumber(ctx context.Context, number string) (*PositionEstimate, error) {
	bk, err := s.bookings.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return estimateFor(bk), nil
}

// transition runs one optimistic-locking write cycle: load, mutate the
// aggregate, bump the version, CAS-update, then notify. A version conflict
// surfaces as ErrConcurrentModification with the aggregate untouched in the
// store.
func (s *BookingService) transition(ctx context.Context, bookingID uuid.UUID, eventType string, mutate func(*bookingDomain.Booking) error) (*bookingDomain.Booking, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := mutate(bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", string(bk.Status())),
	)

	s.notifyChange(ctx, bk, eventType)
	return bk, nil
}

// notifyChange fans the state change out to websocket subscribers and Kafka.
// Notification failures are logged, never surfaced: the state change is already
// durable.
func (s *BookingService) notifyChange(ctx context.Context, bk *bookingDomain.Booking, eventType string) {
	s.hub.Publish(notify.Event{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		OwnerID:       bk.OwnerID(),
		Status:        string(bk.Status()),
		Progress:      bk.ProgressPercent(),
		OccurredAt:    bk.UpdatedAt(),
	})

	if s.producer == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:       bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		OwnerID:         bk.OwnerID(),
		ProviderID:      bk.ProviderID(),
		Status:          string(bk.Status()),
		TruckTypeCode:   bk.TruckTypeCode(),
		Origin:          bk.Origin(),
		Destination:     bk.Destination(),
		DistanceKm:      bk.DistanceKm(),
		TotalPricePaise: bk.TotalPricePaise(),
		Currency:        bk.Currency(),
		PickupDate:      bk.PickupDate(),
		OccurredAt:      bk.UpdatedAt(),
	}
	event, err := kafka.NewCloudEvent(events.EventSource, eventType, payload)
	if err != nil {
		s.logger.Error("failed to build booking event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, bk.ID().String(), event); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("booking_id", bk.ID().String()),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func estimateFor(bk *bookingDomain.Booking) *PositionEstimate {
	spec := bk.RouteSpec()
	route := routing.Route{
		Origin: routing.Place{
			Name:  spec.OriginName,
			Coord: routing.Coordinate{Lng: spec.OriginLng, Lat: spec.OriginLat},
		},
		Destination: routing.Place{
			Name:  spec.DestinationName,
			Coord: routing.Coordinate{Lng: spec.DestinationLng, Lat: spec.DestinationLat},
		},
		DistanceKm:    spec.DistanceKm,
		DurationHours: spec.DurationHours,
		Polyline:      toPolyline(spec.Polyline),
	}
	progress := bk.ProgressPercent()
	return &PositionEstimate{
		BookingID:       bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		Status:          string(bk.Status()),
		ProgressPercent: progress,
		Position:        routing.EstimatePosition(route, progress),
		Route:           spec,
	}
}

func toRouteSpec(route *routing.Route) bookingDomain.RouteSpec {
	polyline := make([][2]float64, len(route.Polyline))
	for i, c := range route.Polyline {
		polyline[i] = [2]float64{c.Lng, c.Lat}
	}
	return bookingDomain.RouteSpec{
		OriginName:      route.Origin.Name,
		OriginLat:       route.Origin.Coord.Lat,
		OriginLng:       route.Origin.Coord.Lng,
		DestinationName: route.Destination.Name,
		DestinationLat:  route.Destination.Coord.Lat,
		DestinationLng:  route.Destination.Coord.Lng,
		DistanceKm:      route.DistanceKm,
		DurationHours:   route.DurationHours,
		Polyline:        polyline,
	}
}

func toPolyline(pairs [][2]float64) []routing.Coordinate {
	polyline := make([]routing.Coordinate, len(pairs))
	for i, p := range pairs {
		polyline[i] = routing.Coordinate{Lng: p[0], Lat: p[1]}
	}
	return polyline
}

func canView(bk *bookingDomain.Booking, requesterID uuid.UUID, role string) bool {
	switch role {
	case auth.RoleAdmin, auth.RoleSupport:
		return true
	case auth.RoleProvider:
		return bk.ProviderID() != nil && *bk.ProviderID() == requesterID
	default:
		return bk.OwnerID() == requesterID
	}
}

// requireAssignedProvider lets the assigned provider (or admin) drive transit
// transitions and nobody else.
func requireAssignedProvider(bk *bookingDomain.Booking, requesterID uuid.UUID, role string) error {
	if role == auth.RoleAdmin {
		return nil
	}
	if bk.ProviderID() == nil || *bk.ProviderID() != requesterID {
		return errs.NewForbidden("booking is not assigned to this provider")
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
