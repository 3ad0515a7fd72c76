package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loadlane/service-logistics/internal/application"
	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/pkg/auth"
	"github.com/loadlane/service-logistics/internal/pkg/middleware"
	"github.com/loadlane/service-logistics/internal/pkg/response"
)

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	Origin        string  `json:"origin" binding:"required"`
	Destination   string  `json:"destination" binding:"required"`
	TruckTypeCode string  `json:"truck_type_code" binding:"required"`
	PickupDate    string  `json:"pickup_date" binding:"required"`
	WeightKg      float64 `json:"weight_kg"`
	LengthM       float64 `json:"length_m"`
	WidthM        float64 `json:"width_m"`
	HeightM       float64 `json:"height_m"`
	Description   string  `json:"description"`
}

// AssignProviderRequest is the payload for confirming a booking.
type AssignProviderRequest struct {
	ProviderID uuid.UUID `json:"provider_id" binding:"required"`
}

// ResolveRouteRequest is the payload for previewing a route.
type ResolveRouteRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID              uuid.UUID                      `json:"id"`
	BookingNumber   string                         `json:"booking_number"`
	OwnerID         uuid.UUID                      `json:"owner_id"`
	ProviderID      *uuid.UUID                     `json:"provider_id,omitempty"`
	Status          string                         `json:"status"`
	Origin          string                         `json:"origin"`
	Destination     string                         `json:"destination"`
	Route           bookingDomain.RouteSpec        `json:"route"`
	Package         bookingDomain.PackageSpec      `json:"package"`
	TruckTypeCode   string                         `json:"truck_type_code"`
	DistanceKm      float64                        `json:"distance_km"`
	EstimatedHours  float64                        `json:"estimated_hours"`
	BasePricePaise  int64                          `json:"base_price_paise"`
	TotalPricePaise int64                          `json:"total_price_paise"`
	Currency        string                         `json:"currency"`
	PickupDate      time.Time                      `json:"pickup_date"`
	ProgressPercent float64                        `json:"progress_percent"`
	TrackingUpdates []bookingDomain.TrackingUpdate `json:"tracking_updates"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}

func toBookingResponse(bk *bookingDomain.Booking) BookingResponse {
	return BookingResponse{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		OwnerID:         bk.OwnerID(),
		ProviderID:      bk.ProviderID(),
		Status:          string(bk.Status()),
		Origin:          bk.Origin(),
		Destination:     bk.Destination(),
		Route:           bk.RouteSpec(),
		Package:         bk.PackageSpec(),
		TruckTypeCode:   bk.TruckTypeCode(),
		DistanceKm:      bk.DistanceKm(),
		EstimatedHours:  bk.EstimatedHours(),
		BasePricePaise:  bk.BasePricePaise(),
		TotalPricePaise: bk.TotalPricePaise(),
		Currency:        bk.Currency(),
		PickupDate:      bk.PickupDate(),
		ProgressPercent: bk.ProgressPercent(),
		TrackingUpdates: bk.TrackingUpdates(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingResponses(bookings []*bookingDomain.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, bk := range bookings {
		out[i] = toBookingResponse(bk)
	}
	return out
}

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	service *application.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(service *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the booking routes on an authenticated route group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/stats", middleware.RequireRole(auth.RoleAdmin, auth.RoleSupport), h.Stats)
		bookings.GET("/:id", h.Get)
		bookings.GET("/:id/position", h.Position)
		bookings.POST("/:id/assign", middleware.RequireRole(auth.RoleAdmin, auth.RoleSupport), h.Assign)
		bookings.POST("/:id/start", middleware.RequireRole(auth.RoleProvider, auth.RoleAdmin), h.Start)
		bookings.POST("/:id/deliver", middleware.RequireRole(auth.RoleProvider, auth.RoleAdmin), h.Deliver)
		bookings.POST("/:id/cancel", h.Cancel)
	}
	rg.POST("/routes/resolve", h.ResolveRoute)
}

// Create handles POST /api/v1/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pickupDate, err := time.Parse("2006-01-02", req.PickupDate)
	if err != nil {
		response.BadRequest(c, "pickup_date must be in YYYY-MM-DD format")
		return
	}

	bk, err := h.service.CreateBooking(c.Request.Context(), userID, application.CreateBookingInput{
		Origin:        req.Origin,
		Destination:   req.Destination,
		TruckTypeCode: req.TruckTypeCode,
		PickupDate:    pickupDate,
		Package: bookingDomain.PackageSpec{
			WeightKg:    req.WeightKg,
			LengthM:     req.LengthM,
			WidthM:      req.WidthM,
			HeightM:     req.HeightM,
			Description: req.Description,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBookingResponse(bk))
}

// List handles GET /api/v1/bookings with role-scoped results.
func (h *BookingHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	page, limit := parsePagination(c)

	bookings, total, err := h.service.ListBookings(c.Request.Context(), userID, role, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, toBookingResponses(bookings), total, page, limit)
}

// Stats handles GET /api/v1/bookings/stats.
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// Get handles GET /api/v1/bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	bk, err := h.service.GetBooking(c.Request.Context(), id, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(bk))
}

// Position handles GET /api/v1/bookings/:id/position.
func (h *BookingHandler) Position(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	estimate, err := h.service.EstimatePosition(c.Request.Context(), id, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, estimate)
}

// Assign handles POST /api/v1/bookings/:id/assign.
func (h *BookingHandler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	var req AssignProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	bk, err := h.service.AssignProvider(c.Request.Context(), id, req.ProviderID, userID.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(bk))
}

// Start handles POST /api/v1/bookings/:id/start.
func (h *BookingHandler) Start(c *gin.Context) {
	h.runTransition(c, h.service.StartTransit)
}

// Deliver handles POST /api/v1/bookings/:id/deliver.
func (h *BookingHandler) Deliver(c *gin.Context) {
	h.runTransition(c, h.service.MarkDelivered)
}

// Cancel handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.service.CancelBooking)
}

func (h *BookingHandler) runTransition(
	c *gin.Context,
	op func(ctx context.Context, bookingID, requesterID uuid.UUID, role, actor string) (*bookingDomain.Booking, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	bk, err := op(c.Request.Context(), id, userID, role, userID.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(bk))
}

// ResolveRoute handles POST /api/v1/routes/resolve, previewing a route before
// booking.
func (h *BookingHandler) ResolveRoute(c *gin.Context) {
	var req ResolveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	route, err := h.service.ResolveRoute(c.Request.Context(), req.Origin, req.Destination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, route)
}

func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
