package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/loadlane/service-logistics/internal/application"
	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/notify"
	"github.com/loadlane/service-logistics/internal/pkg/auth"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
	"github.com/loadlane/service-logistics/internal/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// TrackingHandler serves the public tracking lookup and the websocket stream
// of booking state changes.
type TrackingHandler struct {
	service    *application.BookingService
	hub        *notify.Hub
	jwtManager *auth.JWTManager
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewTrackingHandler creates a TrackingHandler.
func NewTrackingHandler(service *application.BookingService, hub *notify.Hub, jwtManager *auth.JWTManager, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		service:    service,
		hub:        hub,
		jwtManager: jwtManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterPublicRoutes mounts the unauthenticated tracking lookup.
func (h *TrackingHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/track/:number", h.TrackByNumber)
}

// RegisterWebsocket mounts the websocket stream on the engine root.
func (h *TrackingHandler) RegisterWebsocket(r *gin.Engine) {
	r.GET("/ws/bookings", h.Stream)
}

// TrackByNumber handles GET /api/v1/track/:number. Landing-page tracking
// search, no authentication.
func (h *TrackingHandler) TrackByNumber(c *gin.Context) {
	estimate, err := h.service.TrackByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, estimate)
}

// Stream handles GET /ws/bookings?token=...&booking_id=...|mine. Browsers
// cannot set headers on websocket dials, so the token rides a query parameter.
// On connect the client receives a snapshot per subscribed booking, then live
// events; a reconnecting client re-fetches state the same way.
func (h *TrackingHandler) Stream(c *gin.Context) {
	claims, err := h.jwtManager.Validate(c.Query("token"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"code": "UNAUTHORIZED", "message": err.Error()},
		})
		return
	}

	filter, snapshots, err := h.resolveSubscription(c, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.hub.Subscribe(filter)
	defer h.hub.Unsubscribe(sub)
	defer func() { _ = conn.Close() }()

	for _, snapshot := range snapshots {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snapshot); err != nil {
			return
		}
	}

	// Reader goroutine: the client sends nothing meaningful, but reads are
	// needed to observe close frames and connection loss.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// resolveSubscription builds the hub filter and initial snapshot set from the
// query: a specific booking_id (ownership enforced) or "mine" for everything
// the caller owns.
func (h *TrackingHandler) resolveSubscription(c *gin.Context, claims *auth.Claims) (notify.Filter, []notify.Event, error) {
	ctx := c.Request.Context()

	if raw := c.Query("booking_id"); raw != "" && raw != "mine" {
		bookingID, err := uuid.Parse(raw)
		if err != nil {
			return notify.Filter{}, nil, errs.NewValidation("invalid booking_id")
		}
		bk, err := h.service.GetBooking(ctx, bookingID, claims.UserID, claims.Role)
		if err != nil {
			return notify.Filter{}, nil, err
		}
		return notify.Filter{BookingID: bookingID}, []notify.Event{snapshotEvent(bk)}, nil
	}

	bookings, _, err := h.service.ListBookings(ctx, claims.UserID, claims.Role, 1, 100)
	if err != nil {
		return notify.Filter{}, nil, err
	}
	snapshots := make([]notify.Event, 0, len(bookings))
	for _, bk := range bookings {
		if bk.Status().IsTerminal() {
			continue
		}
		snapshots = append(snapshots, snapshotEvent(bk))
	}
	return notify.Filter{OwnerID: claims.UserID}, snapshots, nil
}

func snapshotEvent(bk *bookingDomain.Booking) notify.Event {
	return notify.Event{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		OwnerID:       bk.OwnerID(),
		Status:        string(bk.Status()),
		Progress:      bk.ProgressPercent(),
		OccurredAt:    bk.UpdatedAt(),
	}
}
