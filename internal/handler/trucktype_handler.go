package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loadlane/service-logistics/internal/application"
	"github.com/loadlane/service-logistics/internal/pkg/auth"
	"github.com/loadlane/service-logistics/internal/pkg/middleware"
	"github.com/loadlane/service-logistics/internal/pkg/response"
)

// UpdateTruckTypeRequest is the payload for an admin truck type edit.
type UpdateTruckTypeRequest struct {
	PricePerKmPaise int64 `json:"price_per_km_paise" binding:"required,gt=0"`
}

// TruckTypeHandler serves the truck type catalog endpoints.
type TruckTypeHandler struct {
	service *application.TruckTypeService
	logger  *zap.Logger
}

// NewTruckTypeHandler creates a TruckTypeHandler.
func NewTruckTypeHandler(service *application.TruckTypeService, logger *zap.Logger) *TruckTypeHandler {
	return &TruckTypeHandler{service: service, logger: logger}
}

// RegisterPublicRoutes mounts the public catalog listing.
func (h *TruckTypeHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/truck-types", h.List)
}

// RegisterAdminRoutes mounts the admin catalog edits on an authenticated group.
func (h *TruckTypeHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/truck-types", middleware.RequireRole(auth.RoleAdmin))
	{
		admin.PATCH("/:code", h.UpdatePrice)
		admin.DELETE("/:code", h.Deactivate)
	}
}

// List handles GET /api/v1/truck-types.
func (h *TruckTypeHandler) List(c *gin.Context) {
	types, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, types)
}

// UpdatePrice handles PATCH /api/v1/truck-types/:code.
func (h *TruckTypeHandler) UpdatePrice(c *gin.Context) {
	var req UpdateTruckTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	code := c.Param("code")
	if err := h.service.UpdatePrice(c.Request.Context(), code, req.PricePerKmPaise); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"code": code, "price_per_km_paise": req.PricePerKmPaise})
}

// Deactivate handles DELETE /api/v1/truck-types/:code.
func (h *TruckTypeHandler) Deactivate(c *gin.Context) {
	code := c.Param("code")
	if err := h.service.Deactivate(c.Request.Context(), code); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"code": code, "is_active": false})
}
