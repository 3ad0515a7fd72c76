package booking

import (
	"time"

	"github.com/google/uuid"
)

// TruckType is a catalog entry defining capacity and per-kilometer rate for a
// class of vehicle. Entries are never deleted, only deactivated, so historical
// bookings keep a valid reference.
type TruckType struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	CapacityKg      float64   `json:"capacity_kg"`
	PricePerKmPaise int64     `json:"price_per_km_paise"`
	Icon            string    `json:"icon,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
