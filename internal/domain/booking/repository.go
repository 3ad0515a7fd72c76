package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByOwnerID retrieves bookings belonging to a specific owner with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByProviderID retrieves bookings assigned to a specific provider with pagination.
	FindByProviderID(ctx context.Context, providerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking. The write succeeds only
	// if no other transaction has modified the row since it was read
	// (optimistic compare-and-swap on the version column); otherwise it fails
	// with ErrConcurrentModification.
	Update(ctx context.Context, booking *Booking) error
}

// TruckTypeRepository defines the persistence contract for the truck type catalog.
type TruckTypeRepository interface {
	// FindActiveByCode retrieves an active truck type by its stable code.
	FindActiveByCode(ctx context.Context, code string) (*TruckType, error)

	// ListActive retrieves all active truck types.
	ListActive(ctx context.Context) ([]TruckType, error)

	// UpdatePrice sets a new per-km rate. Takes effect only for bookings
	// created after the write; existing bookings keep their snapshot.
	UpdatePrice(ctx context.Context, code string, pricePerKmPaise int64) error

	// Deactivate soft-deletes a truck type, preserving historical references.
	Deactivate(ctx context.Context, code string) error
}
