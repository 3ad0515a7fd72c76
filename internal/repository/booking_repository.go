package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber   string          `gorm:"uniqueIndex;not null;size:24"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProviderID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status          string          `gorm:"not null;size:20;index"`
	Origin          string          `gorm:"not null;size:255"`
	Destination     string          `gorm:"not null;size:255"`
	RouteSpec       json.RawMessage `gorm:"type:jsonb;not null"`
	PackageSpec     json.RawMessage `gorm:"type:jsonb;not null"`
	TruckTypeID     uuid.UUID       `gorm:"type:uuid;not null"`
	TruckTypeCode   string          `gorm:"not null;size:20"`
	DistanceKm      float64         `gorm:"not null"`
	EstimatedHours  float64         `gorm:"not null"`
	BasePricePaise  int64           `gorm:"not null"`
	TotalPricePaise int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'INR'"`
	PickupDate      time.Time       `gorm:"not null"`
	TrackingUpdates json.RawMessage `gorm:"type:jsonb"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByOwnerID retrieves bookings for a specific owner with pagination.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "owner_id = ?", ownerID, page, limit)
}

// FindByProviderID retrieves bookings assigned to a specific provider with pagination.
func (r *GormBookingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "provider_id = ?", providerID, page, limit)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models, total)
}

func (r *GormBookingRepository) findPage(ctx context.Context, cond string, arg any, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking. The version predicate makes
// the write an atomic compare-and-swap: of two transactions racing to
// transition the same booking, exactly one matches the expected version and
// the loser gets ErrConcurrentModification with no partial write.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// IncrementVersion was called before Update, so the stored row must still
	// carry version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"provider_id":      model.ProviderID,
			"status":           model.Status,
			"tracking_updates": model.TrackingUpdates,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrConcurrentModification
	}
	return nil
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	routeJSON, err := json.Marshal(bk.RouteSpec())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route spec: %w", err)
	}
	packageJSON, err := json.Marshal(bk.PackageSpec())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal package spec: %w", err)
	}
	trackingJSON, err := json.Marshal(bk.TrackingUpdates())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tracking updates: %w", err)
	}

	return &BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		OwnerID:         bk.OwnerID(),
		ProviderID:      bk.ProviderID(),
		Status:          string(bk.Status()),
		Origin:          bk.Origin(),
		Destination:     bk.Destination(),
		RouteSpec:       routeJSON,
		PackageSpec:     packageJSON,
		TruckTypeID:     bk.TruckTypeID(),
		TruckTypeCode:   bk.TruckTypeCode(),
		DistanceKm:      bk.DistanceKm(),
		EstimatedHours:  bk.EstimatedHours(),
		BasePricePaise:  bk.BasePricePaise(),
		TotalPricePaise: bk.TotalPricePaise(),
		Currency:        bk.Currency(),
		PickupDate:      bk.PickupDate(),
		TrackingUpdates: trackingJSON,
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var routeSpec bookingDomain.RouteSpec
	if err := json.Unmarshal(m.RouteSpec, &routeSpec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route spec: %w", err)
	}

	var packageSpec bookingDomain.PackageSpec
	if err := json.Unmarshal(m.PackageSpec, &packageSpec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal package spec: %w", err)
	}

	var trackingUpdates []bookingDomain.TrackingUpdate
	if len(m.TrackingUpdates) > 0 {
		if err := json.Unmarshal(m.TrackingUpdates, &trackingUpdates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tracking updates: %w", err)
		}
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.OwnerID,
		m.ProviderID,
		status,
		m.Origin,
		m.Destination,
		routeSpec,
		packageSpec,
		m.TruckTypeID,
		m.TruckTypeCode,
		m.DistanceKm,
		m.EstimatedHours,
		m.BasePricePaise,
		m.TotalPricePaise,
		m.Currency,
		m.PickupDate,
		trackingUpdates,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
