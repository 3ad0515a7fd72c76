package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

// TruckTypeModel is the GORM model for the truck_types catalog table.
type TruckTypeModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code            string    `gorm:"uniqueIndex;not null;size:20"`
	Name            string    `gorm:"not null;size:100"`
	CapacityKg      float64   `gorm:"not null"`
	PricePerKmPaise int64     `gorm:"not null"`
	Icon            string    `gorm:"size:10"`
	Description     string    `gorm:"size:255"`
	IsActive        bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TruckTypeModel) TableName() string {
	return "truck_types"
}

// GormTruckTypeRepository is the GORM-based implementation of TruckTypeRepository.
type GormTruckTypeRepository struct {
	db *gorm.DB
}

// NewGormTruckTypeRepository creates a new GormTruckTypeRepository.
func NewGormTruckTypeRepository(db *gorm.DB) *GormTruckTypeRepository {
	return &GormTruckTypeRepository{db: db}
}

// FindActiveByCode retrieves an active truck type by its stable code.
func (r *GormTruckTypeRepository) FindActiveByCode(ctx context.Context, code string) (*bookingDomain.TruckType, error) {
	var model TruckTypeModel
	if err := r.db.WithContext(ctx).Where("code = ? AND is_active = true", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", errs.ErrUnknownTruckType, code)
		}
		return nil, fmt.Errorf("failed to find truck type: %w", err)
	}
	tt := toDomainTruckType(&model)
	return &tt, nil
}

// ListActive retrieves all active truck types ordered by rate.
func (r *GormTruckTypeRepository) ListActive(ctx context.Context) ([]bookingDomain.TruckType, error) {
	var models []TruckTypeModel
	if err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("price_per_km_paise ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list truck types: %w", err)
	}

	types := make([]bookingDomain.TruckType, len(models))
	for i, m := range models {
		types[i] = toDomainTruckType(&m)
	}
	return types, nil
}

// UpdatePrice sets a new per-km rate for an active truck type. Existing
// bookings keep their price snapshot; only future quotes see the new rate.
func (r *GormTruckTypeRepository) UpdatePrice(ctx context.Context, code string, pricePerKmPaise int64) error {
	if pricePerKmPaise <= 0 {
		return errs.NewValidation("price per km must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&TruckTypeModel{}).
		Where("code = ? AND is_active = true", code).
		Update("price_per_km_paise", pricePerKmPaise)
	if result.Error != nil {
		return fmt.Errorf("failed to update truck type price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", errs.ErrUnknownTruckType, code)
	}
	return nil
}

// Deactivate soft-deletes a truck type, preserving historical references.
func (r *GormTruckTypeRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&TruckTypeModel{}).
		Where("code = ? AND is_active = true", code).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate truck type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", errs.ErrUnknownTruckType, code)
	}
	return nil
}

func toDomainTruckType(m *TruckTypeModel) bookingDomain.TruckType {
	return bookingDomain.TruckType{
		ID:              m.ID,
		Code:            m.Code,
		Name:            m.Name,
		CapacityKg:      m.CapacityKg,
		PricePerKmPaise: m.PricePerKmPaise,
		Icon:            m.Icon,
		Description:     m.Description,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
	}
}
