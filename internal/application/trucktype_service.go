package application

import (
	"context"

	"go.uber.org/zap"

	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
)

// TruckTypeService exposes the truck type catalog: a public listing for the
// booking form and admin edits. Price edits never touch existing bookings,
// which carry their own price snapshot.
type TruckTypeService struct {
	truckTypes bookingDomain.TruckTypeRepository
	logger     *zap.Logger
}

// NewTruckTypeService creates a TruckTypeService.
func NewTruckTypeService(truckTypes bookingDomain.TruckTypeRepository, logger *zap.Logger) *TruckTypeService {
	return &TruckTypeService{truckTypes: truckTypes, logger: logger}
}

// ListActive returns all active truck types.
func (s *TruckTypeService) ListActive(ctx context.Context) ([]bookingDomain.TruckType, error) {
	return s.truckTypes.ListActive(ctx)
}

// UpdatePrice sets a new per-km rate for a truck type.
func (s *TruckTypeService) UpdatePrice(ctx context.Context, code string, pricePerKmPaise int64) error {
	if err := s.truckTypes.UpdatePrice(ctx, code, pricePerKmPaise); err != nil {
		return err
	}
	s.logger.Info("truck type price updated",
		zap.String("code", code),
		zap.Int64("price_per_km_paise", pricePerKmPaise),
	)
	return nil
}

// Deactivate retires a truck type from the catalog. Historical bookings keep
// their reference.
func (s *TruckTypeService) Deactivate(ctx context.Context, code string) error {
	if err := s.truckTypes.Deactivate(ctx, code); err != nil {
		return err
	}
	s.logger.Info("truck type deactivated", zap.String("code", code))
	return nil
}
