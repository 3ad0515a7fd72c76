package booking

import (
	"math"

	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

// CurrencyINR is the only currency the platform prices in.
const CurrencyINR = "INR"

// Quote holds the computed price components in paise.
type Quote struct {
	BasePricePaise  int64
	TotalPricePaise int64
}

// PricingStrategy defines the interface for calculating booking prices. The
// truck type is an injected read-only snapshot, so pricing stays a pure
// function of its inputs.
type PricingStrategy interface {
	Calculate(distanceKm float64, truckType TruckType, packageWeightKg float64) (Quote, error)
}

// PerKmPricingStrategy prices a trip from the truck type's per-kilometer rate.
type PerKmPricingStrategy struct{}

// NewPerKmPricingStrategy creates the default pricing strategy.
func NewPerKmPricingStrategy() *PerKmPricingStrategy {
	return &PerKmPricingStrategy{}
}

// Calculate computes the price in paise: price_per_km * distance_km.
//
// A zero distance is valid (same-point bookings price to zero); a negative
// distance is a contract violation and surfaces as INVALID_INPUT rather than
// being clamped, so bugs in route resolution are not masked.
func (s *PerKmPricingStrategy) Calculate(distanceKm float64, truckType TruckType, packageWeightKg float64) (Quote, error) {
	if distanceKm < 0 {
		return Quote{}, errs.Newf(errs.CodeInvalidInput, "distance cannot be negative: %f", distanceKm)
	}
	if packageWeightKg < 0 {
		return Quote{}, errs.Newf(errs.CodeInvalidInput, "package weight cannot be negative: %f", packageWeightKg)
	}
	if truckType.PricePerKmPaise <= 0 {
		return Quote{}, errs.Newf(errs.CodeInvalidInput, "truck type %s has no positive per-km rate", truckType.Code)
	}

	base := int64(math.Round(distanceKm * float64(truckType.PricePerKmPaise)))
	return Quote{BasePricePaise: base, TotalPricePaise: base}, nil
}
