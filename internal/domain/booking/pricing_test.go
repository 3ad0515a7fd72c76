package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

func TestPerKmPricingStrategy_Calculate(t *testing.T) {
	strategy := booking.NewPerKmPricingStrategy()

	t.Run("hcv over 1420 km prices to 35500 rupees", func(t *testing.T) {
		quote, err := strategy.Calculate(1420, testTruckType(), 5000)
		require.NoError(t, err)
		assert.Equal(t, int64(3550000), quote.BasePricePaise)
		assert.Equal(t, int64(3550000), quote.TotalPricePaise)
	})

	t.Run("zero distance prices to zero", func(t *testing.T) {
		quote, err := strategy.Calculate(0, testTruckType(), 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), quote.TotalPricePaise)
	})

	t.Run("fractional distance rounds to nearest paisa", func(t *testing.T) {
		tt := testTruckType() // 2500 paise/km
		quote, err := strategy.Calculate(10.3333, tt, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(25833), quote.TotalPricePaise)
	})

	t.Run("negative distance is rejected", func(t *testing.T) {
		_, err := strategy.Calculate(-1, testTruckType(), 0)
		require.Error(t, err)
		assert.Equal(t, errs.CodeInvalidInput, errs.CodeOf(err))
	})

	t.Run("negative weight is rejected", func(t *testing.T) {
		_, err := strategy.Calculate(10, testTruckType(), -5)
		require.Error(t, err)
		assert.Equal(t, errs.CodeInvalidInput, errs.CodeOf(err))
	})

	t.Run("non-positive rate is rejected", func(t *testing.T) {
		tt := testTruckType()
		tt.PricePerKmPaise = 0
		_, err := strategy.Calculate(10, tt, 0)
		require.Error(t, err)
		assert.Equal(t, errs.CodeInvalidInput, errs.CodeOf(err))
	})

	t.Run("price grows monotonically with distance", func(t *testing.T) {
		tt := testTruckType()
		var prev int64 = -1
		for _, km := range []float64{0, 1, 10, 100, 1000, 2500} {
			quote, err := strategy.Calculate(km, tt, 0)
			require.NoError(t, err)
			assert.Greater(t, quote.TotalPricePaise, prev)
			prev = quote.TotalPricePaise
		}
	})
}
