package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedTruckTypes inserts the default truck type catalog when the table is
// empty. Development only; production seeds through migrations.
func SeedTruckTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&TruckTypeModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count truck types: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	defaults := []TruckTypeModel{
		{ID: uuid.New(), Code: "mini", Name: "Mini Truck", CapacityKg: 500, PricePerKmPaise: 800, Icon: "🚐", Description: "Small loads and intra-city moves", IsActive: true, CreatedAt: now},
		{ID: uuid.New(), Code: "lcv", Name: "Light Commercial Vehicle", CapacityKg: 2000, PricePerKmPaise: 1200, Icon: "🚚", Description: "Medium loads up to 2 tonnes", IsActive: true, CreatedAt: now},
		{ID: uuid.New(), Code: "hcv", Name: "Heavy Commercial Vehicle", CapacityKg: 10000, PricePerKmPaise: 2500, Icon: "🚛", Description: "Heavy freight up to 10 tonnes", IsActive: true, CreatedAt: now},
		{ID: uuid.New(), Code: "container", Name: "Container Truck", CapacityKg: 20000, PricePerKmPaise: 4000, Icon: "📦", Description: "Sealed container loads up to 20 tonnes", IsActive: true, CreatedAt: now},
		{ID: uuid.New(), Code: "reefer", Name: "Refrigerated Truck", CapacityKg: 8000, PricePerKmPaise: 3500, Icon: "❄️", Description: "Temperature-controlled freight", IsActive: true, CreatedAt: now},
	}
	if err := db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed truck types: %w", err)
	}
	return nil
}
