package database

import (
	"fmt"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the schema. It runs against Postgres in production and SQLite in tests,
// so the raw index statements stick to syntax both accept.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Pricing{},
		&models.Booking{},
		&models.GuestRegister{},
		&models.ComplianceExport{},
		&models.User{},
		&models.RevokedToken{},
	); err != nil {
		return err
	}

	// At most one active rate per property, room type and tier.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_pricing_active
		ON pricings (property_id, room_type, tier)
		WHERE is_active
	`).Error; err != nil {
		return fmt.Errorf("create idx_pricing_active: %w", err)
	}

	return nil
}
