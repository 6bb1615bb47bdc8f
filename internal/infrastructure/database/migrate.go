package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running GORM auto-migrations...")
	if err := db.AutoMigrate(
		&model.Booking{},
		&model.VerifiedPayment{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM doesn't derive from struct tags
func createCustomIndexes(db *gorm.DB) error {
	// Owner dashboards list an establishment's open bookings newest first.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_bookings_establishment_open ON bookings (establishment_id, created_at DESC) WHERE status IN ('PENDING', 'CONFIRMED')`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings (user_id, created_at DESC)`).Error; err != nil {
		return err
	}
	return nil
}
