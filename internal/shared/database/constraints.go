package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	// The expiry sweep scans unpaid bookings by deadline
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_unpaid_expiry
		ON bookings (expires_at) WHERE is_paid = false;
	`).Error
	if err != nil {
		return err
	}

	// The reminder sweep selects shows inside a start-time window
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shows_movie_datetime
		ON shows (movie_id, show_date_time);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
