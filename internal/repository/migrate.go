package repository

import (
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every table the repositories
// manage. The row models are package-private, so migration lives here too.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&serviceModel{},
		&availabilityModel{},
		&appointmentModel{},
		&couponModel{},
		&paymentModel{},
	); err != nil {
		return err
	}
	return ensureOverlapConstraint(db)
}

// ensureOverlapConstraint installs the authoritative double-booking guard.
// Only Postgres supports exclusion constraints; on SQLite the pre-check in
// the scheduling service is the only guard, which is acceptable for local
// development.
func ensureOverlapConstraint(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var count int64
	err := db.Raw(
		`SELECT count(*) FROM pg_constraint WHERE conname = 'idx_no_overlapping_appointments'`,
	).Scan(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Exec(`
		ALTER TABLE appointments
		ADD CONSTRAINT idx_no_overlapping_appointments
		EXCLUDE USING gist (tstzrange(start_time, end_time) WITH &&)
		WHERE (status IN ('pending', 'confirmed'))
	`).Error
}
