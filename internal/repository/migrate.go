package repository

import (
	"venuebook/internal/domain"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date. On PostgreSQL it also installs the
// no-overbooking constraint so two concurrent inserts for the same space can
// never both commit; SQLite has no exclusion constraints, so there every
// insert path (CreateChecked, BulkInsert, series creation) re-checks overlap
// inside its transaction and SQLite's single-writer locking serializes them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.UserTag{},
		&domain.Organization{},
		&domain.Venue{},
		&domain.Space{},
		&domain.AvailabilityRule{},
		&reservationModel{},
		&recurringModel{},
		&paymentRuleModel{},
		&priceConditionModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return err
		}
		return db.Exec(`
			DO $$ BEGIN
				ALTER TABLE reservations ADD CONSTRAINT idx_no_overbooking
					EXCLUDE USING gist (
						space_id WITH =,
						tsrange(start_time, end_time) WITH &&
					) WHERE (status <> 'cancelled');
			EXCEPTION WHEN duplicate_table OR duplicate_object THEN NULL;
			END $$`).Error
	}
	return nil
}
