package loader

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"stoka/database"
)

// InitDatabase applies the schema and seeds the fixed shelf set. Safe to
// run on every startup.
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if _, err := db.Exec(database.Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("Schema applied successfully.")

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for shelf seeding: %w", err)
	}
	defer tx.Rollback()

	if err := database.SeedShelves(tx); err != nil {
		return fmt.Errorf("failed to seed shelves: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shelf seeding: %w", err)
	}
	log.Println("Shelves seeded.")

	return nil
}
