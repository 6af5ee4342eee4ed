package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"stoka/model"
)

// SeedShelves creates the fixed shelf set. Existing rows keep their
// checked state.
func SeedShelves(dbtx DBTX) error {
	for shelf := model.MinShelfNumber; shelf <= model.MaxShelfNumber; shelf++ {
		if _, err := dbtx.Exec(`INSERT OR IGNORE INTO shelves (shelf_number, checked) VALUES (?, 0)`, shelf); err != nil {
			return fmt.Errorf("failed to seed shelf %d: %w", shelf, err)
		}
	}
	return nil
}

func GetAllShelves(dbtx DBTX) ([]model.Shelf, error) {
	shelves := []model.Shelf{}
	err := dbtx.Select(&shelves, `SELECT shelf_number, checked FROM shelves ORDER BY shelf_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to select shelves: %w", err)
	}
	return shelves, nil
}

func SetShelfChecked(dbtx DBTX, shelfNumber int, checked bool) error {
	_, err := dbtx.Exec(`UPDATE shelves SET checked = ? WHERE shelf_number = ?`, checked, shelfNumber)
	if err != nil {
		return fmt.Errorf("failed to update shelf %d: %w", shelfNumber, err)
	}
	return nil
}

// OverwriteShelfStock replaces the stock state of every product on one
// shelf: present ids become in-stock, everything else on the shelf becomes
// out-of-stock. Products on other shelves are untouched.
func OverwriteShelfStock(dbtx DBTX, shelfNumber int, presentIDs []int) error {
	if _, err := dbtx.Exec(`UPDATE products SET in_stock = 0 WHERE shelf_number = ?`, shelfNumber); err != nil {
		return fmt.Errorf("failed to clear stock on shelf %d: %w", shelfNumber, err)
	}
	if len(presentIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE products SET in_stock = 1 WHERE shelf_number = ? AND product_id IN (?)`,
		shelfNumber, presentIDs)
	if err != nil {
		return fmt.Errorf("failed to build IN query for shelf %d: %w", shelfNumber, err)
	}
	query = dbtx.Rebind(query)
	if _, err := dbtx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to set stock on shelf %d: %w", shelfNumber, err)
	}
	return nil
}

// ResetWalkthrough starts a fresh inventory session: every product back in
// stock, every shelf unchecked.
func ResetWalkthrough(dbtx DBTX) error {
	if _, err := dbtx.Exec(`UPDATE products SET in_stock = 1`); err != nil {
		return fmt.Errorf("failed to reset product stock: %w", err)
	}
	if _, err := dbtx.Exec(`UPDATE shelves SET checked = 0`); err != nil {
		return fmt.Errorf("failed to reset shelf checks: %w", err)
	}
	return nil
}
