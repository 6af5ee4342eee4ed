package database

import (
	"fmt"

	"stoka/model"
)

// GetReorderList derives the reorder list: out-of-stock products whose
// shelf has been checked in the current walkthrough. Unchecked shelves
// contribute nothing regardless of stock state.
func GetReorderList(dbtx DBTX) ([]model.ReorderItem, error) {
	items := []model.ReorderItem{}
	err := dbtx.Select(&items, `
		SELECT p.product_id, p.product_name, p.shelf_number
		FROM products p JOIN shelves s ON p.shelf_number = s.shelf_number
		WHERE p.in_stock = 0 AND s.checked = 1
		ORDER BY p.shelf_number, p.product_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to derive reorder list: %w", err)
	}
	return items, nil
}
