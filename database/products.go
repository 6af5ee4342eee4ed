package database

import (
	"database/sql"
	"fmt"

	"stoka/model"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx so query helpers can run
// inside or outside a transaction.
type DBTX interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}

const productColumns = `product_id, product_name, shelf_number, in_stock`

// InsertProduct inserts a product with an explicit, caller-assigned id.
func InsertProduct(dbtx DBTX, p model.Product) error {
	_, err := dbtx.Exec(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?)`,
		p.ProductID, p.ProductName, p.ShelfNumber, p.InStock)
	if err != nil {
		return fmt.Errorf("failed to insert product %d (%s): %w", p.ProductID, p.ProductName, err)
	}
	return nil
}

// AddProduct inserts a product and lets the store assign the next id.
func AddProduct(dbtx DBTX, name string, shelfNumber int, inStock bool) error {
	_, err := dbtx.Exec(`INSERT INTO products (product_name, shelf_number, in_stock) VALUES (?, ?, ?)`,
		name, shelfNumber, inStock)
	if err != nil {
		return fmt.Errorf("failed to add product %s: %w", name, err)
	}
	return nil
}

// UpdateProduct rewrites the row currently identified by oldID. The new id
// may differ from oldID; duplicate checks are the caller's responsibility
// (see ProductIDTakenByOther).
func UpdateProduct(dbtx DBTX, oldID int, p model.Product) (bool, error) {
	res, err := dbtx.Exec(`UPDATE products SET product_id = ?, product_name = ?, shelf_number = ?, in_stock = ?
		WHERE product_id = ?`,
		p.ProductID, p.ProductName, p.ShelfNumber, p.InStock, oldID)
	if err != nil {
		return false, fmt.Errorf("failed to update product %d: %w", oldID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteProduct reports whether a row was actually removed.
func DeleteProduct(dbtx DBTX, id int) (bool, error) {
	res, err := dbtx.Exec(`DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ProductIDTakenByOther reports whether id is already used by a product
// other than excludeID.
func ProductIDTakenByOther(dbtx DBTX, id, excludeID int) (bool, error) {
	var found int
	err := dbtx.Get(&found, `SELECT product_id FROM products WHERE product_id = ? AND product_id != ?`,
		id, excludeID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check product id %d: %w", id, err)
	}
	return true, nil
}

func GetProductByID(dbtx DBTX, id int) (*model.Product, error) {
	var p model.Product
	err := dbtx.Get(&p, `SELECT `+productColumns+` FROM products WHERE product_id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllProducts returns every product ordered by (shelf_number, product_id).
func GetAllProducts(dbtx DBTX) ([]model.Product, error) {
	products := []model.Product{}
	err := dbtx.Select(&products, `SELECT `+productColumns+` FROM products ORDER BY shelf_number, product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	return products, nil
}

// GetProductsByShelf returns the products on one shelf ordered by product_id.
func GetProductsByShelf(dbtx DBTX, shelfNumber int) ([]model.Product, error) {
	products := []model.Product{}
	err := dbtx.Select(&products, `SELECT `+productColumns+` FROM products WHERE shelf_number = ? ORDER BY product_id`,
		shelfNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to select products for shelf %d: %w", shelfNumber, err)
	}
	return products, nil
}

// GetAllProductsByID returns every product ordered by product_id, the order
// used for the products CSV export.
func GetAllProductsByID(dbtx DBTX) ([]model.Product, error) {
	products := []model.Product{}
	err := dbtx.Select(&products, `SELECT `+productColumns+` FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	return products, nil
}

// MaxProductID returns 0 on an empty table.
func MaxProductID(dbtx DBTX) (int, error) {
	var max sql.NullInt64
	if err := dbtx.Get(&max, `SELECT MAX(product_id) FROM products`); err != nil {
		return 0, fmt.Errorf("failed to get max product id: %w", err)
	}
	return int(max.Int64), nil
}

// GetExistingProductIDs returns the set of ids already present, used by the
// import reconciler for duplicate detection.
func GetExistingProductIDs(dbtx DBTX) (map[int]bool, error) {
	var ids []int
	if err := dbtx.Select(&ids, `SELECT product_id FROM products`); err != nil {
		return nil, fmt.Errorf("failed to select product ids: %w", err)
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
