package model

// Shelves are a fixed physical set; products must always point at one of them.
const (
	MinShelfNumber = 1
	MaxShelfNumber = 10
)

type Product struct {
	ProductID   int    `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`
	ShelfNumber int    `db:"shelf_number" json:"shelfNumber"`
	InStock     bool   `db:"in_stock" json:"inStock"`
}

type Shelf struct {
	ShelfNumber int  `db:"shelf_number" json:"shelfNumber"`
	Checked     bool `db:"checked" json:"checked"`
}

// ReorderItem is one row of the derived reorder list: an out-of-stock
// product on a checked shelf.
type ReorderItem struct {
	ProductID   int    `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`
	ShelfNumber int    `db:"shelf_number" json:"shelfNumber"`
}

// ReorderSnapshot is an immutable saved copy of a reorder list.
// ProductNames keeps the (shelf_number, product_name) order the list
// was derived with.
type ReorderSnapshot struct {
	ID           int      `db:"id" json:"id"`
	CreatedAt    string   `db:"created_at" json:"createdAt"`
	ProductNames []string `db:"-" json:"productNames"`
}
