package product

import (
	"bytes"
	"encoding/csv"
	"log"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"stoka/database"
)

// ExportProductsHandler streams the whole product table as a CSV
// attachment, ordered by product_id, in_stock as 1/0. The format round-trips
// through the import reconciler unchanged.
func ExportProductsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.GetAllProductsByID(db)
		if err != nil {
			log.Printf("ERROR: export products: %v", err)
			http.Error(w, "Error exporting products.", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		writer.Write([]string{"product_id", "product_name", "shelf_number", "in_stock"})
		for _, p := range products {
			inStock := "0"
			if p.InStock {
				inStock = "1"
			}
			writer.Write([]string{
				strconv.Itoa(p.ProductID),
				p.ProductName,
				strconv.Itoa(p.ShelfNumber),
				inStock,
			})
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			log.Printf("ERROR: write products CSV: %v", err)
			http.Error(w, "Error exporting products.", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Exported %d products to CSV.", len(products))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="products_export.csv"`)
		w.Write(buf.Bytes())
	}
}
