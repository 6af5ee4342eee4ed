package product

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"stoka/database"
	"stoka/model"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: encoding JSON response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

func parseShelfNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < model.MinShelfNumber || n > model.MaxShelfNumber {
		return 0, false
	}
	return n, true
}

// AddProductHandler creates a product from a manual form submission; the
// store assigns the id.
func AddProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimSpace(r.FormValue("product_name"))
		if name == "" {
			jsonError(w, http.StatusBadRequest, "Product name is required.")
			return
		}
		shelfNumber, ok := parseShelfNumber(r.FormValue("shelf_number"))
		if !ok {
			jsonError(w, http.StatusBadRequest, "Shelf number must be between 1 and 10.")
			return
		}
		inStock := r.FormValue("in_stock") != ""

		if err := database.AddProduct(db, name, shelfNumber, inStock); err != nil {
			log.Printf("ERROR: add product: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error adding product to database.")
			return
		}

		log.Printf("INFO: Added product %s, shelf %d, in_stock=%v.", name, shelfNumber, inStock)
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success"})
	}
}

// EditProductHandler rewrites a product, optionally moving it to a new id.
// Choosing an id already owned by a different product fails without any
// change.
func EditProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/products/edit/"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid product id.")
			return
		}
		newID, err := strconv.Atoi(r.FormValue("product_id"))
		if err != nil || newID < 1 {
			jsonError(w, http.StatusBadRequest, "Invalid product id.")
			return
		}
		name := strings.TrimSpace(r.FormValue("product_name"))
		if name == "" {
			jsonError(w, http.StatusBadRequest, "Product name is required.")
			return
		}
		shelfNumber, ok := parseShelfNumber(r.FormValue("shelf_number"))
		if !ok {
			jsonError(w, http.StatusBadRequest, "Shelf number must be between 1 and 10.")
			return
		}
		inStock := r.FormValue("in_stock") != ""

		taken, err := database.ProductIDTakenByOther(db, newID, id)
		if err != nil {
			log.Printf("ERROR: duplicate id check for product %d: %v", id, err)
			jsonError(w, http.StatusInternalServerError, "Error editing product.")
			return
		}
		if taken {
			log.Printf("WARN: attempted to set duplicate product_id %d.", newID)
			jsonError(w, http.StatusBadRequest, "Product ID already exists.")
			return
		}

		found, err := database.UpdateProduct(db, id, model.Product{
			ProductID:   newID,
			ProductName: name,
			ShelfNumber: shelfNumber,
			InStock:     inStock,
		})
		if err != nil {
			log.Printf("ERROR: edit product %d: %v", id, err)
			jsonError(w, http.StatusInternalServerError, "Error editing product.")
			return
		}
		if !found {
			jsonError(w, http.StatusNotFound, "Product not found.")
			return
		}

		log.Printf("INFO: Edited product %d -> %d: %s, shelf %d.", id, newID, name, shelfNumber)
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success"})
	}
}

// DeleteProductHandler removes a product; deleting an unknown id is an
// explicit not-found, never a silent success.
func DeleteProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/products/delete/"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid product id.")
			return
		}

		found, err := database.DeleteProduct(db, id)
		if err != nil {
			log.Printf("ERROR: delete product %d: %v", id, err)
			jsonError(w, http.StatusInternalServerError, "Error deleting product.")
			return
		}
		if !found {
			jsonError(w, http.StatusNotFound, "Product not found.")
			return
		}

		log.Printf("INFO: Deleted product %d.", id)
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success"})
	}
}

// FilterProductsHandler lists products for one shelf, or all of them.
func FilterProductsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("shelf_filter")
		if filter == "" {
			filter = "all"
		}

		var products []model.Product
		var err error
		if filter == "all" {
			products, err = database.GetAllProducts(db)
		} else {
			shelfNumber, ok := parseShelfNumber(filter)
			if !ok {
				jsonError(w, http.StatusBadRequest, "Invalid shelf filter.")
				return
			}
			products, err = database.GetProductsByShelf(db, shelfNumber)
		}
		if err != nil {
			log.Printf("ERROR: filter products (%s): %v", filter, err)
			jsonError(w, http.StatusInternalServerError, "Error loading products.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "success",
			"products": products,
		})
	}
}

// GetProductHandler returns one product by id.
func GetProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/products/by_id/"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid product id.")
			return
		}
		p, err := database.GetProductByID(db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				jsonError(w, http.StatusNotFound, "Product not found.")
				return
			}
			log.Printf("ERROR: get product %d: %v", id, err)
			jsonError(w, http.StatusInternalServerError, "Error loading product.")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
