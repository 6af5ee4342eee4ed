package shelf

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"stoka/database"
	"stoka/model"
)

// ListShelvesHandler returns the fixed shelf set with checked flags, plus
// every product, so the walkthrough view can render itself.
func ListShelvesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelves, err := database.GetAllShelves(db)
		if err != nil {
			log.Printf("ERROR: list shelves: %v", err)
			http.Error(w, "Failed to load shelves.", http.StatusInternalServerError)
			return
		}
		products, err := database.GetAllProducts(db)
		if err != nil {
			log.Printf("ERROR: list products for shelves: %v", err)
			http.Error(w, "Failed to load shelves.", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"shelves":  shelves,
			"products": products,
		})
	}
}

// UpdateShelfHandler records one shelf of a walkthrough submission: the
// shelf's checked flag, and a full overwrite of stock state for every
// product on that shelf. Products whose checkbox (form key "product_<id>")
// is absent become out-of-stock.
func UpdateShelfHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		shelfStr := strings.TrimPrefix(r.URL.Path, "/api/shelves/update/")
		shelfNumber, err := strconv.Atoi(shelfStr)
		if err != nil || shelfNumber < model.MinShelfNumber || shelfNumber > model.MaxShelfNumber {
			http.Error(w, "Invalid shelf number.", http.StatusBadRequest)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			return
		}
		checked := r.PostForm.Get("shelf_checked") != ""

		var presentIDs []int
		for key := range r.PostForm {
			if !strings.HasPrefix(key, "product_") {
				continue
			}
			id, err := strconv.Atoi(strings.TrimPrefix(key, "product_"))
			if err != nil {
				continue
			}
			presentIDs = append(presentIDs, id)
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("ERROR: begin transaction for shelf update: %v", err)
			http.Error(w, "Error updating shelf.", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if err := database.SetShelfChecked(tx, shelfNumber, checked); err != nil {
			log.Printf("ERROR: set shelf %d checked: %v", shelfNumber, err)
			http.Error(w, "Error updating shelf.", http.StatusInternalServerError)
			return
		}
		if err := database.OverwriteShelfStock(tx, shelfNumber, presentIDs); err != nil {
			log.Printf("ERROR: overwrite stock on shelf %d: %v", shelfNumber, err)
			http.Error(w, "Error updating shelf.", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ERROR: commit shelf %d update: %v", shelfNumber, err)
			http.Error(w, "Error updating shelf.", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated shelf %d, checked=%v, present=%d products.", shelfNumber, checked, len(presentIDs))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
		})
	}
}
