package product

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"stoka/database"
	"stoka/importer"
	"stoka/parsers"
)

// ImportProductsHandler takes a multipart CSV upload plus defaults and
// runs it through the reconciler. Accepted rows commit in one transaction;
// rejected rows come back with line numbers and reasons.
func ImportProductsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Please upload a valid CSV file.")
			return
		}
		defer file.Close()
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			jsonError(w, http.StatusBadRequest, "Please upload a valid CSV file.")
			return
		}

		defaultShelf := 1
		if raw := r.FormValue("default_shelf_number"); raw != "" {
			n, ok := parseShelfNumber(raw)
			if !ok {
				jsonError(w, http.StatusBadRequest, "Default shelf number must be between 1 and 10.")
				return
			}
			defaultShelf = n
		}
		defaultInStock := r.FormValue("default_in_stock") != ""

		parsed, err := parsers.ParseProductsCSV(file)
		if err != nil {
			var missing *parsers.MissingColumnError
			if errors.As(err, &missing) {
				jsonError(w, http.StatusBadRequest, fmt.Sprintf("Missing column for %s.", missing.Field))
				return
			}
			jsonError(w, http.StatusBadRequest, "Error reading CSV: "+err.Error())
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("ERROR: begin transaction for import: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error importing CSV.")
			return
		}
		defer tx.Rollback()

		existingIDs, err := database.GetExistingProductIDs(tx)
		if err != nil {
			log.Printf("ERROR: load existing ids for import: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error importing CSV.")
			return
		}
		maxID, err := database.MaxProductID(tx)
		if err != nil {
			log.Printf("ERROR: load max product id for import: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error importing CSV.")
			return
		}

		batch := importer.BuildBatch(parsed, importer.Defaults{
			ShelfNumber: defaultShelf,
			InStock:     defaultInStock,
		}, existingIDs, maxID+1)

		for _, rej := range batch.Rejected {
			log.Printf("WARN: import row %d skipped: %s", rej.Line, rej.Reason)
		}

		imported, err := importer.CommitBatch(tx, batch)
		if err != nil {
			log.Printf("ERROR: commit import batch: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error importing CSV.")
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ERROR: commit import transaction: %v", err)
			jsonError(w, http.StatusInternalServerError, "Error importing CSV.")
			return
		}

		skipped := len(batch.Rejected)
		log.Printf("INFO: Imported %d products, skipped %d rows (%s).", imported, skipped, header.Filename)
		rejected := batch.Rejected
		if rejected == nil {
			rejected = []importer.RowError{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "success",
			"imported": imported,
			"skipped":  skipped,
			"rejected": rejected,
			"message":  fmt.Sprintf("Imported %d products. %d rows skipped.", imported, skipped),
		})
	}
}
