package reorder

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"

	"stoka/config"
	"stoka/database"
)

const timestampLayout = "2006-01-02 15:04:05"

// GetReorderListHandler returns the current derived reorder list. Pure
// read, no side effects.
func GetReorderListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := database.GetReorderList(db)
		if err != nil {
			log.Printf("ERROR: derive reorder list: %v", err)
			http.Error(w, "Error fetching reorder list.", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Reorder list fetched, count=%d.", len(items))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

// ExportReorderListHandler downloads the current reorder list in the
// requested format. Unless disabled (save=0, or disableExportSnapshot in
// config), the download also persists a historical snapshot — viewing the
// list never does.
func ExportReorderListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := normalizeFormat(r.URL.Query().Get("format"))

		save := !config.GetConfig().DisableExportSnapshot
		switch r.URL.Query().Get("save") {
		case "0", "false":
			save = false
		case "1", "true":
			save = true
		}

		items, err := database.GetReorderList(db)
		if err != nil {
			log.Printf("ERROR: derive reorder list for export: %v", err)
			http.Error(w, "Error exporting reorder list.", http.StatusInternalServerError)
			return
		}
		names := itemNames(items)

		var payload []byte
		switch format {
		case FormatCSV:
			payload, err = encodeItemsCSV(items)
		case FormatJSON:
			payload, err = encodeNamesJSON(names)
		default:
			payload = encodeNamesTxt(names)
		}
		if err != nil {
			log.Printf("ERROR: encode reorder list as %s: %v", format, err)
			http.Error(w, "Error exporting reorder list.", http.StatusInternalServerError)
			return
		}

		if save {
			id, err := database.InsertSnapshot(db, time.Now().Format(timestampLayout), names)
			if err != nil {
				log.Printf("ERROR: save snapshot on export: %v", err)
				http.Error(w, "Error exporting reorder list.", http.StatusInternalServerError)
				return
			}
			log.Printf("INFO: Export saved reorder snapshot %d (%d names).", id, len(names))
		}

		filename := "reorder_list." + format
		log.Printf("INFO: Exported reorder list to %s, count=%d.", format, len(items))
		w.Header().Set("Content-Type", contentType(format))
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(payload)
	}
}

// SaveReorderListHandler persists the current reorder list as a snapshot.
func SaveReorderListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		items, err := database.GetReorderList(db)
		if err != nil {
			log.Printf("ERROR: derive reorder list for save: %v", err)
			http.Error(w, "Error saving reorder list.", http.StatusInternalServerError)
			return
		}
		names := itemNames(items)

		id, err := database.InsertSnapshot(db, time.Now().Format(timestampLayout), names)
		if err != nil {
			log.Printf("ERROR: save reorder snapshot: %v", err)
			http.Error(w, "Error saving reorder list.", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Saved reorder snapshot %d (%d names).", id, len(names))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"id":      id,
			"message": fmt.Sprintf("Saved reorder list with %d products.", len(names)),
		})
	}
}
