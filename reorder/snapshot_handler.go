package reorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"stoka/database"
)

// ListSnapshotsHandler returns the saved reorder lists, newest first.
func ListSnapshotsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots, err := database.ListSnapshots(db)
		if err != nil {
			log.Printf("ERROR: list reorder snapshots: %v", err)
			http.Error(w, "Error loading saved lists.", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshots)
	}
}

// DownloadSnapshotHandler encodes a stored snapshot in the requested
// format. Snapshots only store names, so the CSV is a single name column.
// Downloading a historical list never creates another snapshot.
func DownloadSnapshotHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/reorder/lists/download/"))
		if err != nil {
			http.Error(w, "Invalid list id.", http.StatusBadRequest)
			return
		}
		format := normalizeFormat(r.URL.Query().Get("format"))

		snap, err := database.GetSnapshotByID(db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Saved list not found.", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: load snapshot %d: %v", id, err)
			http.Error(w, "Error loading saved list.", http.StatusInternalServerError)
			return
		}

		var payload []byte
		switch format {
		case FormatCSV:
			payload, err = encodeNamesCSV(snap.ProductNames)
		case FormatJSON:
			payload, err = encodeNamesJSON(snap.ProductNames)
		default:
			payload = encodeNamesTxt(snap.ProductNames)
		}
		if err != nil {
			log.Printf("ERROR: encode snapshot %d as %s: %v", id, format, err)
			http.Error(w, "Error encoding saved list.", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("reorder_list_%d.%s", id, format)
		log.Printf("INFO: Downloaded snapshot %d as %s (%d names).", id, format, len(snap.ProductNames))
		w.Header().Set("Content-Type", contentType(format))
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(payload)
	}
}

// DeleteSnapshotHandler removes a saved list; an unknown id is an explicit
// not-found.
func DeleteSnapshotHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/reorder/lists/delete/"))
		if err != nil {
			http.Error(w, "Invalid list id.", http.StatusBadRequest)
			return
		}

		found, err := database.DeleteSnapshot(db, id)
		if err != nil {
			log.Printf("ERROR: delete snapshot %d: %v", id, err)
			http.Error(w, "Error deleting saved list.", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "Saved list not found.", http.StatusNotFound)
			return
		}

		log.Printf("INFO: Deleted reorder snapshot %d.", id)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
		})
	}
}
