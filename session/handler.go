package session

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"stoka/database"
)

// StartSessionHandler begins a walkthrough session. session_type "new"
// resets every product to in-stock and every shelf to unchecked;
// "continue" keeps the persisted state untouched.
func StartSessionHandler(db *sqlx.DB, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		mode := r.FormValue("session_type")
		if mode != "new" && mode != "continue" {
			http.Error(w, "session_type must be 'new' or 'continue'", http.StatusBadRequest)
			return
		}

		if mode == "new" {
			tx, err := db.Beginx()
			if err != nil {
				log.Printf("ERROR: begin transaction for new session: %v", err)
				http.Error(w, "Failed to start session.", http.StatusInternalServerError)
				return
			}
			defer tx.Rollback()

			if err := database.ResetWalkthrough(tx); err != nil {
				log.Printf("ERROR: reset walkthrough state: %v", err)
				http.Error(w, "Failed to start session.", http.StatusInternalServerError)
				return
			}
			if err := tx.Commit(); err != nil {
				log.Printf("ERROR: commit new session reset: %v", err)
				http.Error(w, "Failed to start session.", http.StatusInternalServerError)
				return
			}
			log.Println("INFO: New session started, reset products and shelves.")
		} else {
			log.Println("INFO: Continuing previous session.")
		}

		sess := store.Begin()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.Token,
			Path:     "/",
			HttpOnly: true,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"mode":   mode,
		})
	}
}

// StatusHandler reports whether the caller still has a live session.
func StatusHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active := false
		if cookie, err := r.Cookie(CookieName); err == nil {
			active = store.Active(cookie.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"active": active,
		})
	}
}
