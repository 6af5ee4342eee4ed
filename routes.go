package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"stoka/product"
	"stoka/reorder"
	"stoka/session"
	"stoka/shelf"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, sessions *session.Store) {
	mux.HandleFunc("/api/session/start", session.StartSessionHandler(dbConn, sessions))
	mux.HandleFunc("/api/session/status", session.StatusHandler(sessions))

	// Every inventory action keeps the caller's session alive, the way
	// any interaction reset the inactivity timer in the walkthrough UI.
	touch := sessions.Touching

	mux.HandleFunc("/api/products", touch(product.FilterProductsHandler(dbConn)))
	mux.HandleFunc("/api/products/by_id/", touch(product.GetProductHandler(dbConn)))
	mux.HandleFunc("/api/products/add", touch(product.AddProductHandler(dbConn)))
	mux.HandleFunc("/api/products/edit/", touch(product.EditProductHandler(dbConn)))
	mux.HandleFunc("/api/products/delete/", touch(product.DeleteProductHandler(dbConn)))
	mux.HandleFunc("/api/products/import", touch(product.ImportProductsHandler(dbConn)))
	mux.HandleFunc("/api/products/export", touch(product.ExportProductsHandler(dbConn)))

	mux.HandleFunc("/api/shelves", touch(shelf.ListShelvesHandler(dbConn)))
	mux.HandleFunc("/api/shelves/update/", touch(shelf.UpdateShelfHandler(dbConn)))

	mux.HandleFunc("/api/reorder", touch(reorder.GetReorderListHandler(dbConn)))
	mux.HandleFunc("/api/reorder/export", touch(reorder.ExportReorderListHandler(dbConn)))
	mux.HandleFunc("/api/reorder/save", touch(reorder.SaveReorderListHandler(dbConn)))
	mux.HandleFunc("/api/reorder/lists", touch(reorder.ListSnapshotsHandler(dbConn)))
	mux.HandleFunc("/api/reorder/lists/download/", touch(reorder.DownloadSnapshotHandler(dbConn)))
	mux.HandleFunc("/api/reorder/lists/delete/", touch(reorder.DeleteSnapshotHandler(dbConn)))
}
