package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Session endpoints
	router.HandleFunc("/login", h.HandleLogin).Methods("POST")
	router.HandleFunc("/logout", h.HandleLogout).Methods("POST")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Everything under /api requires a live session
	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.RequireSession())

	// Catalog operations
	api.HandleFunc("/databases", h.HandleListDatabases).Methods("GET")
	api.HandleFunc("/databases", h.HandleCreateDatabase).Methods("POST")
	api.HandleFunc("/databases/{db}", h.HandleDeleteDatabase).Methods("DELETE")
	api.HandleFunc("/databases/{db}/collections", h.HandleListCollections).Methods("GET")
	api.HandleFunc("/databases/{db}/collections", h.HandleCreateCollection).Methods("POST")
	api.HandleFunc("/databases/{db}/collections/{coll}", h.HandleDeleteCollection).Methods("DELETE")

	// Document operations
	api.HandleFunc("/databases/{db}/collections/{coll}/documents", h.HandlePaginate).Methods("GET")
	api.HandleFunc("/databases/{db}/collections/{coll}/documents", h.HandleInsertDocument).Methods("POST")
	api.HandleFunc("/databases/{db}/collections/{coll}/documents/{id}", h.HandleGetDocument).Methods("GET")
	api.HandleFunc("/databases/{db}/collections/{coll}/documents/{id}", h.HandleUpdateDocument).Methods("PUT")
	api.HandleFunc("/databases/{db}/collections/{coll}/documents/{id}", h.HandleDeleteDocument).Methods("DELETE")

	// Credential management
	api.HandleFunc("/credentials", h.HandleListCredentials).Methods("GET")
	api.HandleFunc("/credentials", h.HandleAddCredential).Methods("POST")
	api.HandleFunc("/credentials/{id}", h.HandleUpdateCredential).Methods("PUT")
	api.HandleFunc("/credentials/{id}", h.HandleDeleteCredential).Methods("DELETE")
}
