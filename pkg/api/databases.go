package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// HandleListDatabases handles GET requests for the database list
func (h *Handler) HandleListDatabases(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"databases": h.catalog.ListDatabases(),
	})
}

type createDatabaseRequest struct {
	Name       string `json:"name"`
	Collection string `json:"collection"`
}

// HandleCreateDatabase handles POST requests to create a database. Databases
// exist through their collections, so one is created alongside, "default"
// when the caller names none.
func (h *Handler) HandleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req createDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "Database name is required")
		return
	}

	coll := strings.TrimSpace(req.Collection)
	if coll == "" {
		coll = "default"
	}

	if !h.catalog.CreateCollection(req.Name, coll) {
		WriteJSONError(w, http.StatusConflict, "Collection already exists in that database")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"database":   req.Name,
		"collection": coll,
	})
}

// HandleDeleteDatabase handles DELETE requests to drop a whole database
func (h *Handler) HandleDeleteDatabase(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]

	if !h.catalog.DeleteDatabase(dbName) {
		WriteJSONError(w, http.StatusBadRequest, "Could not delete this database (maybe protected or not found)")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
