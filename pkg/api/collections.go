package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// HandleListCollections handles GET requests for a database's collections
func (h *Handler) HandleListCollections(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"db":          dbName,
		"collections": h.catalog.ListCollections(dbName),
	})
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

// HandleCreateCollection handles POST requests to create a collection
func (h *Handler) HandleCreateCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]

	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "Collection name is required")
		return
	}

	if !h.catalog.CreateCollection(dbName, req.Name) {
		WriteJSONError(w, http.StatusConflict, "Collection already exists")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"db":         dbName,
		"collection": req.Name,
	})
}

// HandleDeleteCollection handles DELETE requests to drop a collection
func (h *Handler) HandleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]

	if !h.catalog.DeleteCollection(dbName, collName) {
		WriteJSONError(w, http.StatusBadRequest, "Could not delete collection (maybe protected or not found)")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
