package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/docpanel/docpanel/pkg/domain"
)

// HandlePaginate handles GET requests for one page of a collection
func (h *Handler) HandlePaginate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	result := h.docs.Paginate(dbName, collName, page, pageSize)
	WriteJSON(w, http.StatusOK, result)
}

// HandleGetDocument handles GET requests to retrieve a specific document by ID
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]
	docID := vars["id"]

	doc, ok := h.docs.Get(dbName, collName, docID)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "Document not found")
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// HandleInsertDocument handles POST requests to insert a document
func (h *Handler) HandleInsertDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]

	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.logger.Error().Err(err).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.docs.Insert(dbName, collName, doc)
	if err != nil {
		h.logger.Error().Err(err).Str("database", dbName).Str("collection", collName).
			Msg("insert failed")
		WriteJSONError(w, http.StatusInternalServerError, "Insert error")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"inserted_id": id})
}

// HandleUpdateDocument handles PUT requests to merge fields into a document
func (h *Handler) HandleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]
	docID := vars["id"]

	var updates domain.Document
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.logger.Error().Err(err).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !h.docs.Update(dbName, collName, docID, updates) {
		WriteJSONError(w, http.StatusBadRequest, "Not updated")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDeleteDocument handles DELETE requests to remove a document
func (h *Handler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dbName := vars["db"]
	collName := vars["coll"]
	docID := vars["id"]

	if !h.docs.Delete(dbName, collName, docID) {
		WriteJSONError(w, http.StatusBadRequest, "Not deleted")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// queryInt reads an integer query parameter, falling back on absent or
// unparseable values.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
