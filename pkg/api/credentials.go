package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleListCredentials handles GET requests for the credential list
func (h *Handler) HandleListCredentials(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"credentials": h.creds.List(),
	})
}

type credentialRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleAddCredential handles POST requests to add a credential
func (h *Handler) HandleAddCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteJSONError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	id, err := h.creds.Add(req.Username, req.Password, req.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to add credential")
		WriteJSONError(w, http.StatusInternalServerError, "Could not add credential")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleUpdateCredential handles PUT requests to update a credential. An
// empty password leaves the stored hash untouched.
func (h *Handler) HandleUpdateCredential(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Role == "" {
		req.Role = "user"
	}

	if !h.creds.Update(id, req.Username, req.Role, req.Password) {
		WriteJSONError(w, http.StatusBadRequest, "Update failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDeleteCredential handles DELETE requests to remove a credential
func (h *Handler) HandleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if !h.creds.Delete(id) {
		WriteJSONError(w, http.StatusBadRequest, "Delete failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
