package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpanel/docpanel/pkg/auth"
	"github.com/docpanel/docpanel/pkg/catalog"
	"github.com/docpanel/docpanel/pkg/credentials"
	"github.com/docpanel/docpanel/pkg/docs"
	"github.com/docpanel/docpanel/pkg/domain"
	"github.com/docpanel/docpanel/pkg/storage"
)

const secureDB = "secure_auth"

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	cluster, err := storage.NewCluster(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cluster.Close() })

	creds, err := credentials.NewStore(cluster, secureDB, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, creds.Bootstrap("admin", "admin123"))

	handler := NewHandler(
		auth.NewService(creds, zerolog.Nop()),
		catalog.NewService(cluster, secureDB, zerolog.Nop()),
		docs.NewService(cluster, zerolog.Nop()),
		creds,
		zerolog.Nop(),
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *mux.Router) *http.Cookie {
	t.Helper()

	w := doJSON(t, router, "POST", "/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	}, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func TestHandleLogin(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			body:           map[string]string{"username": "admin", "password": "admin123"},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"username": "admin", "password": "wrongpass"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			body:           map[string]string{"username": "nouser", "password": "anything"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/login", tt.body, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireSession(t *testing.T) {
	router := newTestRouter(t)

	// No cookie
	w := doJSON(t, router, "GET", "/api/databases", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bogus cookie
	w = doJSON(t, router, "GET", "/api/databases", nil, &http.Cookie{Name: SessionCookie, Value: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays public
	w = doJSON(t, router, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleLogout(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	w := doJSON(t, router, "GET", "/api/databases", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/logout", nil, cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, "GET", "/api/databases", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDatabaseAndCollectionFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	// Create a database with its first collection
	w := doJSON(t, router, "POST", "/api/databases", map[string]string{"name": "app"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	// Creating the same collection again conflicts
	w = doJSON(t, router, "POST", "/api/databases", map[string]string{"name": "app"}, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	var listed struct {
		Databases []string `json:"databases"`
	}
	w = doJSON(t, router, "GET", "/api/databases", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Contains(t, listed.Databases, "app")
	assert.Contains(t, listed.Databases, secureDB)

	// Add and remove a collection
	w = doJSON(t, router, "POST", "/api/databases/app/collections", map[string]string{"name": "items"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var colls struct {
		Collections []string `json:"collections"`
	}
	w = doJSON(t, router, "GET", "/api/databases/app/collections", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &colls))
	assert.Equal(t, []string{"default", "items"}, colls.Collections)

	w = doJSON(t, router, "DELETE", "/api/databases/app/collections/items", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// The credential collection refuses deletion
	w = doJSON(t, router, "DELETE", "/api/databases/"+secureDB+"/collections/users", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Reserved databases refuse deletion
	w = doJSON(t, router, "DELETE", "/api/databases/admin", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, "DELETE", "/api/databases/"+secureDB, nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "DELETE", "/api/databases/app", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	// Insert
	w := doJSON(t, router, "POST", "/api/databases/app/collections/items/documents",
		domain.Document{"name": "Laptop", "price": 75000}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var inserted struct {
		InsertedID string `json:"inserted_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inserted))
	require.NotEmpty(t, inserted.InsertedID)

	docPath := "/api/databases/app/collections/items/documents/" + inserted.InsertedID

	// Get
	w = doJSON(t, router, "GET", docPath, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Laptop", doc["name"])
	assert.Equal(t, inserted.InsertedID, doc.ID())

	// Update ignores the payload's identifier
	w = doJSON(t, router, "PUT", docPath, domain.Document{"_id": "forged", "price": 70000}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", docPath, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, inserted.InsertedID, doc.ID())
	assert.EqualValues(t, 70000, doc["price"])

	// Invalid JSON body is rejected at the boundary
	req := httptest.NewRequest("PUT", docPath, bytes.NewBufferString("{not json"))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed id reads as not found / not deleted
	w = doJSON(t, router, "GET", "/api/databases/app/collections/items/documents/junk", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, "DELETE", "/api/databases/app/collections/items/documents/junk", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Delete twice: ok then failed
	w = doJSON(t, router, "DELETE", docPath, nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "DELETE", docPath, nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePaginate(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	for i := 0; i < 25; i++ {
		w := doJSON(t, router, "POST", "/api/databases/app/collections/items/documents",
			domain.Document{"n": i}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var result domain.PageResult
	w := doJSON(t, router, "GET", "/api/databases/app/collections/items/documents?page=3&page_size=10", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Documents, 5)

	// Defaults: page 1, page_size 10
	w = doJSON(t, router, "GET", "/api/databases/app/collections/items/documents", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Len(t, result.Documents, 10)

	// Empty collection still renders one page
	w = doJSON(t, router, "GET", "/api/databases/app/collections/nothing/documents", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 1, result.TotalPages)
	assert.Empty(t, result.Documents)
}

func TestCredentialFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	// Add
	w := doJSON(t, router, "POST", "/api/credentials", map[string]string{
		"username": "carol",
		"password": "s3cret",
		"role":     "user",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var added struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.NotEmpty(t, added.ID)

	// Missing fields rejected
	w = doJSON(t, router, "POST", "/api/credentials", map[string]string{"username": "dave"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// List never exposes hashes
	w = doJSON(t, router, "GET", "/api/credentials", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.Contains(t, w.Body.String(), "carol")

	var listed struct {
		Credentials []domain.CredentialInfo `json:"credentials"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Credentials, 2)

	// Update
	w = doJSON(t, router, "PUT", "/api/credentials/"+added.ID, map[string]string{
		"username": "caroline",
		"role":     "admin",
	}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// The new username can log in with the untouched password
	w = doJSON(t, router, "POST", "/login", map[string]string{
		"username": "caroline",
		"password": "s3cret",
	}, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Delete
	w = doJSON(t, router, "DELETE", "/api/credentials/"+added.ID, nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "DELETE", "/api/credentials/"+added.ID, nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateDatabase_Validation(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "missing name",
			body:           map[string]string{"name": "  "},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "named collection",
			body:           map[string]string{"name": "shop", "collection": "orders"},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/api/databases", tt.body, cookie)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	// The named collection actually exists
	var colls struct {
		Collections []string `json:"collections"`
	}
	w := doJSON(t, router, "GET", "/api/databases/shop/collections", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &colls))
	assert.Equal(t, []string{"orders"}, colls.Collections)
}
