package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

type contextKey string

// UserContextKey is the context key for the authenticated username
const UserContextKey contextKey = "username"

// RequireSession rejects requests without a live session cookie. The
// username is placed on the request context for handlers that want it.
func (h *Handler) RequireSession() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			username, ok := h.auth.Authenticate(cookie.Value)
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
