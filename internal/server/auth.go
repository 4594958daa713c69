package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAdmin gates a handler behind the configured bearer token. An empty
// configured token disables the admin surface entirely.
func (h *handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			h.respondError(w, http.StatusForbidden, "admin endpoints are disabled")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			h.respondError(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.adminToken)) != 1 {
			h.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r)
	}
}
