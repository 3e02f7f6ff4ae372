package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/plateful/ordering-gateway/internal/session"
)

// NewAuthMiddleware validates the bearer token and enforces the given
// roles (any token passes when roles is empty). An inbound bearer is
// captured into the session bridge, which is the single writer of the
// shared token; requests without one ride on the bridge's current
// session, so background work keeps a credential to act with.
func NewAuthMiddleware(bridge *session.Bridge, roles ...session.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
				if err := bridge.Set(token); err != nil {
					reject(w, http.StatusUnauthorized, "invalid token")

					return
				}
			}

			claims, err := bridge.Claims()
			if err != nil {
				reject(w, http.StatusUnauthorized, "missing or expired session")

				return
			}

			if len(roles) > 0 {
				allowed := false
				for _, role := range roles {
					if claims.Role == role {
						allowed = true
						break
					}
				}
				if !allowed {
					reject(w, http.StatusForbidden, "forbidden")

					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"statusCode": status,
		"error":      message,
	})
}
