package sessionep

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plateful/ordering-gateway/internal/session"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

// Establish captures the identity provider's bearer token into the
// session bridge. The UI calls this once after sign-in; afterwards
// every remote call, including background work, rides on this token.
func Establish(w http.ResponseWriter, r *http.Request, bridge *session.Bridge) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return
	}

	if err := bridge.Set(req.Token); err != nil {
		slog.Warn("Rejected session token", "error", err)
		respond.Error(w, err)

		return
	}

	claims, err := bridge.Claims()
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"subject": claims.Subject,
		"role":    claims.Role,
	})
}

// Drop signs the session out and wipes the persisted token.
func Drop(w http.ResponseWriter, r *http.Request, bridge *session.Bridge) {
	bridge.Clear()
	respond.JSON(w, http.StatusOK, nil)
}
