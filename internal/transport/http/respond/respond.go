package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plateful/ordering-gateway/internal/cache/cartcache"
	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/plateful/ordering-gateway/internal/service/models/order"
	"github.com/plateful/ordering-gateway/internal/service/services/addresssvc"
	"github.com/plateful/ordering-gateway/internal/service/services/imagesvc"
	"github.com/plateful/ordering-gateway/internal/service/services/ordersvc"
	"github.com/plateful/ordering-gateway/internal/session"
)

// envelope mirrors the backend's canonical response wrapper so the UI
// sees one shape everywhere.
type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// JSON writes an enveloped success response.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success:    true,
		StatusCode: status,
		Data:       data,
	}); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Fail writes an enveloped error response with an explicit status.
func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success:    false,
		StatusCode: status,
		Error:      message,
	}); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Error maps a workflow error onto the envelope: validation errors are
// 400s caught before any remote call, a missing session is 401, and
// backend failures surface as 502.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordersvc.ErrEmptyCart),
		errors.Is(err, ordersvc.ErrNoAddress),
		errors.Is(err, addresssvc.ErrEmptyAddress),
		errors.Is(err, cartcache.ErrNegativeQuantity),
		errors.Is(err, cartitem.ErrInvalidSize),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, imagesvc.ErrUnsupportedType),
		errors.Is(err, imagesvc.ErrTooLarge):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, restapi.ErrNoSession), errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrInvalidToken):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, addresssvc.ErrDefaultInvariant):
		Fail(w, http.StatusBadGateway, err.Error())
	default:
		var apiErr *restapi.APIError
		if errors.As(err, &apiErr) {
			Fail(w, http.StatusBadGateway, apiErr.Error())

			return
		}
		Fail(w, http.StatusInternalServerError, err.Error())
	}
}
