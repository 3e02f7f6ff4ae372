package addresses

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/plateful/ordering-gateway/internal/service/models/address"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	List(ctx context.Context) ([]address.Address, error)
	Add(ctx context.Context, value string) error
	Update(ctx context.Context, index int, value string) error
	Delete(ctx context.Context, index int) error
	SetDefault(ctx context.Context, index int) ([]address.Address, error)
}

// List handles the address list read.
func List(w http.ResponseWriter, r *http.Request, service service) {
	addrs, err := service.List(r.Context())
	if err != nil {
		slog.Error("Error listing addresses", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, addrs)
}

// Add handles appending a new address.
func Add(w http.ResponseWriter, r *http.Request, service service) {
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}

	if err := service.Add(r.Context(), value); err != nil {
		slog.Error("Error adding address", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, nil)
}

// Update handles replacing the address at an index.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}

	if err := service.Update(r.Context(), index, value); err != nil {
		slog.Error("Error updating address", "index", index, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, nil)
}

// Delete handles removing the address at an index.
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	if err := service.Delete(r.Context(), index); err != nil {
		slog.Error("Error deleting address", "index", index, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, nil)
}

// SetDefault handles marking the address at an index as default and
// returns the verified list.
func SetDefault(w http.ResponseWriter, r *http.Request, service service) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	addrs, err := service.SetDefault(r.Context(), index)
	if err != nil {
		slog.Error("Error setting default address", "index", index, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, addrs)
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		respond.Fail(w, http.StatusBadRequest, "invalid address index")

		return 0, false
	}

	return index, true
}

func decodeValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return "", false
	}

	return req.Value, true
}
