package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Snapshot() []cartitem.CartItem
	Refresh(ctx context.Context) ([]cartitem.CartItem, error)
	AddItem(ctx context.Context, menuItemID string, quantity int, size cartitem.Size) ([]cartitem.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID string, quantity int) ([]cartitem.CartItem, error)
	Remove(ctx context.Context, cartItemID string) ([]cartitem.CartItem, error)
	Clear(ctx context.Context) error
	Sync(ctx context.Context) ([]cartitem.CartItem, error)
}

// Get handles the authoritative cart read.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	items, err := service.Refresh(r.Context())
	if err != nil {
		slog.Error("Error refreshing cart", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// Snapshot handles the local last-known-good read. No network.
func Snapshot(w http.ResponseWriter, r *http.Request, service service) {
	respond.JSON(w, http.StatusOK, service.Snapshot())
}

// AddItem handles adding a menu item to the cart.
func AddItem(w http.ResponseWriter, r *http.Request, service service) {
	var req struct {
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
		Size       string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return
	}

	size, err := cartitem.ParseSize(req.Size)
	if err != nil {
		respond.Error(w, err)

		return
	}

	items, err := service.AddItem(r.Context(), req.MenuItemID, req.Quantity, size)
	if err != nil {
		slog.Error("Error adding cart item", "menu_item_id", req.MenuItemID, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// UpdateItem handles a quantity change on one cart line.
func UpdateItem(w http.ResponseWriter, r *http.Request, service service) {
	cartItemID := chi.URLParam(r, "id")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return
	}

	items, err := service.UpdateQuantity(r.Context(), cartItemID, req.Quantity)
	if err != nil {
		slog.Error("Error updating cart item", "cart_item_id", cartItemID, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// RemoveItem handles removing one cart line.
func RemoveItem(w http.ResponseWriter, r *http.Request, service service) {
	cartItemID := chi.URLParam(r, "id")

	items, err := service.Remove(r.Context(), cartItemID)
	if err != nil {
		slog.Error("Error removing cart item", "cart_item_id", cartItemID, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// Clear handles emptying the cart.
func Clear(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Clear(r.Context()); err != nil {
		slog.Error("Error clearing cart", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, nil)
}

// Sync pushes the local snapshot to the server.
func Sync(w http.ResponseWriter, r *http.Request, service service) {
	items, err := service.Sync(r.Context())
	if err != nil {
		slog.Error("Error syncing cart", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}
