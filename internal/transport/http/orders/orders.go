package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plateful/ordering-gateway/internal/service/models/order"
	"github.com/plateful/ordering-gateway/internal/service/services/ordersvc"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, req order.CreateRequest) (ordersvc.PlaceOrderResult, error)
	MyOrders(ctx context.Context) ([]order.Order, error)
	Status(ctx context.Context, orderID string) (order.Status, error)
	RequestStatus(ctx context.Context, orderID string, status order.Status) error
}

// Place handles checkout.
func Place(w http.ResponseWriter, r *http.Request, service service) {
	var req order.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return
	}

	result, err := service.PlaceOrder(r.Context(), req)
	if err != nil {
		slog.Error("Error placing order", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, result)
}

// My handles the order history read.
func My(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.MyOrders(r.Context())
	if err != nil {
		slog.Error("Error listing orders", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

// Status handles the order tracking read.
func Status(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "id")

	status, err := service.Status(r.Context(), orderID)
	if err != nil {
		slog.Error("Error reading order status", "order_id", orderID, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

// RequestStatus handles a staff-side status transition request. The
// backend stays authoritative over whether it is legal.
func RequestStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "failed to decode request body")

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, err)

		return
	}

	if err := service.RequestStatus(r.Context(), orderID, status); err != nil {
		slog.Error("Error requesting status transition", "order_id", orderID, "status", status, "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, nil)
}
