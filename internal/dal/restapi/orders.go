package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plateful/ordering-gateway/internal/service/models/order"
)

// CreateOrder submits a new order for the current user.
func (c *Client) CreateOrder(ctx context.Context, req order.CreateRequest) (order.Order, error) {
	var created order.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &created); err != nil {
		return order.Order{}, err
	}

	return created, nil
}

// MyOrders returns the current user's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// OrderStatus reads the server-authoritative status of one order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (order.Status, error) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/status", nil, &payload); err != nil {
		return "", err
	}

	return order.ParseStatus(payload.Status)
}

// RequestStatus asks the backend to transition an order to the given
// status. The backend decides whether the transition is legal.
func (c *Client) RequestStatus(ctx context.Context, orderID string, status order.Status) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status.String()}

	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/status", body, nil)
}
