package iorderapi

import (
	"context"

	"github.com/plateful/ordering-gateway/internal/service/models/order"
)

// IOrderAPI is an interface for the remote orders client.
type IOrderAPI interface {
	CreateOrder(ctx context.Context, req order.CreateRequest) (order.Order, error)
	MyOrders(ctx context.Context) ([]order.Order, error)
	OrderStatus(ctx context.Context, orderID string) (order.Status, error)
	RequestStatus(ctx context.Context, orderID string, status order.Status) error
}
