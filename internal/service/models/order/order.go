package order

import (
	"errors"
	"time"

	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
)

// Status is the lifecycle state of an order. Transitions are
// server-authoritative; this side only reads or requests one.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Item represents one line of a placed order.
type Item struct {
	ItemID     string        `json:"id"`
	Name       string        `json:"name"`
	PriceCents int64         `json:"priceCents"`
	Quantity   int           `json:"quantity"`
	Size       cartitem.Size `json:"size"`
}

// Order represents a placed order as reported by the backend.
type Order struct {
	ID              string     `json:"id"`
	Items           []Item     `json:"items"`
	TotalCents      int64      `json:"total"`
	Status          Status     `json:"status"`
	DeliveryAddress string     `json:"delivery_address"`
	CreatedAt       time.Time  `json:"created_at"`
	EstimatedAt     *time.Time `json:"estimated_completion_time,omitempty"`
}

// CreateRequest is the payload for order creation.
type CreateRequest struct {
	AddressID    string `json:"addressId"`
	Instructions string `json:"instructions,omitempty"`
}
