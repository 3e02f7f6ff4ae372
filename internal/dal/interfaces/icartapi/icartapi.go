package icartapi

import (
	"context"

	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
)

// ICartAPI is an interface for the remote cart client.
type ICartAPI interface {
	GetCart(ctx context.Context) ([]cartitem.CartItem, error)
	AddItem(ctx context.Context, req restapi.AddItemRequest) error
	UpdateItem(ctx context.Context, cartItemID string, quantity int) error
	RemoveItem(ctx context.Context, cartItemID string) error
	ClearCart(ctx context.Context) error
	SyncCart(ctx context.Context, items []cartitem.CartItem) error
}
