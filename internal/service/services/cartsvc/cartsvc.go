package cartsvc

import (
	"context"
	"errors"

	"github.com/plateful/ordering-gateway/internal/cache/cartcache"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/icartapi"
	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
)

// CartService orchestrates the remote cart and the local mirror. The
// server is the single source of truth; the mirror holds a
// last-known-good snapshot refreshed after every successful mutation.
type CartService struct {
	cartAPI icartapi.ICartAPI
	cache   *cartcache.Cache
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCartAPI sets the remote cart client for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCartAPI(cartAPI icartapi.ICartAPI) option {
	return func(s *CartService) {
		s.cartAPI = cartAPI
	}
}

// WithCache sets the local cart mirror for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCache(cache *cartcache.Cache) option {
	return func(s *CartService) {
		s.cache = cache
	}
}

// Snapshot returns the local mirror without touching the network.
// Used for instant paint; never authoritative.
func (s *CartService) Snapshot() []cartitem.CartItem {
	return s.cache.Items()
}

// Refresh reads the authoritative cart and updates the mirror. The
// update is generation-guarded: if the mirror changed while the read
// was in flight, the stale result is discarded. Without a session the
// read is skipped and the snapshot is served instead.
func (s *CartService) Refresh(ctx context.Context) ([]cartitem.CartItem, error) {
	gen := s.cache.BeginRefresh()

	items, err := s.cartAPI.GetCart(ctx)
	if err != nil {
		if errors.Is(err, restapi.ErrNoSession) {
			return s.cache.Items(), nil
		}

		return nil, err
	}

	s.cache.ApplyRemote(gen, items)

	return items, nil
}

// AddItem adds a menu item to the remote cart and refreshes the
// mirror. On failure the mirror is left untouched.
func (s *CartService) AddItem(ctx context.Context, menuItemID string, quantity int, size cartitem.Size) ([]cartitem.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	err := s.cartAPI.AddItem(ctx, restapi.AddItemRequest{
		MenuItemID: menuItemID,
		Quantity:   quantity,
		Size:       size,
	})
	if err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}

// UpdateQuantity sets the quantity of a cart line. Quantity zero
// removes the line; negative quantities are rejected before any
// network call.
func (s *CartService) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) ([]cartitem.CartItem, error) {
	if quantity < 0 {
		return nil, cartcache.ErrNegativeQuantity
	}

	if quantity == 0 {
		return s.Remove(ctx, cartItemID)
	}

	if err := s.cartAPI.UpdateItem(ctx, cartItemID, quantity); err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}

// Remove removes a cart line.
func (s *CartService) Remove(ctx context.Context, cartItemID string) ([]cartitem.CartItem, error) {
	if err := s.cartAPI.RemoveItem(ctx, cartItemID); err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}

// Clear empties the remote cart and the mirror.
func (s *CartService) Clear(ctx context.Context) error {
	if err := s.cartAPI.ClearCart(ctx); err != nil {
		return err
	}
	s.cache.Clear()

	return nil
}

// Sync pushes the local snapshot to the server, then refreshes.
// Used after sign-in to merge a cart assembled while signed out.
func (s *CartService) Sync(ctx context.Context) ([]cartitem.CartItem, error) {
	if err := s.cartAPI.SyncCart(ctx, s.cache.Items()); err != nil {
		return nil, err
	}

	return s.Refresh(ctx)
}
