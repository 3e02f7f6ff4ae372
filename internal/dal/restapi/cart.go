package restapi

import (
	"context"
	"math"
	"net/http"
	"net/url"

	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
)

// cartRow is the wire shape of one server-side cart row.
type cartRow struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
}

// AddItemRequest is the payload for adding a menu item to the remote
// cart.
type AddItemRequest struct {
	MenuItemID string        `json:"menuItemId"`
	Quantity   int           `json:"quantity"`
	Size       cartitem.Size `json:"size"`
}

// GetCart returns the authoritative cart. The last successful read is
// cached; any mutation invalidates it. The cache is scoped to the
// token it was filled under, so a sign-out or session swap never
// serves the previous session's cart.
func (c *Client) GetCart(ctx context.Context) ([]cartitem.CartItem, error) {
	token, ok := c.tokens.Token()
	if !ok {
		return nil, ErrNoSession
	}

	c.cartMu.Lock()
	if c.cartCached && c.cartToken == token {
		items := append([]cartitem.CartItem(nil), c.cachedCart...)
		c.cartMu.Unlock()

		return items, nil
	}
	c.cartMu.Unlock()

	var rows []cartRow
	if err := c.send(ctx, http.MethodGet, "/cart", token, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]cartitem.CartItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	c.cartMu.Lock()
	c.cachedCart = append([]cartitem.CartItem(nil), items...)
	c.cartCached = true
	c.cartToken = token
	c.cartMu.Unlock()

	return items, nil
}

// AddItem adds a menu item to the remote cart.
func (c *Client) AddItem(ctx context.Context, req AddItemRequest) error {
	if err := c.do(ctx, http.MethodPost, "/cart", req, nil); err != nil {
		return err
	}
	c.invalidateCart()

	return nil
}

// UpdateItem sets the quantity of a cart line.
func (c *Client) UpdateItem(ctx context.Context, cartItemID string, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(cartItemID), body, nil); err != nil {
		return err
	}
	c.invalidateCart()

	return nil
}

// RemoveItem removes a cart line.
func (c *Client) RemoveItem(ctx context.Context, cartItemID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(cartItemID), nil, nil); err != nil {
		return err
	}
	c.invalidateCart()

	return nil
}

// ClearCart empties the remote cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/cart", nil, nil); err != nil {
		return err
	}
	c.invalidateCart()

	return nil
}

// SyncCart replaces the remote cart with the given items. Used to push
// a cart assembled while signed out.
func (c *Client) SyncCart(ctx context.Context, items []cartitem.CartItem) error {
	rows := make([]cartRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, cartRow{
			ItemID:   item.ItemID,
			Name:     item.Name,
			Price:    float64(item.PriceCents) / 100,
			Image:    item.Image,
			Quantity: item.Quantity,
			Size:     item.Size.String(),
		})
	}

	body := struct {
		Items []cartRow `json:"items"`
	}{Items: rows}

	if err := c.do(ctx, http.MethodPost, "/cart/sync", body, nil); err != nil {
		return err
	}
	c.invalidateCart()

	return nil
}

func (c *Client) invalidateCart() {
	c.cartMu.Lock()
	c.cachedCart = nil
	c.cartCached = false
	c.cartToken = ""
	c.cartMu.Unlock()
}

func (r cartRow) toItem() (cartitem.CartItem, error) {
	size, err := cartitem.ParseSize(r.Size)
	if err != nil {
		return cartitem.CartItem{}, err
	}

	return cartitem.CartItem{
		CartItemID: cartitem.CompositeID(r.ItemID, size),
		ItemID:     r.ItemID,
		Name:       r.Name,
		PriceCents: int64(math.Round(r.Price * 100)),
		Image:      r.Image,
		Quantity:   r.Quantity,
		Size:       size,
	}, nil
}
