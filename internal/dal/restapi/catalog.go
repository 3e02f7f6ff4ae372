package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plateful/ordering-gateway/internal/service/models/menu"
)

// Menu returns the full menu. Public, no token required.
func (c *Client) Menu(ctx context.Context) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.doPublic(ctx, http.MethodGet, "/menu", nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// SpecialOffers returns the current promotional offers.
func (c *Client) SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error) {
	var offers []menu.SpecialOffer
	if err := c.doPublic(ctx, http.MethodGet, "/special-offers", nil, &offers); err != nil {
		return nil, err
	}

	return offers, nil
}

// TodaysSpecials returns the dishes featured for the current day.
func (c *Client) TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error) {
	var specials []menu.TodaysSpecial
	if err := c.doPublic(ctx, http.MethodGet, "/todays-specials", nil, &specials); err != nil {
		return nil, err
	}

	return specials, nil
}

// SetItemImage points a menu item at a new image URL. Part of the
// image replace workflow; the blob must already exist when this is
// called.
func (c *Client) SetItemImage(ctx context.Context, itemID, imageURL string) error {
	body := struct {
		Image string `json:"image"`
	}{Image: imageURL}

	return c.do(ctx, http.MethodPut, "/menu/"+url.PathEscape(itemID)+"/image", body, nil)
}

// ItemImage reads the current image URL of a menu item.
func (c *Client) ItemImage(ctx context.Context, itemID string) (string, error) {
	var payload struct {
		Image string `json:"image"`
	}
	if err := c.doPublic(ctx, http.MethodGet, "/menu/"+url.PathEscape(itemID)+"/image", nil, &payload); err != nil {
		return "", err
	}

	return payload.Image, nil
}
