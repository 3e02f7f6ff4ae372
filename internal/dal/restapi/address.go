package restapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/plateful/ordering-gateway/internal/service/models/address"
)

// ListAddresses returns the user's delivery addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]address.Address, error) {
	var addrs []address.Address
	if err := c.do(ctx, http.MethodGet, "/address", nil, &addrs); err != nil {
		return nil, err
	}

	return addrs, nil
}

// AddAddress appends a new delivery address.
func (c *Client) AddAddress(ctx context.Context, value string) error {
	body := struct {
		Value string `json:"value"`
	}{Value: value}

	return c.do(ctx, http.MethodPost, "/address", body, nil)
}

// UpdateAddress replaces the address at the given index.
func (c *Client) UpdateAddress(ctx context.Context, index int, value string) error {
	body := struct {
		Value string `json:"value"`
	}{Value: value}

	return c.do(ctx, http.MethodPut, "/address/"+strconv.Itoa(index), body, nil)
}

// DeleteAddress removes the address at the given index.
func (c *Client) DeleteAddress(ctx context.Context, index int) error {
	return c.do(ctx, http.MethodDelete, "/address/"+strconv.Itoa(index), nil, nil)
}

// SetDefaultAddress marks the address at the given index as the
// default. The backend demotes the previous default.
func (c *Client) SetDefaultAddress(ctx context.Context, index int) error {
	return c.do(ctx, http.MethodPost, "/address/"+strconv.Itoa(index)+"/default", nil, nil)
}
