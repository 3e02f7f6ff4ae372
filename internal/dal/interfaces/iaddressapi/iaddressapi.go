package iaddressapi

import (
	"context"

	"github.com/plateful/ordering-gateway/internal/service/models/address"
)

// IAddressAPI is an interface for the remote address client.
type IAddressAPI interface {
	ListAddresses(ctx context.Context) ([]address.Address, error)
	AddAddress(ctx context.Context, value string) error
	UpdateAddress(ctx context.Context, index int, value string) error
	DeleteAddress(ctx context.Context, index int) error
	SetDefaultAddress(ctx context.Context, index int) error
}
