package addresssvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plateful/ordering-gateway/internal/dal/interfaces/iaddressapi"
	"github.com/plateful/ordering-gateway/internal/service/models/address"
)

var (
	// ErrEmptyAddress rejects a blank address before any network call.
	ErrEmptyAddress = errors.New("address is empty")

	// ErrDefaultInvariant reports a backend contract violation: after
	// a set-default, anything other than exactly one default address.
	ErrDefaultInvariant = errors.New("backend reported an inconsistent default address")
)

// AddressService manages the user's delivery addresses.
type AddressService struct {
	addressAPI iaddressapi.IAddressAPI
}

// option is a function that configures the AddressService.
type option func(*AddressService)

// MustNewAddressService creates a new AddressService.
func MustNewAddressService(opts ...option) *AddressService {
	s := &AddressService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAddressAPI sets the remote address client for the AddressService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAddressAPI(addressAPI iaddressapi.IAddressAPI) option {
	return func(s *AddressService) {
		s.addressAPI = addressAPI
	}
}

// List returns the user's addresses.
func (s *AddressService) List(ctx context.Context) ([]address.Address, error) {
	return s.addressAPI.ListAddresses(ctx)
}

// Add appends a new address.
func (s *AddressService) Add(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyAddress
	}

	return s.addressAPI.AddAddress(ctx, value)
}

// Update replaces the address at index.
func (s *AddressService) Update(ctx context.Context, index int, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyAddress
	}

	return s.addressAPI.UpdateAddress(ctx, index, value)
}

// Delete removes the address at index.
func (s *AddressService) Delete(ctx context.Context, index int) error {
	return s.addressAPI.DeleteAddress(ctx, index)
}

// SetDefault marks the address at index as default and re-reads the
// list to verify that exactly that one is default afterwards.
func (s *AddressService) SetDefault(ctx context.Context, index int) ([]address.Address, error) {
	if err := s.addressAPI.SetDefaultAddress(ctx, index); err != nil {
		return nil, err
	}

	addrs, err := s.addressAPI.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}

	if address.CountDefaults(addrs) != 1 || address.DefaultIndex(addrs) != index {
		return addrs, fmt.Errorf("%w: index %d", ErrDefaultInvariant, index)
	}

	return addrs, nil
}
