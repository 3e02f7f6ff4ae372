package catalogsvc

import (
	"context"

	"github.com/plateful/ordering-gateway/internal/dal/interfaces/icatalogapi"
	"github.com/plateful/ordering-gateway/internal/service/models/menu"
	"golang.org/x/sync/errgroup"
)

// CatalogService reads the public storefront data.
type CatalogService struct {
	catalogAPI icatalogapi.ICatalogAPI
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCatalogAPI sets the catalog client for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogAPI(catalogAPI icatalogapi.ICatalogAPI) option {
	return func(s *CatalogService) {
		s.catalogAPI = catalogAPI
	}
}

// Snapshot is everything the storefront needs for first paint.
type Snapshot struct {
	Menu     []menu.Item          `json:"menu"`
	Offers   []menu.SpecialOffer  `json:"offers"`
	Specials []menu.TodaysSpecial `json:"specials"`
}

// Snapshot fetches menu, offers and today's specials concurrently.
func (s *CatalogService) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.catalogAPI.Menu(ctx)
		if err != nil {
			return err
		}
		snap.Menu = items

		return nil
	})
	g.Go(func() error {
		offers, err := s.catalogAPI.SpecialOffers(ctx)
		if err != nil {
			return err
		}
		snap.Offers = offers

		return nil
	})
	g.Go(func() error {
		specials, err := s.catalogAPI.TodaysSpecials(ctx)
		if err != nil {
			return err
		}
		snap.Specials = specials

		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Menu returns the full menu.
func (s *CatalogService) Menu(ctx context.Context) ([]menu.Item, error) {
	return s.catalogAPI.Menu(ctx)
}

// SpecialOffers returns the current promotional offers.
func (s *CatalogService) SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error) {
	return s.catalogAPI.SpecialOffers(ctx)
}

// TodaysSpecials returns the dishes featured today.
func (s *CatalogService) TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error) {
	return s.catalogAPI.TodaysSpecials(ctx)
}
