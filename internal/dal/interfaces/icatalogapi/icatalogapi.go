package icatalogapi

import (
	"context"

	"github.com/plateful/ordering-gateway/internal/service/models/menu"
)

// ICatalogAPI is an interface for the public catalog client plus the
// menu image write used by the image replace workflow.
type ICatalogAPI interface {
	Menu(ctx context.Context) ([]menu.Item, error)
	SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error)
	TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error)
	ItemImage(ctx context.Context, itemID string) (string, error)
	SetItemImage(ctx context.Context, itemID, imageURL string) error
}
