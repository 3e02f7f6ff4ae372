package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/plateful/ordering-gateway/internal/service/models/menu"
	"github.com/plateful/ordering-gateway/internal/service/services/catalogsvc"
	"github.com/plateful/ordering-gateway/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Snapshot(ctx context.Context) (catalogsvc.Snapshot, error)
	Menu(ctx context.Context) ([]menu.Item, error)
	SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error)
	TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error)
}

// Snapshot handles the combined storefront read.
func Snapshot(w http.ResponseWriter, r *http.Request, service service) {
	snap, err := service.Snapshot(r.Context())
	if err != nil {
		slog.Error("Error fetching catalog snapshot", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, snap)
}

// Menu handles the menu read.
func Menu(w http.ResponseWriter, r *http.Request, service service) {
	items, err := service.Menu(r.Context())
	if err != nil {
		slog.Error("Error fetching menu", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// Offers handles the special offers read.
func Offers(w http.ResponseWriter, r *http.Request, service service) {
	offers, err := service.SpecialOffers(r.Context())
	if err != nil {
		slog.Error("Error fetching special offers", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, offers)
}

// Specials handles the today's specials read.
func Specials(w http.ResponseWriter, r *http.Request, service service) {
	specials, err := service.TodaysSpecials(r.Context())
	if err != nil {
		slog.Error("Error fetching todays specials", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, specials)
}
