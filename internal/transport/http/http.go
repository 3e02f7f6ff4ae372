package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/plateful/ordering-gateway/internal/service/models/address"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/plateful/ordering-gateway/internal/service/models/image"
	"github.com/plateful/ordering-gateway/internal/service/models/menu"
	"github.com/plateful/ordering-gateway/internal/service/models/order"
	"github.com/plateful/ordering-gateway/internal/service/services/catalogsvc"
	"github.com/plateful/ordering-gateway/internal/service/services/ordersvc"
	"github.com/plateful/ordering-gateway/internal/session"
	addresseshandler "github.com/plateful/ordering-gateway/internal/transport/http/addresses"
	carthandler "github.com/plateful/ordering-gateway/internal/transport/http/cart"
	cataloghandler "github.com/plateful/ordering-gateway/internal/transport/http/catalog"
	imageshandler "github.com/plateful/ordering-gateway/internal/transport/http/images"
	ordershandler "github.com/plateful/ordering-gateway/internal/transport/http/orders"
	"github.com/plateful/ordering-gateway/internal/transport/http/sessionep"
	"github.com/plateful/ordering-gateway/pkg/http/middleware/auth"
	"github.com/plateful/ordering-gateway/pkg/http/middleware/trace"
	"github.com/plateful/ordering-gateway/pkg/logger"
	"github.com/spf13/viper"
)

type cartService interface {
	Snapshot() []cartitem.CartItem
	Refresh(ctx context.Context) ([]cartitem.CartItem, error)
	AddItem(ctx context.Context, menuItemID string, quantity int, size cartitem.Size) ([]cartitem.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID string, quantity int) ([]cartitem.CartItem, error)
	Remove(ctx context.Context, cartItemID string) ([]cartitem.CartItem, error)
	Clear(ctx context.Context) error
	Sync(ctx context.Context) ([]cartitem.CartItem, error)
}

type orderService interface {
	PlaceOrder(ctx context.Context, req order.CreateRequest) (ordersvc.PlaceOrderResult, error)
	MyOrders(ctx context.Context) ([]order.Order, error)
	Status(ctx context.Context, orderID string) (order.Status, error)
	RequestStatus(ctx context.Context, orderID string, status order.Status) error
}

type addressService interface {
	List(ctx context.Context) ([]address.Address, error)
	Add(ctx context.Context, value string) error
	Update(ctx context.Context, index int, value string) error
	Delete(ctx context.Context, index int) error
	SetDefault(ctx context.Context, index int) ([]address.Address, error)
}

type catalogService interface {
	Snapshot(ctx context.Context) (catalogsvc.Snapshot, error)
	Menu(ctx context.Context) ([]menu.Item, error)
	SpecialOffers(ctx context.Context) ([]menu.SpecialOffer, error)
	TodaysSpecials(ctx context.Context) ([]menu.TodaysSpecial, error)
}

type imageService interface {
	ReplaceItemImage(ctx context.Context, itemID, contentType string, size int64, r io.Reader) (image.Ref, error)
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	cartSvc    cartService
	orderSvc   orderService
	addressSvc addressService
	catalogSvc catalogService
	imageSvc   imageService
	bridge     *session.Bridge
}

func NewHTTPTransport(
	cartSvc cartService,
	orderSvc orderService,
	addressSvc addressService,
	catalogSvc catalogService,
	imageSvc imageService,
	bridge *session.Bridge,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		addressSvc: addressSvc,
		catalogSvc: catalogSvc,
		imageSvc:   imageSvc,
		bridge:     bridge,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	authed := auth.NewAuthMiddleware(h.bridge)
	staffOnly := auth.NewAuthMiddleware(h.bridge, session.RoleAdmin, session.RoleStaff)

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/session", h.establishSession)
		r.Delete("/session", h.dropSession)

		r.Get("/catalog", h.catalogSnapshot)
		r.Get("/catalog/menu", h.menu)
		r.Get("/catalog/offers", h.offers)
		r.Get("/catalog/specials", h.specials)

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/cart", h.getCart)
			r.Get("/cart/snapshot", h.getCartSnapshot)
			r.Post("/cart/items", h.addCartItem)
			r.Put("/cart/items/{id}", h.updateCartItem)
			r.Delete("/cart/items/{id}", h.removeCartItem)
			r.Delete("/cart", h.clearCart)
			r.Post("/cart/sync", h.syncCart)

			r.Post("/orders", h.placeOrder)
			r.Get("/orders/my", h.myOrders)
			r.Get("/orders/{id}/status", h.orderStatus)

			r.Get("/addresses", h.listAddresses)
			r.Post("/addresses", h.addAddress)
			r.Put("/addresses/{index}", h.updateAddress)
			r.Delete("/addresses/{index}", h.deleteAddress)
			r.Post("/addresses/{index}/default", h.setDefaultAddress)
		})

		r.Group(func(r chi.Router) {
			r.Use(staffOnly)

			r.Post("/orders/{id}/status", h.requestOrderStatus)
			r.Put("/menu/{id}/image", h.replaceItemImage)
		})
	})
}

func (h *HTTPTransport) establishSession(w http.ResponseWriter, r *http.Request) {
	sessionep.Establish(w, r, h.bridge)
}

func (h *HTTPTransport) dropSession(w http.ResponseWriter, r *http.Request) {
	sessionep.Drop(w, r, h.bridge)
}

func (h *HTTPTransport) catalogSnapshot(w http.ResponseWriter, r *http.Request) {
	cataloghandler.Snapshot(w, r, h.catalogSvc)
}

func (h *HTTPTransport) menu(w http.ResponseWriter, r *http.Request) {
	cataloghandler.Menu(w, r, h.catalogSvc)
}

func (h *HTTPTransport) offers(w http.ResponseWriter, r *http.Request) {
	cataloghandler.Offers(w, r, h.catalogSvc)
}

func (h *HTTPTransport) specials(w http.ResponseWriter, r *http.Request) {
	cataloghandler.Specials(w, r, h.catalogSvc)
}

func (h *HTTPTransport) getCart(w http.ResponseWriter, r *http.Request) {
	carthandler.Get(w, r, h.cartSvc)
}

func (h *HTTPTransport) getCartSnapshot(w http.ResponseWriter, r *http.Request) {
	carthandler.Snapshot(w, r, h.cartSvc)
}

func (h *HTTPTransport) addCartItem(w http.ResponseWriter, r *http.Request) {
	carthandler.AddItem(w, r, h.cartSvc)
}

func (h *HTTPTransport) updateCartItem(w http.ResponseWriter, r *http.Request) {
	carthandler.UpdateItem(w, r, h.cartSvc)
}

func (h *HTTPTransport) removeCartItem(w http.ResponseWriter, r *http.Request) {
	carthandler.RemoveItem(w, r, h.cartSvc)
}

func (h *HTTPTransport) clearCart(w http.ResponseWriter, r *http.Request) {
	carthandler.Clear(w, r, h.cartSvc)
}

func (h *HTTPTransport) syncCart(w http.ResponseWriter, r *http.Request) {
	carthandler.Sync(w, r, h.cartSvc)
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	ordershandler.Place(w, r, h.orderSvc)
}

func (h *HTTPTransport) myOrders(w http.ResponseWriter, r *http.Request) {
	ordershandler.My(w, r, h.orderSvc)
}

func (h *HTTPTransport) orderStatus(w http.ResponseWriter, r *http.Request) {
	ordershandler.Status(w, r, h.orderSvc)
}

func (h *HTTPTransport) requestOrderStatus(w http.ResponseWriter, r *http.Request) {
	ordershandler.RequestStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) listAddresses(w http.ResponseWriter, r *http.Request) {
	addresseshandler.List(w, r, h.addressSvc)
}

func (h *HTTPTransport) addAddress(w http.ResponseWriter, r *http.Request) {
	addresseshandler.Add(w, r, h.addressSvc)
}

func (h *HTTPTransport) updateAddress(w http.ResponseWriter, r *http.Request) {
	addresseshandler.Update(w, r, h.addressSvc)
}

func (h *HTTPTransport) deleteAddress(w http.ResponseWriter, r *http.Request) {
	addresseshandler.Delete(w, r, h.addressSvc)
}

func (h *HTTPTransport) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	addresseshandler.SetDefault(w, r, h.addressSvc)
}

func (h *HTTPTransport) replaceItemImage(w http.ResponseWriter, r *http.Request) {
	imageshandler.Replace(w, r, h.imageSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
