package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plateful/ordering-gateway/internal/cache/cartcache"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/icartapi"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/iclearqueue"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/iorderapi"
	"github.com/plateful/ordering-gateway/internal/service/models/order"
	"github.com/plateful/ordering-gateway/internal/service/models/pendingclear"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var (
	// ErrEmptyCart rejects checkout with nothing in the cart. No
	// network call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoAddress rejects checkout without a selected delivery
	// address. No network call is made.
	ErrNoAddress = errors.New("no delivery address selected")
)

// OrderService owns the order placement workflow.
type OrderService struct {
	cartAPI    icartapi.ICartAPI
	orderAPI   iorderapi.IOrderAPI
	cache      *cartcache.Cache
	clearQueue iclearqueue.IClearQueue

	clearRetries  int
	clearBackoff  time.Duration
	queueMaxTries int
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	clearRetries := viper.GetInt("orders.clear_retries")
	if clearRetries == 0 {
		clearRetries = 2
	}

	clearBackoffMs := viper.GetInt("orders.clear_backoff_ms")
	if clearBackoffMs == 0 {
		clearBackoffMs = 250
	}

	queueMaxTries := viper.GetInt("orders.clear_queue_max_retries")
	if queueMaxTries == 0 {
		queueMaxTries = 5
	}

	s := &OrderService{
		clearRetries:  clearRetries,
		clearBackoff:  time.Duration(clearBackoffMs) * time.Millisecond,
		queueMaxTries: queueMaxTries,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCartAPI sets the remote cart client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCartAPI(cartAPI icartapi.ICartAPI) option {
	return func(s *OrderService) {
		s.cartAPI = cartAPI
	}
}

// WithOrderAPI sets the remote orders client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderAPI(orderAPI iorderapi.IOrderAPI) option {
	return func(s *OrderService) {
		s.orderAPI = orderAPI
	}
}

// WithCache sets the local cart mirror for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCache(cache *cartcache.Cache) option {
	return func(s *OrderService) {
		s.cache = cache
	}
}

// WithClearQueue sets the pending-clear queue for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClearQueue(queue iclearqueue.IClearQueue) option {
	return func(s *OrderService) {
		s.clearQueue = queue
	}
}

// PlaceOrderResult is the outcome of a placement. Warning is set when
// the order was created but the remote cart could not be cleared yet;
// the clear is queued and retried in the background.
type PlaceOrderResult struct {
	Order       order.Order `json:"order"`
	CartCleared bool        `json:"cartCleared"`
	Warning     string      `json:"warning,omitempty"`
}

// PlaceOrder validates preconditions, creates the order, then clears
// the remote cart. Order-creation failure aborts the whole flow so a
// failed order never costs the user their cart.
func (s *OrderService) PlaceOrder(ctx context.Context, req order.CreateRequest) (PlaceOrderResult, error) {
	ctx, span := otel.Tracer("ordering-gateway").Start(ctx, "PlaceOrder")
	defer span.End()

	if req.AddressID == "" {
		return PlaceOrderResult{}, ErrNoAddress
	}
	if s.cache.Len() == 0 {
		return PlaceOrderResult{}, ErrEmptyCart
	}

	created, err := s.orderAPI.CreateOrder(ctx, req)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	result := PlaceOrderResult{Order: created, CartCleared: true}

	if err := s.clearWithRetry(ctx); err != nil {
		slog.Warn("Cart clear failed after order creation, queueing for retry",
			"order_id", created.ID,
			"error", err,
		)
		s.enqueueClear(ctx, created.ID, err)
		result.CartCleared = false
		result.Warning = "order placed, but the cart could not be cleared yet; it will be retried"
	}

	// The mirror is dropped either way: the order is placed and the
	// snapshot must not keep advertising the old contents.
	s.cache.Clear()

	return result, nil
}

// MyOrders returns the current user's orders.
func (s *OrderService) MyOrders(ctx context.Context) ([]order.Order, error) {
	return s.orderAPI.MyOrders(ctx)
}

// Status reads the server-authoritative status of one order.
func (s *OrderService) Status(ctx context.Context, orderID string) (order.Status, error) {
	return s.orderAPI.OrderStatus(ctx, orderID)
}

// RequestStatus asks the backend for a status transition.
func (s *OrderService) RequestStatus(ctx context.Context, orderID string, status order.Status) error {
	if _, err := order.ParseStatus(status.String()); err != nil {
		return err
	}

	return s.orderAPI.RequestStatus(ctx, orderID, status)
}

func (s *OrderService) clearWithRetry(ctx context.Context) error {
	backoff := retry.WithMaxRetries(
		uint64(s.clearRetries),
		retry.NewExponential(s.clearBackoff),
	)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.cartAPI.ClearCart(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}

func (s *OrderService) enqueueClear(ctx context.Context, orderID string, cause error) {
	if s.clearQueue == nil {
		return
	}

	pc := pendingclear.PendingClear{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		MaxRetries:  s.queueMaxTries,
		LastError:   cause.Error(),
		CreatedAt:   time.Now(),
		NextRetryAt: time.Now(),
	}
	if err := s.clearQueue.Insert(ctx, pc); err != nil {
		slog.Error("Failed to queue pending cart clear", "order_id", orderID, "error", err)
	}
}
