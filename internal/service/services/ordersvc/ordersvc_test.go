package ordersvc

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/plateful/ordering-gateway/internal/cache/cartcache"
	"github.com/plateful/ordering-gateway/internal/dal/localstore"
	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/plateful/ordering-gateway/internal/service/models/order"
	"github.com/plateful/ordering-gateway/internal/service/models/pendingclear"
	"github.com/spf13/viper"
)

type fakeCartAPI struct {
	clearCalls int
	clearErr   error
}

func (f *fakeCartAPI) GetCart(ctx context.Context) ([]cartitem.CartItem, error) { return nil, nil }
func (f *fakeCartAPI) AddItem(ctx context.Context, req restapi.AddItemRequest) error {
	return nil
}
func (f *fakeCartAPI) UpdateItem(ctx context.Context, cartItemID string, quantity int) error {
	return nil
}
func (f *fakeCartAPI) RemoveItem(ctx context.Context, cartItemID string) error { return nil }
func (f *fakeCartAPI) ClearCart(ctx context.Context) error {
	f.clearCalls++

	return f.clearErr
}
func (f *fakeCartAPI) SyncCart(ctx context.Context, items []cartitem.CartItem) error { return nil }

type fakeOrderAPI struct {
	createCalls int
	createErr   error
	created     order.Order
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, req order.CreateRequest) (order.Order, error) {
	f.createCalls++
	if f.createErr != nil {
		return order.Order{}, f.createErr
	}

	return f.created, nil
}
func (f *fakeOrderAPI) MyOrders(ctx context.Context) ([]order.Order, error) { return nil, nil }
func (f *fakeOrderAPI) OrderStatus(ctx context.Context, orderID string) (order.Status, error) {
	return order.StatusPending, nil
}
func (f *fakeOrderAPI) RequestStatus(ctx context.Context, orderID string, status order.Status) error {
	return nil
}

type fakeClearQueue struct {
	inserted []pendingclear.PendingClear
}

func (f *fakeClearQueue) Insert(ctx context.Context, pc pendingclear.PendingClear) error {
	f.inserted = append(f.inserted, pc)

	return nil
}
func (f *fakeClearQueue) GetPending(ctx context.Context, limit int) ([]pendingclear.PendingClear, error) {
	return nil, nil
}
func (f *fakeClearQueue) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeClearQueue) UpdateRetry(ctx context.Context, id string, retryCount int, lastError string, nextRetryAt time.Time) error {
	return nil
}

func newTestCache(t *testing.T, items ...cartitem.CartItem) *cartcache.Cache {
	t.Helper()

	store, err := localstore.NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	cache := cartcache.NewCache(store)
	for _, item := range items {
		cache.Add(item)
	}

	return cache
}

func lineItem() cartitem.CartItem {
	return cartitem.CartItem{
		ItemID:     "m1",
		Name:       "Butter Naan",
		PriceCents: 300,
		Quantity:   2,
		Size:       cartitem.SizeFull,
	}.WithID()
}

func newService(t *testing.T, cartAPI *fakeCartAPI, orderAPI *fakeOrderAPI, queue *fakeClearQueue, items ...cartitem.CartItem) (*OrderService, *cartcache.Cache) {
	t.Helper()

	viper.Set("orders.clear_backoff_ms", 1)

	cache := newTestCache(t, items...)
	svc := MustNewOrderService(
		WithCartAPI(cartAPI),
		WithOrderAPI(orderAPI),
		WithCache(cache),
		WithClearQueue(queue),
	)

	return svc, cache
}

func TestPlaceOrderEmptyCartRejectedWithoutNetwork(t *testing.T) {
	cartAPI := &fakeCartAPI{}
	orderAPI := &fakeOrderAPI{}
	svc, _ := newService(t, cartAPI, orderAPI, &fakeClearQueue{})

	_, err := svc.PlaceOrder(context.Background(), order.CreateRequest{AddressID: "a1"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	if orderAPI.createCalls != 0 {
		t.Errorf("expected no order creation call, got %d", orderAPI.createCalls)
	}
	if cartAPI.clearCalls != 0 {
		t.Errorf("expected no cart clear call, got %d", cartAPI.clearCalls)
	}
}

func TestPlaceOrderNoAddressRejectedWithoutNetwork(t *testing.T) {
	cartAPI := &fakeCartAPI{}
	orderAPI := &fakeOrderAPI{}
	svc, _ := newService(t, cartAPI, orderAPI, &fakeClearQueue{}, lineItem())

	_, err := svc.PlaceOrder(context.Background(), order.CreateRequest{})
	if !errors.Is(err, ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}

	if orderAPI.createCalls != 0 {
		t.Errorf("expected no order creation call, got %d", orderAPI.createCalls)
	}
}

func TestPlaceOrderCreationFailureNeverClears(t *testing.T) {
	cartAPI := &fakeCartAPI{}
	orderAPI := &fakeOrderAPI{createErr: errors.New("backend down")}
	svc, cache := newService(t, cartAPI, orderAPI, &fakeClearQueue{}, lineItem())

	_, err := svc.PlaceOrder(context.Background(), order.CreateRequest{AddressID: "a1"})
	if err == nil {
		t.Fatal("expected placement to fail")
	}

	if cartAPI.clearCalls != 0 {
		t.Errorf("cart clear must never run after a failed order, got %d calls", cartAPI.clearCalls)
	}
	if cache.Len() == 0 {
		t.Error("the local cart must survive a failed order")
	}
}

func TestPlaceOrderSuccessClearsEverything(t *testing.T) {
	cartAPI := &fakeCartAPI{}
	orderAPI := &fakeOrderAPI{created: order.Order{ID: "o1", Status: order.StatusPending}}
	svc, cache := newService(t, cartAPI, orderAPI, &fakeClearQueue{}, lineItem())

	result, err := svc.PlaceOrder(context.Background(), order.CreateRequest{AddressID: "a1"})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if result.Order.ID != "o1" {
		t.Errorf("unexpected order: %+v", result.Order)
	}
	if !result.CartCleared || result.Warning != "" {
		t.Errorf("expected clean result, got %+v", result)
	}
	if cartAPI.clearCalls == 0 {
		t.Error("expected the remote cart to be cleared")
	}
	if cache.Len() != 0 {
		t.Error("expected the local mirror to be cleared")
	}
}

func TestPlaceOrderClearFailureQueuesAndWarns(t *testing.T) {
	cartAPI := &fakeCartAPI{clearErr: errors.New("clear failed")}
	orderAPI := &fakeOrderAPI{created: order.Order{ID: "o2"}}
	queue := &fakeClearQueue{}
	svc, cache := newService(t, cartAPI, orderAPI, queue, lineItem())

	result, err := svc.PlaceOrder(context.Background(), order.CreateRequest{AddressID: "a1"})
	if err != nil {
		t.Fatalf("a failed clear must not fail the placement: %v", err)
	}

	if result.CartCleared {
		t.Error("expected CartCleared=false")
	}
	if result.Warning == "" {
		t.Error("expected a user-visible warning")
	}
	if len(queue.inserted) != 1 {
		t.Fatalf("expected one queued clear, got %d", len(queue.inserted))
	}
	if queue.inserted[0].OrderID != "o2" {
		t.Errorf("queued clear references wrong order: %+v", queue.inserted[0])
	}
	if cache.Len() != 0 {
		t.Error("the local mirror must be dropped once the order is placed")
	}
}
