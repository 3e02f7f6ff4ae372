package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

type switchableTokens struct {
	mu    sync.Mutex
	token string
}

func (s *switchableTokens) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token, s.token != ""
}

func (s *switchableTokens) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func TestGetCartAttachesBearer(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{token: "tok-123"})
	if _, err := client.GetCart(context.Background()); err != nil {
		t.Fatalf("GetCart: %v", err)
	}

	if auth := gotAuth.Load(); auth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %v", auth)
	}
}

func TestGetCartSkippedWithoutToken(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{})
	_, err := client.GetCart(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request without a token, got %d", calls.Load())
	}
}

func TestGetCartMapsCompositeIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"itemId":"m1","name":"Dal","price":4.5,"quantity":2,"size":"Half"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{token: "tok"})
	items, err := client.GetCart(context.Background())
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].CartItemID != "m1_Half" {
		t.Errorf("expected composite id m1_Half, got %s", items[0].CartItemID)
	}
	if items[0].PriceCents != 450 {
		t.Errorf("expected 450 cents, got %d", items[0].PriceCents)
	}
}

func TestMutationInvalidatesCachedRead(t *testing.T) {
	var gets atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{token: "tok"})
	ctx := context.Background()

	// Two reads, one fetch: the second is served from cache.
	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if gets.Load() != 1 {
		t.Fatalf("expected one fetch before mutation, got %d", gets.Load())
	}

	if err := client.AddItem(ctx, AddItemRequest{MenuItemID: "m1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// The mutation invalidated the cache, so this read refetches.
	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if gets.Load() != 2 {
		t.Errorf("expected refetch after mutation, got %d fetches", gets.Load())
	}
}

func TestCachedCartNotServedAfterSignOut(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"itemId":"m1","name":"Dal","price":4.5,"quantity":2,"size":"Half"}]`))
	}))
	defer srv.Close()

	tokens := &switchableTokens{token: "tok"}
	client := NewClient(srv.URL, time.Second, tokens)
	ctx := context.Background()

	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}

	tokens.set("")

	items, err := client.GetCart(ctx)
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after sign-out, got err=%v items=%v", err, items)
	}
	if calls.Load() != 1 {
		t.Errorf("expected no request after sign-out, got %d", calls.Load())
	}
}

func TestCachedCartScopedToSession(t *testing.T) {
	var gets atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	tokens := &switchableTokens{token: "tok-a"}
	client := NewClient(srv.URL, time.Second, tokens)
	ctx := context.Background()

	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}

	// A different session must never see the previous session's cart.
	tokens.set("tok-b")

	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if gets.Load() != 2 {
		t.Errorf("expected a fresh fetch for the new session, got %d fetches", gets.Load())
	}
}

func TestCatalogIsPublic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("catalog request must not carry authorization")
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, staticTokens{token: "tok"})
	if _, err := client.Menu(context.Background()); err != nil {
		t.Fatalf("Menu: %v", err)
	}
}
