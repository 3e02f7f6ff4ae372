package clearqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/plateful/ordering-gateway/internal/service/models/pendingclear"
)

type fakeQueue struct {
	pending []pendingclear.PendingClear
	deleted []string
	retried []string
}

func (f *fakeQueue) Insert(ctx context.Context, pc pendingclear.PendingClear) error {
	f.pending = append(f.pending, pc)

	return nil
}

func (f *fakeQueue) GetPending(ctx context.Context, limit int) ([]pendingclear.PendingClear, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}

	return f.pending, nil
}

func (f *fakeQueue) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeQueue) UpdateRetry(ctx context.Context, id string, retryCount int, lastError string, nextRetryAt time.Time) error {
	f.retried = append(f.retried, id)

	return nil
}

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

func entry(id string, retryCount, maxRetries int) pendingclear.PendingClear {
	return pendingclear.PendingClear{
		ID:          id,
		OrderID:     "o-" + id,
		RetryCount:  retryCount,
		MaxRetries:  maxRetries,
		CreatedAt:   time.Now(),
		NextRetryAt: time.Now(),
	}
}

func TestProcessPendingDropsCompletedClears(t *testing.T) {
	queue := &fakeQueue{pending: []pendingclear.PendingClear{entry("c1", 0, 5)}}
	cartAPI := &fakeCartAPI{}
	w := NewWorker(queue, cartAPI)

	w.processPending(context.Background())

	if cartAPI.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", cartAPI.clearCalls)
	}
	if len(queue.deleted) != 1 || queue.deleted[0] != "c1" {
		t.Errorf("expected the completed clear dropped, got %v", queue.deleted)
	}
}

func TestProcessPendingLeavesEntryWithoutSession(t *testing.T) {
	queue := &fakeQueue{pending: []pendingclear.PendingClear{entry("c1", 0, 5)}}
	cartAPI := &fakeCartAPI{clearErr: restapi.ErrNoSession}
	w := NewWorker(queue, cartAPI)

	w.processPending(context.Background())

	if len(queue.deleted) != 0 || len(queue.retried) != 0 {
		t.Errorf("a sessionless clear must stay untouched, deleted=%v retried=%v",
			queue.deleted, queue.retried)
	}
}

func TestProcessPendingSchedulesRetryOnFailure(t *testing.T) {
	queue := &fakeQueue{pending: []pendingclear.PendingClear{entry("c1", 0, 5)}}
	cartAPI := &fakeCartAPI{clearErr: errors.New("backend down")}
	w := NewWorker(queue, cartAPI)

	w.processPending(context.Background())

	if len(queue.retried) != 1 || queue.retried[0] != "c1" {
		t.Errorf("expected a retry scheduled, got %v", queue.retried)
	}
	if len(queue.deleted) != 0 {
		t.Errorf("a retryable clear must not be dropped, got %v", queue.deleted)
	}
}

func TestProcessPendingGivesUpAtRetryCeiling(t *testing.T) {
	queue := &fakeQueue{pending: []pendingclear.PendingClear{entry("c1", 4, 5)}}
	cartAPI := &fakeCartAPI{clearErr: errors.New("backend down")}
	w := NewWorker(queue, cartAPI)

	w.processPending(context.Background())

	if len(queue.deleted) != 1 || queue.deleted[0] != "c1" {
		t.Errorf("expected the clear abandoned at the ceiling, got %v", queue.deleted)
	}
	if len(queue.retried) != 0 {
		t.Errorf("no further retry should be scheduled, got %v", queue.retried)
	}
}

func TestProcessPendingHonorsBatchSize(t *testing.T) {
	queue := &fakeQueue{pending: []pendingclear.PendingClear{
		entry("c1", 0, 5), entry("c2", 0, 5), entry("c3", 0, 5),
	}}
	cartAPI := &fakeCartAPI{}
	w := NewWorker(queue, cartAPI)
	w.batchSize = 2

	w.processPending(context.Background())

	if cartAPI.clearCalls != 2 {
		t.Errorf("expected the batch capped at 2, got %d clear calls", cartAPI.clearCalls)
	}
}
