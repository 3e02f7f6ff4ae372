package clearqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/plateful/ordering-gateway/internal/dal/localstore"
	"github.com/plateful/ordering-gateway/internal/service/models/pendingclear"
)

const storeKey = "pending_clears"

// Repository persists the queue of remote cart clears that failed
// after order creation. It survives restarts through the local store
// so a placed order never silently keeps its cart.
type Repository struct {
	mu    sync.Mutex
	store *localstore.Store
}

func NewRepository(store *localstore.Store) *Repository {
	return &Repository{store: store}
}

// Insert adds a pending clear to the queue.
func (r *Repository) Insert(ctx context.Context, pc pendingclear.PendingClear) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue, err := r.load()
	if err != nil {
		return err
	}
	queue = append(queue, pc)

	return r.save(queue)
}

// GetPending returns queued clears whose retry time has come, oldest
// first, up to limit.
func (r *Repository) GetPending(ctx context.Context, limit int) ([]pendingclear.PendingClear, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue, err := r.load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pending := make([]pendingclear.PendingClear, 0, limit)
	for _, pc := range queue {
		if pc.NextRetryAt.After(now) {
			continue
		}
		pending = append(pending, pc)
		if len(pending) == limit {
			break
		}
	}

	return pending, nil
}

// Delete removes a pending clear after it succeeded or gave up.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue, err := r.load()
	if err != nil {
		return err
	}

	kept := queue[:0]
	for _, pc := range queue {
		if pc.ID != id {
			kept = append(kept, pc)
		}
	}

	return r.save(kept)
}

// UpdateRetry records a failed attempt and schedules the next one.
func (r *Repository) UpdateRetry(
	ctx context.Context,
	id string,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue, err := r.load()
	if err != nil {
		return err
	}

	for i := range queue {
		if queue[i].ID == id {
			queue[i].RetryCount = retryCount
			queue[i].LastError = lastError
			queue[i].NextRetryAt = nextRetryAt

			return r.save(queue)
		}
	}

	return fmt.Errorf("pending clear %s not found", id)
}

func (r *Repository) load() ([]pendingclear.PendingClear, error) {
	var queue []pendingclear.PendingClear
	if err := r.store.Get(storeKey, &queue); err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return queue, nil
}

func (r *Repository) save(queue []pendingclear.PendingClear) error {
	return r.store.Set(storeKey, queue)
}
