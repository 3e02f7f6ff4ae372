package iclearqueue

import (
	"context"
	"time"

	"github.com/plateful/ordering-gateway/internal/service/models/pendingclear"
)

// IClearQueue defines the interface for the pending cart-clear queue.
type IClearQueue interface {
	// Insert adds a pending clear to the queue
	Insert(ctx context.Context, pc pendingclear.PendingClear) error

	// GetPending retrieves clears that are ready for retry
	GetPending(ctx context.Context, limit int) ([]pendingclear.PendingClear, error)

	// Delete removes a clear from the queue after success or give-up
	Delete(ctx context.Context, id string) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id string,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
