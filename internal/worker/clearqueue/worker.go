package clearqueue

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/plateful/ordering-gateway/internal/dal/interfaces/icartapi"
	"github.com/plateful/ordering-gateway/internal/dal/interfaces/iclearqueue"
	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/spf13/viper"
)

// Worker drains the pending cart-clear queue: remote clears that
// failed right after order creation are retried here with exponential
// backoff until they succeed or hit their retry ceiling.
type Worker struct {
	clearQueue   iclearqueue.IClearQueue
	cartAPI      icartapi.ICartAPI
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new clear-queue worker.
func NewWorker(
	clearQueue iclearqueue.IClearQueue,
	cartAPI icartapi.ICartAPI,
) *Worker {
	pollIntervalSeconds := viper.GetInt("orders.clear_queue.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 15
	}

	batchSize := viper.GetInt("orders.clear_queue.batch_size")
	if batchSize == 0 {
		batchSize = 20
	}

	return &Worker{
		clearQueue:   clearQueue,
		cartAPI:      cartAPI,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start begins processing the pending clears.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Clear-queue worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Clear-queue worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Clear-queue worker stopped")

			return
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processPending retries the queued clears that are due.
func (w *Worker) processPending(ctx context.Context) {
	pending, err := w.clearQueue.GetPending(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to read pending cart clears", "error", err)

		return
	}

	if len(pending) == 0 {
		return
	}

	slog.Info("Processing pending cart clears", "count", len(pending))

	for _, pc := range pending {
		err := w.cartAPI.ClearCart(ctx)
		if err == nil {
			if derr := w.clearQueue.Delete(ctx, pc.ID); derr != nil {
				slog.Error("Failed to drop completed cart clear", "clear_id", pc.ID, "error", derr)
			} else {
				slog.Info("Remote cart cleared", "clear_id", pc.ID, "order_id", pc.OrderID)
			}

			continue
		}

		if errors.Is(err, restapi.ErrNoSession) {
			// No session to act with; leave the entry untouched until
			// the user signs back in.
			slog.Info("Skipping pending cart clear, no session", "clear_id", pc.ID)

			continue
		}

		newRetryCount := pc.RetryCount + 1
		if newRetryCount >= pc.MaxRetries {
			slog.Error("Giving up on pending cart clear",
				"clear_id", pc.ID,
				"order_id", pc.OrderID,
				"retry_count", newRetryCount,
				"error", err,
			)
			if derr := w.clearQueue.Delete(ctx, pc.ID); derr != nil {
				slog.Error("Failed to drop abandoned cart clear", "clear_id", pc.ID, "error", derr)
			}

			continue
		}

		backoffSeconds := math.Pow(2, float64(newRetryCount)) * 30 // 60s, 120s, 240s, etc.
		nextRetryAt := time.Now().Add(time.Duration(backoffSeconds) * time.Second)

		slog.Warn("Pending cart clear failed, will retry",
			"clear_id", pc.ID,
			"retry_count", newRetryCount,
			"next_retry", nextRetryAt,
			"error", err,
		)

		if uerr := w.clearQueue.UpdateRetry(ctx, pc.ID, newRetryCount, err.Error(), nextRetryAt); uerr != nil {
			slog.Error("Failed to update retry information", "clear_id", pc.ID, "error", uerr)
		}
	}
}
