package pendingclear

import (
	"time"
)

// PendingClear represents a remote cart clear that failed after a
// successful order creation and is waiting to be retried.
type PendingClear struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	RetryCount  int       `json:"retryCount"`
	MaxRetries  int       `json:"maxRetries"`
	LastError   string    `json:"lastError"`
	CreatedAt   time.Time `json:"createdAt"`
	NextRetryAt time.Time `json:"nextRetryAt"`
}
