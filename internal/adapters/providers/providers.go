// Package providers fetches raw listings from the two business-directory
// APIs. Pagination, rate limiting and auth live here, at the collaborator
// boundary; the pipeline core never performs network I/O.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/brewrank/pkg/logger"
)

// Shared collector configuration constants.
const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// retrier executes an operation with exponential back-off.
type retrier struct {
	maxAttempts int
	baseDelay   time.Duration
	log         logger.Logger
}

// do runs fn, retrying with doubled delay between attempts. The context
// aborts waits between attempts.
func (r retrier) do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := r.baseDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < r.maxAttempts {
			r.log.Warn(ctx, "request failed; retrying",
				logger.String("operation", operation),
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, r.maxAttempts, lastErr)
}

// sleep waits for d unless the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}
