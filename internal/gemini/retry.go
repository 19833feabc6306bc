package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// Retry configuration constants
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// CalculateBackoff returns the backoff duration for a given attempt number
func CalculateBackoff(attempt int) time.Duration {
	backoff := InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * BackoffMultiplier)
		if backoff > MaxBackoff {
			backoff = MaxBackoff
			break
		}
	}
	return backoff
}

// backoffFor is swapped out by tests
var backoffFor = CalculateBackoff

// RetryableFunc is a function that can be retried
type RetryableFunc[T any] func() (T, error)

// WithRetry executes fn, retrying transient failures with exponential
// backoff. Any other error is returned immediately.
func WithRetry[T any](ctx context.Context, fn RetryableFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("operation cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = Classify(err)

		if !IsTransient(lastErr) {
			return zero, lastErr
		}

		if attempt < MaxRetryAttempts-1 {
			wait := backoffFor(attempt)
			logging.Debug("Retrying after transient failure", logging.Fields{
				"attempt": attempt + 1,
				"wait_ms": wait.Milliseconds(),
				"error":   lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}

	return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", MaxRetryAttempts, lastErr)
}
