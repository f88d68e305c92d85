package utils

import (
	"context"
	"strings"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
// The delay before retry N is BaseDelay * N, growing linearly and
// deterministically so callers can reason about the worst-case wall time.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration // 0 means uncapped
	Timeout     time.Duration // per-attempt timeout, 0 means none
	// RetryIf decides whether a failed attempt may be retried.
	// When nil, RetryableErrors substring patterns are used instead.
	RetryIf         func(error) bool
	RetryableErrors []string
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// DefaultRetryConfig returns a RetryConfig with sensible default values.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Timeout:     90 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"connection reset",
			"connection refused",
			"overloaded",
			"unavailable",
			"status 5",
		},
	}
}

// IsRetryableError checks if the given error is retryable based on defined patterns.
func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(errMsg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func (c RetryConfig) retryable(err error) bool {
	if c.RetryIf != nil {
		return c.RetryIf(err)
	}
	return IsRetryableError(err, c.RetryableErrors)
}

// WithRetry executes the given operation with retries based on the provided config.
// A non-retryable failure returns immediately without sleeping; exhausting the
// attempt budget returns the last error.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if config.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		}

		result, err := operation(attemptCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return result, nil
		}

		lastErr = err

		// If this was the last attempt, don't wait or check retryability
		if attempt == config.MaxAttempts {
			break
		}

		if !config.retryable(err) {
			break
		}

		delay := config.BaseDelay * time.Duration(attempt)
		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		// Wait for the delay or context cancellation
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
