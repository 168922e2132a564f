package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Fixed disables exponential growth, waiting BaseDelay between every
	// attempt. Used for the rate-limit backoff, which the upstream API
	// expects to be a constant interval.
	Fixed bool
	// RetryIf, when set, limits which errors are retried. A non-retryable
	// error is returned to the caller unwrapped and immediately.
	RetryIf func(error) bool
	Logger  *Logger
}

// Do executes fn, retrying failures according to the configured strategy.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if r.RetryIf != nil && !r.RetryIf(lastErr) {
			return lastErr
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
			if !r.Fixed {
				delay *= 2
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
