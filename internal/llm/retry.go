package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryConfig configures bounded retry with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           // Total attempts, including the first call
	InitialInterval time.Duration // Wait before the first retry
	MaxInterval     time.Duration // Cap on the backoff interval
}

// DefaultRetryConfig returns the production retry policy: three attempts
// total, waiting 1s then 2s between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     8 * time.Second,
	}
}

// overloadMarkers are matched case-insensitively against err.Error() to
// detect a transient "temporarily unavailable" condition.
//
// NOTE: string matching is used because the Gemini SDK does not expose
// typed errors for transient failures. Re-evaluate if the SDK adds
// structured error types.
var overloadMarkers = []string{"503", "unavailable", "overloaded"}

// TransientOverload reports whether err signals transient model overload
// and is therefore worth retrying.
func TransientOverload(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range overloadMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do runs fn up to cfg.MaxAttempts times, sleeping with exponential backoff
// between attempts. Only errors accepted by the retryable predicate trigger
// a retry; any other error propagates immediately. The wait respects ctx
// cancellation.
func Do[T any](ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := cfg.InitialInterval

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("canceled during retry wait: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, cfg.MaxInterval)
		}
	}

	return zero, fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
