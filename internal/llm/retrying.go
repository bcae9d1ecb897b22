package llm

import (
	"context"

	"github.com/periplo/periplo/internal/log"
)

// Retrying wraps a Generator with the transient-overload retry policy.
// Non-transient failures propagate immediately without retry.
type Retrying struct {
	inner  Generator
	cfg    RetryConfig
	logger log.Logger
}

// NewRetrying creates a retrying generator. A zero-value cfg uses
// DefaultRetryConfig.
func NewRetrying(inner Generator, cfg RetryConfig, logger log.Logger) *Retrying {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &Retrying{inner: inner, cfg: cfg, logger: logger}
}

// Generate calls the wrapped generator, retrying on transient overload.
func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	return Do(ctx, r.cfg, TransientOverload, func(ctx context.Context) (string, error) {
		text, err := r.inner.Generate(ctx, prompt)
		if err != nil && TransientOverload(err) {
			r.logger.Warn("model overloaded", "error", err)
		}
		return text, err
	})
}
