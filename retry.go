package fieldtl

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryConfig controls how RetryableBackend retries a single leaf.
type RetryConfig struct {
	MaxRetries int           // attempts after the first one
	BaseDelay  time.Duration // delay before the first retry, doubled each time
	MaxDelay   time.Duration // upper bound for any single delay, Retry-After included
}

// DefaultRetryConfig returns the retry settings used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// delay returns how long to wait before retry number attempt+1. A hint from
// the backend replaces the exponential delay.
func (c RetryConfig) delay(attempt int, hint time.Duration) time.Duration {
	d := hint
	if d <= 0 {
		d = c.BaseDelay << attempt
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// RetryFunc is one attempt of a retried call.
type RetryFunc[T any] func(ctx context.Context) (T, error)

// WithRetry calls fn until it succeeds, fails with an error IsRetryable
// rejects, or runs out of attempts. The last error is returned as is.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= cfg.MaxRetries || !IsRetryable(err) {
			return zero, err
		}

		timer := time.NewTimer(cfg.delay(attempt, retryAfter(err)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether err is a BackendError marked retryable.
// Cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Retryable
	}
	return false
}

func retryAfter(err error) time.Duration {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.RetryAfter
	}
	return 0
}

// RetryableBackend retries transient backend failures for one leaf. The
// engine itself never retries; wrap the backend when transient failures
// should be absorbed.
type RetryableBackend struct {
	backend Backend
	config  RetryConfig
	logger  *slog.Logger
}

// NewRetryableBackend wraps backend with cfg.
func NewRetryableBackend(backend Backend, cfg RetryConfig) *RetryableBackend {
	return &RetryableBackend{
		backend: backend,
		config:  cfg,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger retries are reported to.
func (b *RetryableBackend) WithLogger(logger *slog.Logger) *RetryableBackend {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Translate implements Backend.
func (b *RetryableBackend) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	attempt := 0
	return WithRetry(ctx, b.config, func(ctx context.Context) (string, error) {
		if attempt > 0 {
			b.logger.Debug("retrying backend call", "service", opts.Service, "attempt", attempt)
		}
		attempt++
		return b.backend.Translate(ctx, text, opts)
	})
}

// Verify RetryableBackend implements Backend
var _ Backend = (*RetryableBackend)(nil)
