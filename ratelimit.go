package fieldtl

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

// RateLimitConfig caps backend usage. Machine translation services meter
// both requests and characters, so either budget can be set.
type RateLimitConfig struct {
	RequestsPerMinute   int // 0 disables the request budget
	BurstSize           int // requests allowed at once (default: RequestsPerMinute)
	CharactersPerMinute int // 0 disables the character budget
}

// RateLimiter is a token bucket. Tokens refill continuously up to the
// bucket size.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	size       float64
	perSecond  float64
	lastRefill time.Time
}

// NewRateLimiter returns a full bucket of size tokens that refills at
// perMinute tokens per minute. Non-positive values default to 60 per minute
// and a bucket of perMinute.
func NewRateLimiter(perMinute, size int) *RateLimiter {
	rate := float64(perMinute)
	if rate <= 0 {
		rate = 60
	}
	capacity := float64(size)
	if capacity <= 0 {
		capacity = rate
	}

	return &RateLimiter{
		tokens:     capacity,
		size:       capacity,
		perSecond:  rate / 60,
		lastRefill: time.Now(),
	}
}

// Wait blocks until one token is taken or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are taken or ctx is done. Requests larger than
// the bucket are capped at the bucket size so they cannot block forever.
// It sleeps only for the time the bucket needs to refill what is missing.
func (r *RateLimiter) WaitN(ctx context.Context, n int) error {
	cost := float64(n)
	if cost > r.size {
		cost = r.size
	}

	for {
		wait := r.reserve(cost)
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes cost tokens and returns 0, or returns how long until they are due.
func (r *RateLimiter) reserve(cost float64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= cost {
		r.tokens -= cost
		return 0
	}

	wait := time.Duration((cost - r.tokens) / r.perSecond * float64(time.Second))
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

// TryAcquire takes one token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill must be called with mu held.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.perSecond
	r.lastRefill = now
	if r.tokens > r.size {
		r.tokens = r.size
	}
}

// Available returns the current number of tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedBackend holds every leaf until both the request and the
// character budget allow it.
type RateLimitedBackend struct {
	backend    Backend
	requests   *RateLimiter
	characters *RateLimiter
}

// NewRateLimitedBackend wraps backend with the budgets in cfg.
func NewRateLimitedBackend(backend Backend, cfg RateLimitConfig) *RateLimitedBackend {
	b := &RateLimitedBackend{backend: backend}
	if cfg.RequestsPerMinute > 0 {
		b.requests = NewRateLimiter(cfg.RequestsPerMinute, cfg.BurstSize)
	}
	if cfg.CharactersPerMinute > 0 {
		b.characters = NewRateLimiter(cfg.CharactersPerMinute, cfg.CharactersPerMinute)
	}
	return b
}

// Translate implements Backend.
func (b *RateLimitedBackend) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	if b.requests != nil {
		if err := b.requests.Wait(ctx); err != nil {
			return "", rateLimitError(opts.Service, err)
		}
	}
	if b.characters != nil {
		if err := b.characters.WaitN(ctx, utf8.RuneCountInString(text)); err != nil {
			return "", rateLimitError(opts.Service, err)
		}
	}

	return b.backend.Translate(ctx, text, opts)
}

func rateLimitError(service Service, err error) error {
	return &BackendError{Service: service, Message: "rate limit wait cancelled", Cause: err}
}

// Verify RateLimitedBackend implements Backend
var _ Backend = (*RateLimitedBackend)(nil)
