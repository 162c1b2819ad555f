package fieldtl

import (
	"context"
	"log/slog"
)

// TranslationCache stores backend results by key.
type TranslationCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CachedBackend serves repeated texts from a cache and stores every fresh
// backend result. Cache write failures are logged and otherwise ignored.
type CachedBackend struct {
	backend Backend
	cache   TranslationCache
	logger  *slog.Logger
}

// NewCachedBackend wraps backend with cache. A nil logger uses slog.Default().
func NewCachedBackend(backend Backend, cache TranslationCache, logger *slog.Logger) *CachedBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedBackend{
		backend: backend,
		cache:   cache,
		logger:  logger,
	}
}

// Translate implements Backend.
func (b *CachedBackend) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	key := CacheKey(HashText(text), opts)

	if cached, ok := b.cache.Get(ctx, key); ok {
		return preserveWhitespace(text, cached), nil
	}

	translated, err := b.backend.Translate(ctx, text, opts)
	if err != nil {
		return "", err
	}

	if err := b.cache.Set(ctx, key, translated); err != nil {
		b.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return translated, nil
}

// Verify CachedBackend implements Backend
var _ Backend = (*CachedBackend)(nil)
