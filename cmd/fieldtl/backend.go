package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/cache"
	"github.com/ZaguanLabs/fieldtl/codec"
	"github.com/ZaguanLabs/fieldtl/config"
	"github.com/ZaguanLabs/fieldtl/provider"
)

// buildBackend assembles the backend for cfg.Service. Wrapping order, inner
// first: provider, rate limit, retry, metrics, cache. Cache hits therefore
// neither wait for the limiter nor count as backend calls.
func buildBackend(ctx context.Context, cfg *config.Config, metrics *fieldtl.BackendMetrics, logger *slog.Logger) (fieldtl.Backend, func() error, error) {
	service := fieldtl.Service(cfg.Service)
	if service != fieldtl.ServiceMock && cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("API key required for %s (--api-key, %s or a service-specific variable)", service, config.EnvAPIKey)
	}

	backend, err := provider.New(provider.Config{
		Service: service,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.RateLimit.RequestsPerMinute > 0 || cfg.RateLimit.CharactersPerMinute > 0 {
		backend = fieldtl.NewRateLimitedBackend(backend, cfg.RateLimitConfig())
	}
	if cfg.Retry.MaxRetries > 0 {
		backend = fieldtl.NewRetryableBackend(backend, cfg.RetryConfig()).WithLogger(logger)
	}
	if metrics != nil {
		backend = fieldtl.NewInstrumentedBackend(backend, metrics)
	}

	store, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		backend = fieldtl.NewCachedBackend(backend, store, logger)
	}

	return backend, closeCache, nil
}

func noopClose() error { return nil }

// openCache returns the configured cache, or nil when caching is off.
func openCache(ctx context.Context, cfg *config.Config) (cache.TranslationCache, func() error, error) {
	switch cfg.Cache.Type {
	case config.CacheMemory:
		return cache.NewInMemoryCache(cfg.Cache.TTL, cache.WithMaxEntries(cfg.Cache.MaxEntries)), noopClose, nil
	case config.CacheRedis:
		rc, err := openRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	}
	return nil, noopClose, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*cache.RedisCache, error) {
	if cfg.Cache.RedisURL == "" {
		return nil, fmt.Errorf("no Redis URL configured (cache.redis_url or %s)", config.EnvRedisURL)
	}
	return cache.NewRedisCache(ctx, cache.RedisConfig{
		URL:       cfg.Cache.RedisURL,
		TTL:       cfg.Cache.TTL,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
}

// newEngine builds an engine with both markup codecs registered.
func newEngine(cfg *config.Config, backend fieldtl.Backend, logger *slog.Logger) *fieldtl.Engine {
	opts := []fieldtl.EngineOption{
		fieldtl.WithCodec(codec.NewHTML()),
		fieldtl.WithCodec(codec.NewMarkdown()),
		fieldtl.WithLogger(logger),
	}
	if backend != nil {
		opts = append(opts, fieldtl.WithBackend(fieldtl.Service(cfg.Service), backend))
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, fieldtl.WithMaxDepth(cfg.MaxDepth))
	}
	return fieldtl.NewEngine(opts...)
}
