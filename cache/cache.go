// Package cache provides translation caches for fieldtl.CachedBackend.
package cache

import "context"

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a translation in the cache.
	Set(ctx context.Context, key string, value string) error
}

// EntryLister is implemented by caches whose contents can be listed for export.
type EntryLister interface {
	Entries(ctx context.Context) (map[string]string, error)
}
