package fieldtl

import (
	"context"
	"sync"
	"testing"
)

type mapCache struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value string) error {
	if c.failSet {
		return &CacheError{Message: "read only"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestCachedBackend(t *testing.T) {
	inner := &recordingBackend{}
	cache := newMapCache()
	backend := NewCachedBackend(inner, cache, quietLogger())

	opts := mockOptions(FormatPlain)
	ctx := context.Background()

	got, err := backend.Translate(ctx, "Hello", opts)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "T Hello" {
		t.Errorf("got %q", got)
	}

	// Same text with different padding is served from the cache.
	got, err = backend.Translate(ctx, "  Hello\n", opts)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "  T Hello\n" {
		t.Errorf("got %q, want cached value with original padding", got)
	}
	if len(inner.calls) != 1 {
		t.Errorf("Expected 1 backend call, got %d", len(inner.calls))
	}

	// A different target locale is a different entry.
	opts.TargetLocale = "fr"
	if _, err := backend.Translate(ctx, "Hello", opts); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(inner.calls) != 2 {
		t.Errorf("Expected 2 backend calls, got %d", len(inner.calls))
	}
	if len(cache.data) != 2 {
		t.Errorf("Expected 2 cache entries, got %d", len(cache.data))
	}
}

func TestCachedBackend_ErrorsNotCached(t *testing.T) {
	inner := &recordingBackend{failOn: 1}
	cache := newMapCache()
	backend := NewCachedBackend(inner, cache, quietLogger())

	if _, err := backend.Translate(context.Background(), "Hello", mockOptions(FormatPlain)); err == nil {
		t.Fatal("Expected error")
	}
	if len(cache.data) != 0 {
		t.Error("Failed translations should not be cached")
	}
}

func TestCachedBackend_SetFailureIgnored(t *testing.T) {
	cache := newMapCache()
	cache.failSet = true
	backend := NewCachedBackend(&recordingBackend{}, cache, quietLogger())

	got, err := backend.Translate(context.Background(), "Hello", mockOptions(FormatPlain))
	if err != nil {
		t.Fatalf("Cache write failure should not fail the call: %v", err)
	}
	if got != "T Hello" {
		t.Errorf("got %q", got)
	}
}

func TestCachedBackend_InEngine(t *testing.T) {
	inner := &recordingBackend{}
	cached := NewCachedBackend(inner, newMapCache(), quietLogger())
	engine := newTestEngine(cached)

	input := []any{"Hello", "Hello", "World"}
	for i := range input {
		if _, err := engine.Translate(context.Background(), input[i], mockOptions(FormatPlain)); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
	}

	if len(inner.calls) != 2 {
		t.Errorf("Expected 2 backend calls, got %d", len(inner.calls))
	}
}

func TestCachedBackend_KeyedByFormatAndModel(t *testing.T) {
	inner := &recordingBackend{}
	backend := NewCachedBackend(inner, newMapCache(), quietLogger())
	ctx := context.Background()

	withModel := func(format Format, model string) TranslationOptions {
		opts := mockOptions(format)
		opts.Service = ServiceOpenAI
		opts.OpenAI = DefaultOpenAIOptions()
		opts.OpenAI.Model = model
		return opts
	}

	for _, opts := range []TranslationOptions{
		withModel(FormatSlug, "gpt-4o"),
		withModel(FormatPlain, "gpt-4o"),
		withModel(FormatPlain, "gpt-4o-mini"),
		withModel(FormatPlain, "gpt-4o"),
	} {
		if _, err := backend.Translate(ctx, "Summer sale", opts); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
	}

	if len(inner.calls) != 3 {
		t.Errorf("backend calls = %d, want 3 (only the repeated plain/gpt-4o call is cached)", len(inner.calls))
	}
}
