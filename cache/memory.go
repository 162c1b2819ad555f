package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key      string
	value    string
	storedAt time.Time
}

// InMemoryCache is a process-local cache with optional TTL and size bound.
// When the bound is reached the least recently used entry is evicted.
// It is safe for concurrent use.
type InMemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front is most recently used
	items      map[string]*list.Element
	now        func() time.Time
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithMaxEntries bounds the cache to n entries. n <= 0 means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *InMemoryCache) {
		c.maxEntries = n
	}
}

// NewInMemoryCache creates a cache whose entries live for ttlSeconds.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		order: list.New(),
		items: make(map[string]*list.Element),
		now:   time.Now,
	}
	if ttlSeconds > 0 {
		c.ttl = time.Duration(ttlSeconds) * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key unless it is missing or expired.
func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	entry := el.Value.(*memoryEntry)
	if c.expired(entry, c.now()) {
		c.remove(el)
		return "", false
	}

	c.order.MoveToFront(el)
	return entry.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *InMemoryCache) Set(_ context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.storedAt = c.now()
		c.order.MoveToFront(el)
		return nil
	}

	c.items[key] = c.order.PushFront(&memoryEntry{key: key, value: value, storedAt: c.now()})
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.remove(c.order.Back())
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Entries returns all live entries.
func (c *InMemoryCache) Entries(_ context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	result := make(map[string]string, len(c.items))
	for key, el := range c.items {
		entry := el.Value.(*memoryEntry)
		if !c.expired(entry, now) {
			result[key] = entry.value
		}
	}
	return result, nil
}

// remove must be called with mu held.
func (c *InMemoryCache) remove(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.items, entry.key)
}

func (c *InMemoryCache) expired(entry *memoryEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.storedAt) > c.ttl
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
var _ EntryLister = (*InMemoryCache)(nil)
