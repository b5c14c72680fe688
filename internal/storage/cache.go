package storage

import (
	"fmt"
	"sync"
	"time"
)

// ttlCache is a small in-process cache with per-entry expiry and
// insertion-order eviction once full.
type ttlCache struct {
	maxSize int
	items   map[string]ttlItem
	order   []string
	mu      sync.RWMutex
}

type ttlItem struct {
	data      any
	expiresAt time.Time
}

func newTTLCache(maxSize int) *ttlCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &ttlCache{maxSize: maxSize, items: make(map[string]ttlItem)}
}

func (c *ttlCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.data, true
}

func (c *ttlCache) set(key string, data any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists {
		if len(c.items) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, key)
	}
	c.items[key] = ttlItem{data: data, expiresAt: time.Now().Add(ttl)}
}

func (c *ttlCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]ttlItem)
	c.order = nil
}

func (c *ttlCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// CachedStore wraps a Store and caches its read paths (History,
// LatestBefore) for a short TTL — a suite with many benchmarks ends up
// calling History/LatestBefore for the same (name, language) repeatedly
// within a single reporting pass, and this avoids re-querying SQLite for
// each one.
type CachedStore struct {
	Store
	cache *ttlCache
}

// NewCachedStore wraps store with a read cache holding up to cacheSize
// entries.
func NewCachedStore(store Store, cacheSize int) *CachedStore {
	return &CachedStore{Store: store, cache: newTTLCache(cacheSize)}
}

func (c *CachedStore) History(name, language string, limit int) ([]*Run, error) {
	key := fmt.Sprintf("history:%s:%s:%d", name, language, limit)
	if cached, ok := c.cache.get(key); ok {
		if runs, ok := cached.([]*Run); ok {
			return runs, nil
		}
	}
	runs, err := c.Store.History(name, language, limit)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, runs, 5*time.Minute)
	return runs, nil
}

func (c *CachedStore) LatestBefore(suite, name, language string, at time.Time) (*Run, error) {
	key := fmt.Sprintf("latest:%s:%s:%s:%d", suite, name, language, at.UnixNano())
	if cached, ok := c.cache.get(key); ok {
		if run, ok := cached.(*Run); ok {
			return run, nil
		}
	}
	run, err := c.Store.LatestBefore(suite, name, language, at)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, run, time.Minute)
	return run, nil
}

// SaveRun invalidates the read cache before delegating, since a fresh
// write changes the answer to any subsequent History/LatestBefore call.
func (c *CachedStore) SaveRun(r *Run) error {
	c.cache.clear()
	return c.Store.SaveRun(r)
}

// CacheSize reports the current number of cached entries.
func (c *CachedStore) CacheSize() int {
	return c.cache.size()
}
