package cache

import (
	"context"
	"sync"
	"time"
)

// TTLCache is a small in-memory cache with per-entry expiry. Instances are
// passed explicitly to the components that need them; there is no package
// level singleton. Safe for concurrent use.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   func() time.Time
}

type entry struct {
	value     interface{}
	timestamp time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   time.Now,
	}
}

// Get returns the cached value for key, or false if absent or expired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.clock().Sub(e.timestamp) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its expiry.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, timestamp: c.clock()}
	c.mu.Unlock()
}

// InvalidateKey removes a single entry.
func (c *TTLCache) InvalidateKey(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry.
func (c *TTLCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Refresh loads a fresh value via loader, stores it, and returns it. On
// loader failure the stale entry (if any) is left in place and the error is
// returned.
func (c *TTLCache) Refresh(ctx context.Context, key string, loader func(context.Context) (interface{}, error)) (interface{}, error) {
	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, value)
	return value, nil
}

// GetOrLoad returns the cached value for key, falling back to loader on a
// miss. Concurrent misses may invoke loader more than once; the last write
// wins, which is acceptable for idempotent loads.
func (c *TTLCache) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	return c.Refresh(ctx, key, loader)
}

// Sweep removes expired entries. Intended to be called periodically from a
// background goroutine.
func (c *TTLCache) Sweep() {
	now := c.clock()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper launches a goroutine sweeping expired entries at the given
// interval until ctx is cancelled.
func (c *TTLCache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
