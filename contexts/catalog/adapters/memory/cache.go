package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache is an in-memory cache store with the same surface as the redis
// adapter. TTLs are accepted and ignored; invalidation, not expiry, keeps
// entries correct.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	fail    error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// FailWith makes every cache operation return err until Heal is called,
// simulating an unavailable cache store.
func (c *Cache) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = err
}

func (c *Cache) Heal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fail != nil {
		return nil, false, c.fail
	}
	value, found := c.entries[key]
	if !found {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *Cache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Has reports whether a key is currently cached; test helper.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, found := c.entries[key]
	return found
}
