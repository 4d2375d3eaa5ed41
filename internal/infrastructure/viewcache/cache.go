package viewcache

import (
	"sync"
	"time"
)

// Cache is a small TTL cache for rendered views (dashboard stats, listing
// data). Writers invalidate the affected keys so navigations after a
// mutation see fresh data; readers on the live feed never touch it.
type Cache struct {
	entries map[string]entry
	mutex   sync.RWMutex
	ttl     time.Duration
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	e, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.mutex.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mutex.Unlock()
}

func (c *Cache) Invalidate(keys ...string) {
	c.mutex.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mutex.Unlock()
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup() {
	c.mutex.Lock()
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mutex.Unlock()
}

// StartCleanupRoutine prunes expired entries periodically.
func (c *Cache) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			c.Cleanup()
		}
	}()
}
