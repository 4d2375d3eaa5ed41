package viewcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("dashboard")
	assert.False(t, ok)

	c.Set("dashboard", 42)
	value, ok := c.Get("dashboard")
	assert.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("dashboard", "stale soon")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("dashboard")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)

	c.Set("dashboard", 1)
	c.Set("list:foundItems", 2)
	c.Set("list:lostItems", 3)

	c.Invalidate("dashboard", "list:foundItems")

	_, ok := c.Get("dashboard")
	assert.False(t, ok)
	_, ok = c.Get("list:foundItems")
	assert.False(t, ok)
	_, ok = c.Get("list:lostItems")
	assert.True(t, ok)
}

func TestCleanupRemovesExpiredEntries(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	c.Cleanup()

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	assert.Empty(t, c.entries)
}
