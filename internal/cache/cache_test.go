package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/definition"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache_SetThenGet(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[string, definition.Set](0, WithClock(clock.Now))
	defs := definition.Set{{Name: "logger"}, {Name: "database", Dependencies: []string{"logger"}}}

	c.Set("k", defs)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, defs, got)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestTTLCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[string, definition.Set](time.Minute, WithClock(clock.Now))
	defs := definition.Set{{Name: "logger"}}

	c.Set("k", defs)

	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should still be valid before the TTL elapses")

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must expire exactly at expiresAt")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")

	// A fresh set after expiry behaves normally.
	c.Set("k", defs)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, defs, got)
}

func TestTTLCache_SetOverwritesAndRestartsLifetime(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[string, int](time.Minute, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTLCache_MissingKey(t *testing.T) {
	c := NewTTLCache[string, int](time.Minute)

	got, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestTTLCache_DeleteAndClear(t *testing.T) {
	c := NewTTLCache[string, int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := NewTTLCache[int, int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
