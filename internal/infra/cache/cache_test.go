package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache[T any](t *testing.T, ttl time.Duration) (*TTL[T], *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newTTL[T](ttl, clock.now)
	t.Cleanup(c.Close)
	return c, clock
}

func TestTTL_SetGet(t *testing.T) {
	c, _ := newTestCache[map[string]int](t, time.Minute)

	c.Set("report:person", map[string]int{"alice": 70})
	got, ok := c.Get("report:person")
	require.True(t, ok)
	assert.Equal(t, 70, got["alice"])

	_, ok = c.Get("report:category")
	assert.False(t, ok)
}

func TestTTL_Expiry(t *testing.T) {
	c, clock := newTestCache[string](t, time.Minute)

	c.Set("k", "v")
	clock.advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must expire exactly at its deadline")

	c.removeExpired()
	assert.Equal(t, 0, c.Len())
}

func TestTTL_SetRestartsTTL(t *testing.T) {
	c, clock := newTestCache[int](t, time.Minute)

	c.Set("k", 1)
	clock.advance(50 * time.Second)
	c.Set("k", 2)
	clock.advance(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_DeleteAndPrefix(t *testing.T) {
	c, _ := newTestCache[int](t, time.Minute)

	c.Set("report:person", 1)
	c.Set("report:category", 2)
	c.Set("other", 3)

	c.Delete("other")
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, 2, c.DeletePrefix("report:"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.DeletePrefix("report:"))
}

func TestTTL_NonPositiveTTL(t *testing.T) {
	c := New[int](0)
	defer c.Close()
	assert.Equal(t, defaultTTL, c.ttl)

	c.Close() // idempotent
	c.Set("k", 1)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache[int](t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("report:person", i*j)
				c.Get("report:person")
				c.DeletePrefix("report:")
			}
		}(i)
	}
	wg.Wait()
}

func TestTTL_SetIfGeneration(t *testing.T) {
	c, _ := newTestCache[int](t, time.Minute)

	gen := c.Generation()
	require.True(t, c.SetIfGeneration("report:person", 1, gen))
	got, _ := c.Get("report:person")
	assert.Equal(t, 1, got)

	stale := c.Generation()
	assert.Zero(t, c.DeletePrefix("other:"), "nothing matched")
	assert.NotEqual(t, stale, c.Generation())

	assert.False(t, c.SetIfGeneration("report:person", 2, stale))
	got, _ = c.Get("report:person")
	assert.Equal(t, 1, got, "rejected value must not overwrite")

	c.Delete("report:person")
	assert.False(t, c.SetIfGeneration("report:person", 3, stale))
	_, ok := c.Get("report:person")
	assert.False(t, ok)

	assert.True(t, c.SetIfGeneration("report:person", 4, c.Generation()))
}
