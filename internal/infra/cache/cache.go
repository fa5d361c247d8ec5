// Package cache holds computed reports in memory between writes.
package cache

import (
	"strings"
	"sync"
	"time"
)

const (
	defaultTTL    = time.Minute
	minSweepEvery = time.Second
)

type item[T any] struct {
	value    T
	deadline time.Time
}

func (it item[T]) expired(now time.Time) bool {
	return !now.Before(it.deadline)
}

// TTL is a concurrency-safe map whose entries expire after a fixed time to
// live. A background sweeper drops expired entries until Close is called.
type TTL[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	gen   uint64 // bumped by every Delete and DeletePrefix
	ttl   time.Duration
	now   func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// New returns a cache whose entries live for ttl (one minute when ttl is
// not positive).
func New[T any](ttl time.Duration) *TTL[T] {
	return newTTL[T](ttl, time.Now)
}

func newTTL[T any](ttl time.Duration, now func() time.Time) *TTL[T] {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &TTL[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
		now:   now,
		done:  make(chan struct{}),
	}
	go c.sweep(max(ttl/2, minSweepEvery))
	return c
}

// Get returns the live value stored under key.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired(c.now()) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, replacing any previous entry and restarting
// its time to live.
func (c *TTL[T]) Set(key string, value T) {
	deadline := c.now().Add(c.ttl)

	c.mu.Lock()
	c.items[key] = item[T]{value: value, deadline: deadline}
	c.mu.Unlock()
}

// SetIfGeneration stores value only if nothing was deleted since gen was
// read from Generation. It reports whether the value was stored.
func (c *TTL[T]) SetIfGeneration(key string, value T, gen uint64) bool {
	deadline := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.items[key] = item[T]{value: value, deadline: deadline}
	return true
}

// Generation identifies the current invalidation epoch.
func (c *TTL[T]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Delete drops key.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.gen++
	c.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix and returns how many
// entries were removed. It starts a new generation even when nothing
// matched, so values computed before the call cannot be stored afterwards.
func (c *TTL[T]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++

	n := 0
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Len counts stored entries, including expired ones not yet swept.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper. Get and Set keep working afterwards.
func (c *TTL[T]) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *TTL[T]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *TTL[T]) removeExpired() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
		}
	}
}
