// Package cache provides a small thread-safe TTL cache used to hold computed
// suggestions between requests.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used when a cache is created with a zero TTL.
const DefaultTTL = 30 * time.Minute

const defaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	expiry time.Time
	value  V
}

// TTL is a map whose entries expire after a fixed duration. A background
// goroutine drops expired entries until Close is called.
type TTL[V any] struct {
	now       func() time.Time
	entries   map[string]entry[V]
	stopCh    chan struct{}
	ttl       time.Duration
	mu        sync.RWMutex
	closeOnce sync.Once
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cleanupInterval = d
		}
	}
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration, opts ...Option) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := options{now: time.Now, cleanupInterval: defaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	c := &TTL[V]{
		now:     o.now,
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go c.cleanup(o.cleanupInterval)
	return c
}

// Get returns the value stored under key if it has not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiry) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any earlier value.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiry: c.now().Add(c.ttl)}
}

// Delete removes key.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the entry lifetime.
func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *TTL[V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCh) })
}

func (c *TTL[V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *TTL[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, key)
		}
	}
}
