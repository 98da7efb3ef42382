package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration) (*TTL[[]string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)}
	c := New[[]string](ttl, WithClock(clock.Now), WithCleanupInterval(time.Hour))
	t.Cleanup(c.Close)
	return c, clock
}

func TestTTL_GetSet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	_, ok := c.Get("user:1:suggestions")
	assert.False(t, ok)

	c.Set("user:1:suggestions", []string{"Milk"})
	got, ok := c.Get("user:1:suggestions")
	require.True(t, ok)
	assert.Equal(t, []string{"Milk"}, got)
	assert.Equal(t, 1, c.Len())
}

func TestTTL_Expiry(t *testing.T) {
	c, clock := newTestCache(t, 30*time.Minute)
	c.Set("k", []string{"Bread"})

	clock.Advance(29 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// Expired entries stay until swept.
	assert.Equal(t, 1, c.Len())
	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestTTL_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set("a", nil)
	c.Set("b", nil)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestTTL_DefaultTTL(t *testing.T) {
	c := New[int](0)
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestTTL_CloseTwice(t *testing.T) {
	c := New[int](time.Second)
	c.Close()
	assert.NotPanics(t, c.Close)
}

func TestTTL_Concurrent(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("k", []string{"x"})
				c.Get("k")
				c.Delete("k")
			}
		}()
	}
	wg.Wait()
}
