package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryExpiresAndEvicts(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(clock.Now)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	data, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	clock.Advance(59 * time.Second)
	_, ok = m.Get(ctx, "k")
	assert.True(t, ok)

	// now - storedAt == ttl is already stale
	clock.Advance(time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryPerEntryTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(clock.Now)

	m.Set(ctx, "short", []byte("1"), time.Second)
	m.Set(ctx, "long", []byte("2"), time.Hour)
	clock.Advance(2 * time.Second)

	_, ok := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "long")
	assert.True(t, ok)
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	m.Set(ctx, "a", []byte("1"), time.Hour)
	m.Set(ctx, "b", []byte("2"), time.Hour)

	m.Invalidate(ctx, "a")
	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "b")
	assert.True(t, ok)

	m.Invalidate(ctx)
	assert.Equal(t, 0, m.Len())
	m.Invalidate(ctx)
	assert.Equal(t, 0, m.Len())
}

func TestRegistryInvalidateAll(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry(nil)
	campaigns := r.Named("campaigns")
	zones := r.Named("zones")
	assert.Same(t, campaigns, r.Named("campaigns"))

	campaigns.Set(ctx, "x", []byte("1"), time.Hour)
	zones.Set(ctx, "y", []byte("1"), time.Hour)
	r.InvalidateAll(ctx)

	_, ok := campaigns.Get(ctx, "x")
	assert.False(t, ok)
	_, ok = zones.Get(ctx, "y")
	assert.False(t, ok)
}
