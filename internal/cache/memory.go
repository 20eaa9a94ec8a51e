// Package cache provides the TTL caches used by the admin client.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data     []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory is an in-process TTL map. Entries are evicted lazily when read
// after expiry; there is no size bound.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty cache. A nil now uses time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: make(map[string]entry), now: now}
}

// Get returns the entry under key, evicting it when its ttl has passed.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) >= e.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores data under key, timestamped now.
func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{data: data, storedAt: m.now(), ttl: ttl}
}

// Invalidate removes keys, or every entry when none are given.
func (m *Memory) Invalidate(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(keys) == 0 {
		m.entries = make(map[string]entry)
		return
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
