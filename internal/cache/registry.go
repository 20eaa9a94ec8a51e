package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mesa-admin/internal/core/port"
)

// Registry owns every named cache of a client. It is created by the
// composition root and handed to services, so logout can drop all cached
// data at once.
type Registry struct {
	mu     sync.Mutex
	caches map[string]port.Cache
	create func(name string) port.Cache
}

// NewMemoryRegistry returns a registry of in-process caches.
func NewMemoryRegistry(now func() time.Time) *Registry {
	return &Registry{
		caches: make(map[string]port.Cache),
		create: func(string) port.Cache { return NewMemory(now) },
	}
}

// NewRedisRegistry returns a registry whose caches share one Redis client,
// each under prefix+name+":".
func NewRedisRegistry(rc *redis.Client, prefix string, logger *slog.Logger) *Registry {
	return &Registry{
		caches: make(map[string]port.Cache),
		create: func(name string) port.Cache { return NewRedis(rc, prefix+name+":", logger) },
	}
}

// Named returns the cache called name, creating it on first use.
func (r *Registry) Named(name string) port.Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caches[name]
	if !ok {
		c = r.create(name)
		r.caches[name] = c
	}
	return c
}

// InvalidateAll clears every cache handed out so far.
func (r *Registry) InvalidateAll(ctx context.Context) {
	r.mu.Lock()
	caches := make([]port.Cache, 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.mu.Unlock()

	for _, c := range caches {
		c.Invalidate(ctx)
	}
}
