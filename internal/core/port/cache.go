package port

import (
	"context"
	"time"
)

// Cache is a key/value store with a TTL per entry. Values are opaque bytes;
// callers encode them. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key if it is younger than its TTL.
	// A stale entry is evicted and reported as missing.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	// Invalidate removes the given keys, or every entry when none are given.
	Invalidate(ctx context.Context, keys ...string)
}
