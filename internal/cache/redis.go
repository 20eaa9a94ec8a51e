package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries in a Redis database under a key prefix so that cached
// lists survive between short-lived CLI processes. Redis expires entries on
// its own; errors are logged and treated as misses.
type Redis struct {
	rc     *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis returns a cache writing keys as prefix+key.
func NewRedis(rc *redis.Client, prefix string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{rc: rc, prefix: prefix, logger: logger}
}

const scanBatch = 100

// Get returns the entry under key. Misses and errors both report false.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.rc.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("cache get failed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return data, true
}

// Set stores data under key with ttl. A non-positive ttl stores nothing.
func (r *Redis) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.rc.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Invalidate deletes keys, or every key under the prefix when none are
// given.
func (r *Redis) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) > 0 {
		full := make([]string, len(keys))
		for i, k := range keys {
			full[i] = r.prefix + k
		}
		r.del(ctx, full)
		return
	}

	iter := r.rc.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			r.del(ctx, batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		r.del(ctx, batch)
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cache clear failed", slog.String("prefix", r.prefix), slog.Any("error", err))
	}
}

func (r *Redis) del(ctx context.Context, keys []string) {
	if err := r.rc.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache delete failed", slog.Int("keys", len(keys)), slog.Any("error", err))
	}
}
