package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// failingDel answers SCAN with a fixed page and fails every DEL, without
// touching the network.
type failingDel struct {
	keys    []string
	deleted int
}

func (h *failingDel) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no network in tests")
	}
}

func (h *failingDel) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.ScanCmd:
			c.SetVal(h.keys, 0)
			return nil
		case *redis.IntCmd:
			if cmd.Name() == "del" {
				h.deleted++
				err := errors.New("READONLY replica")
				c.SetErr(err)
				return err
			}
		}
		return next(ctx, cmd)
	}
}

func (h *failingDel) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newFailingRedis(t *testing.T, keys ...string) (*Redis, *failingDel, *bytes.Buffer) {
	t.Helper()
	rc := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0", MaxRetries: -1})
	t.Cleanup(func() { _ = rc.Close() })
	hook := &failingDel{keys: keys}
	rc.AddHook(hook)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewRedis(rc, "mesa-admin:", logger), hook, &logs
}

func TestRedisInvalidateLogsDeleteFailures(t *testing.T) {
	r, hook, logs := newFailingRedis(t)

	r.Invalidate(context.Background(), "campaigns")
	assert.Equal(t, 1, hook.deleted)
	assert.Contains(t, logs.String(), "cache delete failed")
}

func TestRedisClearAllLogsDeleteFailures(t *testing.T) {
	r, hook, logs := newFailingRedis(t, "mesa-admin:a", "mesa-admin:b")

	r.Invalidate(context.Background())
	assert.Equal(t, 1, hook.deleted)
	assert.Contains(t, logs.String(), "cache delete failed")
	assert.Contains(t, logs.String(), "READONLY replica")
	assert.NotContains(t, logs.String(), "cache clear failed")
}
