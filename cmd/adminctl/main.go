// Command adminctl is the command line admin client for the Mesa ads
// backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"mesa-admin/internal/adapter/api"
	"mesa-admin/internal/adapter/usecase"
	"mesa-admin/internal/cache"
	"mesa-admin/internal/cli"
	"mesa-admin/internal/config"
	"mesa-admin/internal/config/configs"
	"mesa-admin/internal/logging"
	"mesa-admin/internal/metrics"
	"mesa-admin/internal/session"
)

const redisPingTimeout = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: load config: %v\n", err)
		return 1
	}

	logger, closer := logging.New(cfg.Log, os.Stderr, slog.LevelWarn)
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	caches, closeCaches := cacheRegistry(ctx, cfg.Cache, logger)
	defer closeCaches()

	client := api.NewClient(cfg.API.URL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithMetrics(metrics.NewClient(nil)),
	)
	svc := usecase.New(usecase.Deps{
		Client: client,
		Caches: caches,
		Logger: logger,
		TTL: usecase.TTLs{
			List:      cfg.Cache.ListTTL,
			RuleTypes: cfg.Cache.RuleTypesTTL,
			Tenant:    cfg.Cache.TenantTTL,
			Stats:     cfg.Cache.StatsTTL,
			Identity:  cfg.Cache.IdentityTTL,
		},
	})

	path := cfg.Session.File
	if path == "" {
		path = session.DefaultPath()
	}
	sess := session.NewManager(client, session.NewFileStore(path), svc.Users, svc.Tenant, svc, logger)

	app := cli.New(svc, sess, logger,
		cli.WithOutput(os.Stdout, os.Stderr),
		cli.WithAPIKey(cfg.API.Key),
	)
	if err = app.Run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		}
		return 1
	}
	return 0
}

// cacheRegistry returns the redis registry when it is configured and
// reachable, and the in-process one otherwise.
func cacheRegistry(ctx context.Context, cfg configs.Cache, logger *slog.Logger) (*cache.Registry, func()) {
	if !cfg.UseRedis() {
		return cache.NewMemoryRegistry(time.Now), func() {}
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, caching in memory", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		_ = rc.Close()
		return cache.NewMemoryRegistry(time.Now), func() {}
	}
	return cache.NewRedisRegistry(rc, cfg.RedisPrefix, logger), func() { _ = rc.Close() }
}
