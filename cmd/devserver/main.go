// Command devserver serves the admin REST API from memory or PostgreSQL so
// adminctl can be run and tested without the production backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpadapter "mesa-admin/internal/adapter/http"
	"mesa-admin/internal/adapter/memory"
	"mesa-admin/internal/adapter/postgres"
	"mesa-admin/internal/auth"
	"mesa-admin/internal/config"
	"mesa-admin/internal/config/configs"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/db"
	"mesa-admin/internal/jobs"
	"mesa-admin/internal/logging"
	"mesa-admin/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return 1
	}

	logger, closer := logging.New(cfg.Log, os.Stdout, slog.LevelInfo)
	defer closer.Close()
	logger = logger.With(slog.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg.Psql, logger)
	if err != nil {
		logger.Error("store setup error", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	if cfg.Psql.Seed || !cfg.Psql.Enabled {
		if err = db.Seed(ctx, store, cfg.Auth.Tenant, time.Now()); err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return 1
		}
	}

	issuer := auth.NewIssuer(cfg.Auth.Secret, nil)
	if cfg.Auth.BootstrapEmail != "" {
		if err = bootstrapKey(ctx, store, issuer, cfg.Auth, logger); err != nil {
			logger.Error("bootstrap key error", slog.Any("error", err))
			return 1
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewServer(reg)

	scheduler := jobs.NewScheduler(store, logger, m, nil)
	if err = scheduler.ScheduleCompletion(cfg.Jobs.CompleteSpec); err != nil {
		logger.Error("scheduler error", slog.Any("error", err))
		return 1
	}
	scheduler.Start()

	handler := httpadapter.NewHandler(store, issuer, logger,
		httpadapter.WithMetrics(m, reg),
		httpadapter.WithPublicTenant(cfg.Auth.Tenant),
	)
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(int(cfg.HTTP.Port))),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
		exitCode = 1
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	scheduler.Stop(shutdownCtx)
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return 1
	}
	logger.Info("server gracefully stopped")
	return exitCode
}

// openStore returns the PostgreSQL store when enabled, running migrations
// first if asked, and the in-memory store otherwise.
func openStore(ctx context.Context, cfg configs.Postgres, logger *slog.Logger) (db.Seeder, func(), error) {
	if !cfg.Enabled {
		logger.Info("using in-memory store")
		return memory.New(nil), func() {}, nil
	}

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.Addr.String()); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied successfully")
	}

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}
	return postgres.NewStore(pool, nil), pool.Close, nil
}

// bootstrapKey issues an owner key so a fresh server can be logged into.
func bootstrapKey(ctx context.Context, store db.Seeder, issuer *auth.Issuer, cfg configs.Auth, logger *slog.Logger) error {
	in := domain.APIKeyInput{Email: cfg.BootstrapEmail, Role: domain.RoleOwner}
	if cfg.BootstrapKeyTTL > 0 {
		in.ExpiresAt = domain.MillisPtr(time.Now().Add(cfg.BootstrapKeyTTL))
	}
	key, err := issuer.Issue(cfg.Tenant, in)
	if err != nil {
		return err
	}
	if err = store.CreateKey(ctx, cfg.Tenant, key); err != nil {
		return err
	}
	logger.Info("bootstrap owner key issued",
		slog.String("email", key.Email),
		slog.String("tenant", cfg.Tenant),
		slog.String("api_key", key.Token),
	)
	return nil
}
