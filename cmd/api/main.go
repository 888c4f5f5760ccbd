// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Tsuzuri HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tsuzuri/internal/api"
	"github.com/taibuivan/tsuzuri/internal/core/post"
	"github.com/taibuivan/tsuzuri/internal/core/series"
	"github.com/taibuivan/tsuzuri/internal/core/tag"
	"github.com/taibuivan/tsuzuri/internal/platform/config"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
	"github.com/taibuivan/tsuzuri/internal/platform/migration"
	pgstore "github.com/taibuivan/tsuzuri/internal/platform/postgres"
	redisstore "github.com/taibuivan/tsuzuri/internal/platform/redis"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/platform/storage"
	"github.com/taibuivan/tsuzuri/internal/users/account"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
	"github.com/taibuivan/tsuzuri/internal/users/library"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "tsuzuri"))
	slog.SetDefault(log)

	log.Info("[Tsuzuri] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "tsuzuri"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("view_tracker", cfg.ViewTracker),
	)

	// Background work (rate limiter cleanup, view tracker sweep) stops with this context.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.Options{
		URL:              cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	files, err := storage.NewLocalStorage(cfg.UploadDir)
	must(log, err, "initialize upload storage")

	metrics.ObservePool("postgres", func() metrics.PoolStats { return pgstore.Stats(pool) })
	metrics.ObservePool("redis", func() metrics.PoolStats { return redisstore.Stats(rdb) })

	liveness, readiness := api.NewHealthHandlers(log,
		api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.Dependencies{
		Users:       auth.NewUserRepository(pool),
		ResetTokens: auth.NewResetTokenRepository(rdb),
		Tokens:      jwtSvc,
		Files:       files,
		Mailer:      auth.NewLogMailer(log, cfg.PublicURL),
		TokenTTL:    cfg.AccessTokenTTL,
		Logger:      log,
	})
	accountService := account.NewService(account.NewPostgresRepository(pool), files, log)

	seriesService := series.NewService(series.NewPostgresRepository(pool), log)
	postService := post.NewService(post.NewPostgresRepository(pool), newViewTracker(appCtx, cfg, rdb), seriesService, log)
	libraryService := library.NewService(library.NewPostgresRepository(pool), log)
	tagService := tag.NewService(tag.NewPostgresRepository(pool), tag.NewRedisCache(rdb), cfg.PopularTagsTTL, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Uploads:   http.FileServer(http.Dir(files.Directory())),
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Post:      post.NewHandler(postService),
		Series:    series.NewHandler(seriesService),
		Library:   library.NewHandler(libraryService),
		Tag:       tag.NewHandler(tagService),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newViewTracker builds the configured view deduplication backend.
// The in-memory tracker is swept in the background until ctx is cancelled.
func newViewTracker(ctx context.Context, cfg *config.Config, client *redis.Client) post.ViewTracker {
	if cfg.ViewTracker == config.ViewTrackerMemory {
		tracker := post.NewMemoryViewTracker(cfg.ViewCooldown)
		go tracker.Run(ctx, constants.ViewTrackerSweepInterval)
		return tracker
	}
	return post.NewRedisViewTracker(client, cfg.ViewCooldown)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
