// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

// Command api is the entry point for the Longbox HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the artifact cache and register configured library roots.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/longboxhq/longbox/internal/api"
	"github.com/longboxhq/longbox/internal/artifact"
	"github.com/longboxhq/longbox/internal/comic/format"
	"github.com/longboxhq/longbox/internal/library"
	"github.com/longboxhq/longbox/internal/opds"
	"github.com/longboxhq/longbox/internal/platform/config"
	"github.com/longboxhq/longbox/internal/platform/constants"
	"github.com/longboxhq/longbox/internal/platform/migration"
	pgstore "github.com/longboxhq/longbox/internal/platform/postgres"
	redisstore "github.com/longboxhq/longbox/internal/platform/redis"
	"github.com/longboxhq/longbox/internal/platform/sec"
	"github.com/longboxhq/longbox/internal/reader"
	"github.com/longboxhq/longbox/internal/scanner"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "longbox"))
	slog.SetDefault(log)

	log.Info("[Longbox] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "longbox"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("library_roots", len(cfg.LibraryRoots)),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Tokens & Artifact Pipeline ─────────────────────────────
	tokenSvc, err := sec.NewTokenService(cfg.SessionSecret, constants.SessionIssuer)
	must(log, err, "initialize session token service")

	cache, err := artifact.NewCache(cfg.CacheDir, cfg.CacheMaxBytes, log)
	must(log, err, "open artifact cache")

	transcodePool := artifact.NewPool(cfg.TranscodeWorkers)
	transcoder := artifact.NewTranscoder()

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	formats := format.NewExclusionSet(cfg.SpecialFormatTokens()...)

	libraryRepository := library.NewRepository(pool)
	libraryService := library.NewService(libraryRepository, formats, log)
	libraryHandler := library.NewHandler(libraryService)

	statusStore := scanner.NewStatusStore(rdb)
	scannerService := scanner.NewService(libraryService, statusStore, cfg.ScanWorkers, log)
	scannerHandler := scanner.NewHandler(scannerService)

	progressStore := reader.NewProgressStore(rdb)
	readerService := reader.NewService(libraryService, cache, transcodePool, transcoder, tokenSvc, progressStore, log)
	readerHandler := reader.NewHandler(readerService)

	opdsHandler := opds.NewHandler(libraryService)

	// Configured roots register themselves at startup; scans stay explicit.
	for _, rootPath := range cfg.LibraryRoots {
		_, err := libraryService.RegisterRoot(startupCtx, filepath.Base(rootPath), rootPath)
		must(log, err, fmt.Sprintf("register library root %s", rootPath))
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Library:   libraryHandler,
		Scanner:   scannerHandler,
		Reader:    readerHandler,
		OPDS:      opdsHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, tokenSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
