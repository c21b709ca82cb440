// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the portfolio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis, when REDIS_URL is set.
//  4. Connect to PostgreSQL and run migrations, when STORAGE_DRIVER=postgres.
//  5. Build the session codec and resolver.
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/portfolio/internal/api"
	"github.com/taibuivan/portfolio/internal/content/gallery"
	"github.com/taibuivan/portfolio/internal/content/link"
	"github.com/taibuivan/portfolio/internal/content/visit"
	"github.com/taibuivan/portfolio/internal/integration/gameart"
	"github.com/taibuivan/portfolio/internal/integration/gif"
	"github.com/taibuivan/portfolio/internal/platform/config"
	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/migration"
	pgstore "github.com/taibuivan/portfolio/internal/platform/postgres"
	redisstore "github.com/taibuivan/portfolio/internal/platform/redis"
	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/social/comment"
	"github.com/taibuivan/portfolio/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("discord_configured", cfg.DiscordConfigured()),
		slog.Int("admins", len(cfg.AdminIDList())),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; background workers such as the rate limiter's
	// eviction loop stop with it.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	var checks []api.Check

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		checks = append(checks, api.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	// ── 4. Comment storage ────────────────────────────────────────────────
	var comments comment.Repository
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		comments = comment.NewPostgresRepository(pool)
		checks = append(checks, api.Check{Name: "postgres", Probe: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})
	default:
		repository := comment.NewJSONRepository(cfg.CommentsDir())
		log.Info("comment_store_ready", slog.String("path", repository.Path()))
		comments = repository
	}

	// ── 5. Sessions ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer, constants.SessionTTL, cfg.IsDevelopment())
	must(log, err, "initialize session tokens")

	admins := sec.NewAllowlist(cfg.AdminIDList())
	resolver := sec.NewSessionResolver(tokens, admins, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	discord := auth.NewDiscordClient(auth.DiscordConfig{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURI:  cfg.DiscordRedirectURI,
		Timeout:      cfg.OAuthTimeout,
	})
	authHandler := auth.NewHandler(auth.NewService(discord, tokens, log), cfg.FrontendURL, cfg.CookieSecure, constants.SessionTTL)

	commentHandler := comment.NewHandler(comment.NewService(comments, admins, log))
	linkHandler := link.NewHandler(link.NewService(cfg.LinksFile()))
	visitHandler := visit.NewHandler(visit.NewService(cfg.VisitsDir(), log))

	blobs, err := newBlobStore(startupCtx, cfg, log)
	must(log, err, "initialize gallery storage")
	galleryService := gallery.NewService(blobs, cfg.GalleryUploadDir, log)
	galleryHandler := gallery.NewHandler(galleryService, cfg.GalleryOwnerID)
	if store, ok := blobs.(*gallery.S3Store); ok {
		checks = append(checks, api.Check{Name: "s3", Probe: store.Ping})
	}

	var artCache gameart.Cache = gameart.NewMemoryCache()
	if rdb != nil {
		artCache = gameart.NewRedisCache(rdb)
	}
	steamGrid := gameart.NewSteamGridClient(cfg.SteamGridAPIKey, "", cfg.ExternalTimeout)
	gameArtHandler := gameart.NewHandler(gameart.NewService(steamGrid, artCache, log))

	tenor := gif.NewTenorClient(gif.TenorConfig{APIKey: cfg.TenorAPIKey, Timeout: cfg.ExternalTimeout})
	gifHandler := gif.NewHandler(gif.NewService(tenor, log))

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Comments:  commentHandler,
		Links:     linkHandler,
		Gallery:   galleryHandler,
		Visits:    visitHandler,
		GameArt:   gameArtHandler,
		GIFs:      gifHandler,
	}
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		handlers.Static = api.NewSPAHandler(cfg.StaticDir)
	} else {
		log.Warn("static_dir_missing", slog.String("path", cfg.StaticDir))
	}

	server := api.NewServer(rootCtx, cfg, log, resolver, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// newBlobStore selects the bucket when S3_BUCKET is set and the local upload
// directory otherwise.
func newBlobStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (gallery.BlobStore, error) {
	if cfg.S3Bucket == "" {
		log.Info("gallery_store_ready", slog.String("driver", "disk"), slog.String("path", cfg.GalleryUploadDir))
		return gallery.NewDiskStore(cfg.GalleryUploadDir, gallery.MetaFileName), nil
	}

	store, err := gallery.NewS3Store(gallery.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gallery bucket unreachable: %w", err)
	}

	log.Info("gallery_store_ready", slog.String("driver", "s3"), slog.String("bucket", cfg.S3Bucket))
	return store, nil
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
