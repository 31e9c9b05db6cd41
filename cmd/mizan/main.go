// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Mizan admin server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mizan/internal/cache"
	"mizan/internal/config"
	"mizan/internal/database"
	"mizan/internal/handlers"
	"mizan/internal/realtime"
	"mizan/internal/router"
	"mizan/internal/session"
	"mizan/internal/storage"
	"mizan/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default admin account (no-op if users exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey — sessions, the list cache and change fan-out
	// all live there.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// session cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Change broker: Valkey pub/sub so every server process sees every
	// mutation, and SSE watchers on any instance stay current.
	broker := realtime.NewValkeyBroker(valkeyClient)

	// Public list-response cache, invalidated on the same topics the
	// broker publishes.
	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	subcategoryStore := store.NewSubcategoryStore(db)
	glossaryStore := store.NewGlossaryStore(db)
	diagramStore := store.NewDiagramStore(db)
	templateStore := store.NewTemplateStore(db)
	userStore := store.NewUserStore(db)

	// Connect to S3-compatible object storage (optional — the app works
	// without it, with uploads disabled).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — diagram and template uploads disabled")
	}

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(
		categoryStore, subcategoryStore, glossaryStore, diagramStore, templateStore,
		userStore, broker, listCache, storageClient,
	)
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(
		categoryStore, subcategoryStore, glossaryStore, diagramStore, templateStore,
		listCache,
	)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers)

	// WriteTimeout of zero: SSE watch streams stay open for the client's
	// lifetime, and a write deadline would sever them.
	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
