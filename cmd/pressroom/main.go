// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Pressroom blog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pressroom/internal/cache"
	"pressroom/internal/config"
	"pressroom/internal/database"
	"pressroom/internal/handlers"
	"pressroom/internal/mail"
	"pressroom/internal/middleware"
	"pressroom/internal/render"
	"pressroom/internal/router"
	"pressroom/internal/store"
	"pressroom/internal/syndication"
)

func main() {
	// Load configuration from environment variables (and .env, if present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_url", cfg.BaseURL,
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Rate limiter for comment and share submissions. Valkey is used when
	// configured so the budget is shared across instances.
	var limiter middleware.Limiter
	if cfg.RateLimit > 0 {
		if cfg.HasValkey() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
			cancel()
			if err != nil {
				slog.Error("failed to connect to valkey", "error", err)
				os.Exit(1)
			}
			defer valkeyClient.Close()
			limiter = cache.NewRateLimiter(valkeyClient, cfg.RateLimit, time.Minute)
			slog.Info("rate limiting via valkey", "limit_per_minute", cfg.RateLimit)
		} else {
			memLimiter := middleware.NewMemoryLimiter(cfg.RateLimit, time.Minute)
			defer memLimiter.Stop()
			limiter = memLimiter
			slog.Info("rate limiting in memory", "limit_per_minute", cfg.RateLimit)
		}
	} else {
		slog.Warn("rate limiting disabled")
	}

	// Outgoing mail for the share form.
	mailer, err := mail.New(cfg, logger)
	if err != nil {
		slog.Error("failed to initialize mail backend", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(cfg.SiteName)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	commentStore := store.NewCommentStore(db)

	blog := handlers.NewBlog(renderer, postStore, categoryStore, tagStore, commentStore, mailer, syndication.Site{
		Title:       cfg.SiteName,
		Description: cfg.SiteDescription,
		BaseURL:     cfg.BaseURL,
	})

	// In non-development environments, mark the CSRF cookie as Secure (HTTPS-only).
	r := router.New(blog, limiter, !cfg.IsDev())

	// Create the HTTP server with sensible timeouts. WriteTimeout covers a
	// share submission waiting on the SMTP server.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
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
