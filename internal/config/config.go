// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mail backends understood by the mail package.
const (
	MailBackendConsole = "console"
	MailBackendSMTP    = "smtp"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	BaseURL  string // absolute origin used in shared links, the feed and the sitemap
	LogLevel string

	// Site identity shown in page titles and the feed
	SiteName        string
	SiteDescription string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible) backs the form rate limiter. Optional.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Outgoing mail
	MailBackend  string // "console" or "smtp"
	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	// RateLimit is the number of comment/share submissions allowed per
	// client per minute. Zero disables limiting.
	RateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; variables already set in the process
// environment win. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		SiteName:        envOrDefault("SITE_NAME", "Pressroom"),
		SiteDescription: envOrDefault("SITE_DESCRIPTION", "Latest posts"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pressroom"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pressroom"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		MailBackend:  envOrDefault("MAIL_BACKEND", MailBackendConsole),
		MailFrom:     envOrDefault("MAIL_FROM", "Pressroom <noreply@pressroom.local>"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	var err error
	if cfg.SMTPPort, err = intOrDefault("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = intOrDefault("RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(envOrDefault("APP_BASE_URL", "http://localhost:"+cfg.Port), "/")

	switch cfg.MailBackend {
	case MailBackendConsole:
	case MailBackendSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST must be set when MAIL_BACKEND=smtp")
		}
	default:
		return nil, fmt.Errorf("unknown MAIL_BACKEND %q", cfg.MailBackend)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.MailBackend == MailBackendConsole {
			return nil, fmt.Errorf("MAIL_BACKEND=console is not allowed in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasValkey reports whether a Valkey host was configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyHost != ""
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// intOrDefault reads an integer environment variable. An unset or empty
// value yields the fallback; a malformed one is an error.
func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}
