package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port string

	// Article source, used to build a URL from a topic name
	BaseURL string

	// Auth
	APIKey string

	// Page cache
	CacheBackend string
	CachePath    string
	CacheTTL     time.Duration

	// How often expired cache entries and rate limit buckets are dropped
	CleanupInterval time.Duration

	// Rate limiting, per client
	RateLimit  int
	RateWindow time.Duration

	// Request limits
	MaxBodyBytes int64

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		BaseURL: strings.TrimRight(envOr("BASE_URL", "https://grokipedia.com/page"), "/"),

		APIKey: os.Getenv("API_KEY"),

		CacheBackend: strings.ToLower(envOr("CACHE_BACKEND", BackendMemory)),
		CachePath:    envOr("CACHE_PATH", "wikiparse.db"),
		CacheTTL:     envDuration("CACHE_TTL", 100*24*time.Hour),

		CleanupInterval: envDuration("CLEANUP_INTERVAL", 5*time.Minute),

		RateLimit:  envInt("RATE_LIMIT", 20),
		RateWindow: envDuration("RATE_WINDOW", time.Minute),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 5<<20), // 5MB

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 100 * 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.CachePath == "" {
			return fmt.Errorf("CACHE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", BackendMemory, BackendSQLite, c.CacheBackend)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
