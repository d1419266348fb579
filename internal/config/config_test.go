package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BASE_URL", "API_KEY", "CACHE_BACKEND", "CACHE_PATH", "CACHE_TTL", "CLEANUP_INTERVAL", "RATE_LIMIT", "RATE_WINDOW", "MAX_BODY_BYTES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.BaseURL != "https://grokipedia.com/page" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.CacheBackend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 2400*time.Hour {
		t.Errorf("expected 100 day ttl, got %v", cfg.CacheTTL)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("expected 5m cleanup interval, got %v", cfg.CleanupInterval)
	}
	if cfg.RateLimit != 20 || cfg.RateWindow != time.Minute {
		t.Errorf("expected 20 per minute, got %d per %v", cfg.RateLimit, cfg.RateWindow)
	}
	if cfg.MaxBodyBytes != 5<<20 {
		t.Errorf("expected 5MB body limit, got %d", cfg.MaxBodyBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BASE_URL", "https://example.org/wiki/")
	t.Setenv("CACHE_BACKEND", "SQLite")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("RATE_LIMIT", "-3")
	t.Setenv("RATE_WINDOW", "not-a-duration")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.BaseURL != "https://example.org/wiki" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.CacheBackend != BackendSQLite || cfg.CacheTTL != time.Hour {
		t.Errorf("unexpected cache settings %q %v", cfg.CacheBackend, cfg.CacheTTL)
	}
	if cfg.RateLimit != 20 {
		t.Errorf("expected invalid limit to fall back to 20, got %d", cfg.RateLimit)
	}
	if cfg.RateWindow != time.Minute {
		t.Errorf("expected unparsable window to fall back, got %v", cfg.RateWindow)
	}
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", lvl, err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{BaseURL: "https://x", CacheBackend: BackendMemory, LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.CacheBackend = "redis" }, true},
		{"sqlite without path", func(c *Config) { c.CacheBackend = BackendSQLite }, true},
		{"sqlite with path", func(c *Config) { c.CacheBackend = BackendSQLite; c.CachePath = "x.db" }, false},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
