package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikiparse/internal/api"
	"github.com/dgallion1/wikiparse/internal/config"
	"github.com/dgallion1/wikiparse/internal/pagecache"
	"github.com/dgallion1/wikiparse/internal/pipeline"
	"github.com/dgallion1/wikiparse/internal/ratelimit"
	"github.com/dgallion1/wikiparse/internal/store"
)

func main() {
	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Page cache.
	pages, err := store.Open(cfg.CacheBackend, cfg.CachePath)
	if err != nil {
		log.Error("failed to open cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	cache := pagecache.New(pages, cfg.CacheTTL)

	// Rate limit buckets are short lived and stay in memory.
	buckets := store.NewMemoryStore()
	limiter := ratelimit.New(buckets, cfg.RateLimit, cfg.RateWindow)

	sweepers := []store.Sweeper{buckets}
	if sw, ok := pages.(store.Sweeper); ok {
		sweepers = append(sweepers, sw)
	}
	janitor := store.NewJanitor(cfg.CleanupInterval, log, sweepers...)
	janitor.Start(ctx)

	p := pipeline.New(cfg.BaseURL, cache, log)

	srv := api.NewServer(p, limiter, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		janitor.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		pages.Close()
		buckets.Close()
	}()

	log.Info("starting wikiparse",
		"port", cfg.Port,
		"cache_backend", cfg.CacheBackend,
		"rate_limit", cfg.RateLimit,
		"auth", cfg.APIKey != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
