package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Janitor periodically drops expired entries from one or more stores.
type Janitor struct {
	sweepers []Sweeper
	interval time.Duration
	log      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewJanitor(interval time.Duration, log *slog.Logger, sweepers ...Sweeper) *Janitor {
	return &Janitor{sweepers: sweepers, interval: interval, log: log}
}

// Start launches the cleanup loop. It runs until ctx is done or Stop is called.
func (j *Janitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.sweep(ctx)
			}
		}
	}()
}

func (j *Janitor) sweep(ctx context.Context) {
	for _, s := range j.sweepers {
		n, err := s.Cleanup(ctx)
		if err != nil {
			if !errors.Is(err, ErrClosed) && ctx.Err() == nil {
				j.log.Warn("store cleanup failed", "error", err)
			}
			continue
		}
		if n > 0 {
			j.log.Debug("store cleanup", "expired", n)
		}
	}
}

// Stop cancels the loop and waits for it to exit.
func (j *Janitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}
