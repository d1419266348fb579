// Package store is the key/value layer behind the page cache and the rate
// limiter. Values are opaque bytes with an optional time to live.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("store: closed")

// Store is a key/value store with per-key expiry. A missing or expired key
// is reported as (nil, false, nil). A ttl of zero means the value never
// expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Expire(ctx context.Context, key string) error
	Close() error
}

// Sweeper is implemented by stores that can drop expired entries in bulk.
type Sweeper interface {
	Cleanup(ctx context.Context) (int64, error)
}

// Open returns the store for backend: "memory" or "sqlite" at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
