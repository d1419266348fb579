// Package ratelimit enforces a fixed-window request budget per client. Window
// state lives in a store.Store so it can be shared or persisted.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/wikiparse/internal/store"
)

const keyPrefix = "rate:"

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type bucket struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"reset_at"` // unix ms
}

type Limiter struct {
	store  store.Store
	limit  int
	window time.Duration
	now    func() time.Time

	// Serializes read-modify-write of buckets.
	mu sync.Mutex
}

func New(s store.Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: s, limit: limit, window: window, now: time.Now}
}

// Allow counts one request for id. The first request opens a window; once
// the budget is spent, requests are refused until the window resets.
func (l *Limiter) Allow(ctx context.Context, id string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := keyPrefix + id

	var b bucket
	data, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: get: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &b); err != nil {
			ok = false
		}
	}

	if !ok || now.UnixMilli() > b.ResetAt {
		b = bucket{Count: 1, ResetAt: now.Add(l.window).UnixMilli()}
		if err := l.save(ctx, key, b, now); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - 1, ResetIn: l.window}, nil
	}

	resetIn := time.Duration(b.ResetAt-now.UnixMilli()) * time.Millisecond
	if b.Count >= l.limit {
		return Decision{Allowed: false, Limit: l.limit, Remaining: 0, ResetIn: resetIn}, nil
	}

	b.Count++
	if err := l.save(ctx, key, b, now); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - b.Count, ResetIn: resetIn}, nil
}

func (l *Limiter) save(ctx context.Context, key string, b bucket, now time.Time) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("ratelimit: encode: %w", err)
	}
	// Keep the bucket a little past its reset so the store can evict it.
	ttl := time.UnixMilli(b.ResetAt).Sub(now) + l.window
	if ttl <= 0 {
		ttl = l.window
	}
	if err := l.store.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("ratelimit: set: %w", err)
	}
	return nil
}

// ClientIdentifier picks the client address from proxy headers, in order
// X-Forwarded-For (first entry), X-Real-IP, CF-Connecting-IP, then the
// connection's remote address.
func ClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
