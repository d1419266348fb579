package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgallion1/wikiparse/internal/store"
)

func newLimiter(limit int, window time.Duration) (*Limiter, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(store.NewMemoryStore(), limit, window)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_FixedWindow(t *testing.T) {
	ctx := context.Background()
	l, now := newLimiter(3, time.Minute)

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d: expected allowed", i)
		}
		if d.Remaining != 3-i {
			t.Errorf("request %d: expected remaining %d, got %d", i, 3-i, d.Remaining)
		}
	}

	*now = now.Add(20 * time.Second)
	d, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Errorf("expected refusal, got %+v", d)
	}
	if d.ResetIn != 40*time.Second {
		t.Errorf("expected reset in 40s, got %v", d.ResetIn)
	}
	if d.Limit != 3 {
		t.Errorf("expected limit 3, got %d", d.Limit)
	}

	*now = now.Add(41 * time.Second)
	d, _ = l.Allow(ctx, "1.2.3.4")
	if !d.Allowed || d.Remaining != 2 || d.ResetIn != time.Minute {
		t.Errorf("expected a fresh window, got %+v", d)
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newLimiter(1, time.Minute)

	if d, _ := l.Allow(ctx, "a"); !d.Allowed {
		t.Fatal("expected first request from a to pass")
	}
	if d, _ := l.Allow(ctx, "a"); d.Allowed {
		t.Error("expected second request from a to be refused")
	}
	if d, _ := l.Allow(ctx, "b"); !d.Allowed {
		t.Error("expected b to have its own budget")
	}
}

func TestAllow_SharedStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	first := New(s, 2, time.Minute)
	second := New(s, 2, time.Minute)

	first.Allow(ctx, "c")
	second.Allow(ctx, "c")
	if d, _ := first.Allow(ctx, "c"); d.Allowed {
		t.Error("expected limiters sharing a store to share the budget")
	}
}

func TestAllow_StoreError(t *testing.T) {
	s := store.NewMemoryStore()
	s.Close()
	l := New(s, 5, time.Minute)
	if _, err := l.Allow(context.Background(), "x"); err == nil {
		t.Error("expected error from closed store")
	}
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first entry", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "9.9.9.9:1", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "9.9.9.9:1", "10.0.0.3"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "10.0.0.4"}, "9.9.9.9:1", "10.0.0.4"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "10.0.0.5", "X-Real-IP": "10.0.0.6"}, "", "10.0.0.5"},
		{"remote addr", nil, "192.168.1.7:5555", "192.168.1.7"},
		{"remote addr without port", nil, "192.168.1.8", "192.168.1.8"},
		{"nothing", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/pages", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIdentifier(r); got != tt.want {
				t.Errorf("ClientIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}
