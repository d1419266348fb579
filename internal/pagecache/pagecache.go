// Package pagecache keeps raw article text by URL so a page can be parsed
// again without another fetch.
package pagecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgallion1/wikiparse/internal/store"
)

const keyPrefix = "page:"

// Page is one cached article. Markdown is the raw, uncleaned text.
type Page struct {
	URL      string            `json:"url"`
	Markdown string            `json:"markdown"`
	Title    string            `json:"title"`
	CachedAt time.Time         `json:"cached_at"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Age is how long ago the page was cached.
func (p *Page) Age(now time.Time) time.Duration {
	return now.Sub(p.CachedAt)
}

type Cache struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

func New(s store.Store, ttl time.Duration) *Cache {
	return &Cache{store: s, ttl: ttl, now: time.Now}
}

// Get returns the cached page for url. An entry older than the TTL is
// removed and reported as a miss.
func (c *Cache) Get(ctx context.Context, url string) (*Page, bool, error) {
	data, ok, err := c.store.Get(ctx, keyPrefix+url)
	if err != nil {
		return nil, false, fmt.Errorf("pagecache: get: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt entry; drop it so the next write replaces it cleanly.
		_ = c.store.Expire(ctx, keyPrefix+url)
		return nil, false, fmt.Errorf("pagecache: decode %q: %w", url, err)
	}
	if c.ttl > 0 && p.Age(c.now()) > c.ttl {
		if err := c.store.Expire(ctx, keyPrefix+url); err != nil {
			return nil, false, fmt.Errorf("pagecache: expire: %w", err)
		}
		return nil, false, nil
	}
	return &p, true, nil
}

// Put stores the page under its URL, replacing any earlier copy. CachedAt is
// set to the current time.
func (c *Cache) Put(ctx context.Context, p Page) (*Page, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("pagecache: page has no url")
	}
	p.CachedAt = c.now()
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("pagecache: encode: %w", err)
	}
	if err := c.store.Set(ctx, keyPrefix+p.URL, data, c.ttl); err != nil {
		return nil, fmt.Errorf("pagecache: set: %w", err)
	}
	return &p, nil
}

// Invalidate removes url from the cache.
func (c *Cache) Invalidate(ctx context.Context, url string) error {
	if err := c.store.Expire(ctx, keyPrefix+url); err != nil {
		return fmt.Errorf("pagecache: invalidate: %w", err)
	}
	return nil
}
