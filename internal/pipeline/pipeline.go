package pipeline

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/wikiparse/internal/cleaner"
	"github.com/dgallion1/wikiparse/internal/normalize"
	"github.com/dgallion1/wikiparse/internal/pagecache"
	"github.com/dgallion1/wikiparse/internal/parser"
	"github.com/dgallion1/wikiparse/internal/reference"
	"github.com/dgallion1/wikiparse/internal/render"
	"github.com/dgallion1/wikiparse/internal/search"
	"github.com/dgallion1/wikiparse/internal/wiki"
)

var (
	// ErrNotFound means no text was supplied and the cache has no copy.
	ErrNotFound = errors.New("page not found")

	// ErrNoSource means neither a URL nor a topic was given.
	ErrNoSource = errors.New("url or topic is required")
)

// Origin says where the text for a page came from.
type Origin string

const (
	OriginRequest Origin = "request"
	OriginCache   Origin = "cache"
)

// IngestRequest carries either text to parse or the key of a cached page.
// HTML wins over Markdown when both are set.
type IngestRequest struct {
	URL      string
	Topic    string
	Markdown string
	HTML     string
}

// Metadata describes where a parsed page came from. Source is the page URL.
type Metadata struct {
	Source      string    `json:"source"`
	Origin      Origin    `json:"origin"`
	LastUpdated time.Time `json:"lastUpdated"`
	Cached      bool      `json:"cached"`
	ContentHash string    `json:"contentHash"`
}

// Page is a parsed article plus its metadata.
type Page struct {
	*wiki.ParsedWiki
	Metadata Metadata `json:"metadata"`
}

// Rendered is the display form of an article.
type Rendered struct {
	Content     string                `json:"content"`
	HTML        string                `json:"html"`
	References  []reference.Reference `json:"references"`
	Attribution string                `json:"attribution,omitempty"`
}

// Pipeline runs the normalization stages and manages the page cache.
type Pipeline struct {
	cache    *pagecache.Cache
	norm     *normalize.Normalizer
	renderer *render.Renderer
	baseURL  string
	log      *slog.Logger
}

func New(baseURL string, cache *pagecache.Cache, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cache:    cache,
		norm:     normalize.New(),
		renderer: render.New(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
}

// ResolveURL returns rawURL, or builds one from topic under the base URL.
func (p *Pipeline) ResolveURL(rawURL, topic string) (string, error) {
	if u := strings.TrimSpace(rawURL); u != "" {
		return u, nil
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrNoSource
	}
	return p.baseURL + "/" + url.PathEscape(strings.ReplaceAll(topic, " ", "_")), nil
}

// Ingest cleans and parses an article. Supplied text is cached raw under
// its URL; without text the cached copy is used. Cache failures are logged
// and never fail the call.
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (*Page, error) {
	pageURL, err := p.ResolveURL(req.URL, req.Topic)
	if err != nil {
		return nil, err
	}
	log := p.log.With("url", pageURL)

	raw := req.Markdown
	if req.HTML != "" {
		raw, err = p.norm.Markdown(req.HTML, pageURL)
		if err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
	}

	page := &Page{Metadata: Metadata{Source: pageURL}}
	meta := &page.Metadata
	if raw != "" {
		meta.Origin = OriginRequest
		meta.LastUpdated = time.Now().UTC()
		meta.ContentHash = contentHashHex(raw)
		cached, err := p.cache.Put(ctx, pagecache.Page{
			URL:      pageURL,
			Markdown: raw,
			Title:    parser.Title(raw),
			Metadata: map[string]string{"content_hash": meta.ContentHash},
		})
		if err != nil {
			log.Warn("cache store failed", "error", err)
		} else {
			meta.LastUpdated = cached.CachedAt
		}
	} else {
		cached, ok, err := p.cache.Get(ctx, pageURL)
		if err != nil {
			log.Warn("cache lookup failed", "error", err)
		}
		if !ok {
			log.Info("cache miss")
			return nil, ErrNotFound
		}
		raw = cached.Markdown
		meta.Origin = OriginCache
		meta.Cached = true
		meta.LastUpdated = cached.CachedAt
		meta.ContentHash = contentHashHex(raw)
		log.Info("cache hit", "age", cached.Age(time.Now()).Round(time.Second).String())
	}

	cleaned := cleaner.Clean(raw)
	page.ParsedWiki = parser.Parse(cleaned)

	sum := parser.Summarize(page.ParsedWiki)
	log.Info("parsed page",
		"title", sum.Title,
		"sections", sum.Sections,
		"max_depth", sum.MaxDepth,
		"bytes_in", len(raw),
		"bytes_out", len(cleaned),
	)
	return page, nil
}

// Invalidate drops the cached copy of a page.
func (p *Pipeline) Invalidate(ctx context.Context, pageURL string) error {
	if strings.TrimSpace(pageURL) == "" {
		return ErrNoSource
	}
	return p.cache.Invalidate(ctx, pageURL)
}

// Render segments paragraphs, resolves references and renders HTML.
func (p *Pipeline) Render(markdown string) (*Rendered, error) {
	res := reference.Process(markdown)
	out, err := p.renderer.HTML(res.Content)
	if err != nil {
		return nil, err
	}
	p.log.Debug("rendered markdown", "references", len(res.References), "bytes", len(out))
	return &Rendered{
		Content:     res.Content,
		HTML:        out,
		References:  res.Sorted(),
		Attribution: res.Attribution,
	}, nil
}

// Search ingests the page described by req and searches its sections.
func (p *Pipeline) Search(ctx context.Context, req IngestRequest, query string) ([]search.Result, error) {
	page, err := p.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}
	return search.Sections(page.Sections, query), nil
}

// contentHashHex computes SHA-256 of content and returns a hex string.
func contentHashHex(content string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", h[:])
}
