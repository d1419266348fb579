package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/wikiparse/internal/pipeline"
)

type pageRequest struct {
	URL      string `json:"url"`
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

func (p pageRequest) ingest() pipeline.IngestRequest {
	return pipeline.IngestRequest{URL: p.URL, Topic: p.Topic, Markdown: p.Markdown, HTML: p.HTML}
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type searchRequest struct {
	pageRequest
	Query string `json:"query"`
}

type searchHit struct {
	Title   string   `json:"title"`
	Anchor  string   `json:"anchor"`
	Level   int      `json:"level"`
	Matches []string `json:"matches"`
	Score   int      `json:"score"`
}

// decode reads a JSON body no larger than the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) ingestError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoSource):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, pipeline.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		s.log.Error("ingest failed", "path", r.URL.Path, "error", err)
		jsonError(w, "failed to process page", http.StatusUnprocessableEntity)
	}
}

func (s *Server) handleIngestPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !s.decode(w, r, &req) {
		return
	}
	page, err := s.pipeline.Ingest(r.Context(), req.ingest())
	if err != nil {
		s.ingestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleInvalidatePage(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if err := s.pipeline.Invalidate(r.Context(), pageURL); err != nil {
		if errors.Is(err, pipeline.ErrNoSource) {
			jsonError(w, "url is required", http.StatusBadRequest)
			return
		}
		s.log.Error("invalidate failed", "url", pageURL, "error", err)
		jsonError(w, "failed to invalidate page", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "url": pageURL})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		jsonError(w, "markdown is required", http.StatusBadRequest)
		return
	}
	out, err := s.pipeline.Render(req.Markdown)
	if err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "failed to render markdown", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	results, err := s.pipeline.Search(r.Context(), req.ingest(), req.Query)
	if err != nil {
		s.ingestError(w, r, err)
		return
	}

	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{
			Title:   res.Section.Title,
			Anchor:  res.Section.Anchor,
			Level:   res.Section.Level,
			Matches: res.Matches,
			Score:   res.Score,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": hits,
	})
}
