package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/wikiparse/internal/config"
	"github.com/dgallion1/wikiparse/internal/pipeline"
	"github.com/dgallion1/wikiparse/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for wikiparse.
type Server struct {
	router   chi.Router
	pipeline *pipeline.Pipeline
	limiter  *ratelimit.Limiter
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. A nil limiter disables
// rate limiting.
func NewServer(p *pipeline.Pipeline, limiter *ratelimit.Limiter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		pipeline: p,
		limiter:  limiter,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimitMiddleware(s.limiter, s.log))
		}
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/pages", s.handleIngestPage)
		r.Delete("/pages", s.handleInvalidatePage)
		r.Post("/render", s.handleRender)
		r.Post("/search", s.handleSearch)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
