// Package rest exposes the reports as plain JSON endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/osa030/tastebox/internal/app/report"
	"github.com/osa030/tastebox/internal/domain/track"
)

// TokenHeader is the header carrying the API token.
const TokenHeader = "X-Api-Token"

// Config holds router configuration.
type Config struct {
	Aggregator       *report.Aggregator
	DefaultTimeRange track.TimeRange
	// APIToken guards every route except /healthz when non-empty.
	APIToken string
}

// Server serves the report endpoints.
type Server struct {
	router       chi.Router
	aggregator   *report.Aggregator
	defaultRange track.TimeRange
	token        string
}

// NewServer creates a new REST server.
func NewServer(cfg Config) *Server {
	if cfg.DefaultTimeRange == "" {
		cfg.DefaultTimeRange = track.MediumTerm
	}

	s := &Server{
		router:       chi.NewRouter(),
		aggregator:   cfg.Aggregator,
		defaultRange: cfg.DefaultTimeRange,
		token:        cfg.APIToken,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes mounts one route per registered report at /<name>, plus
// /reports/<name> for clients that discover reports through the listing.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		if s.token != "" {
			r.Use(requireToken(s.token))
		}

		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{name}", s.handleNamedReport)
		for _, def := range report.Registered() {
			r.Get("/"+def.Name, s.handleReport(def))
		}
	})
}
