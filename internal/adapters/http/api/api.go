// Package api declares HTTP contracts and route registration for the
// query and ingestion surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pitchpulse/pitchpulse/internal/adapters/feed"
	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

// Dependencies bundles everything the HTTP handlers need. Keeping this an
// interface keeps the handler layer decoupled from the service wiring.
type Dependencies interface {
	Ingest(ctx context.Context, rec model.Record) feed.IngestStatus
	PlayerSnapshot(ctx context.Context, key string) (stats.Snapshot, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Stats(ctx context.Context) map[string]any
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

const defaultMaxLeaderboardLimit = 100

// Server wires HTTP routes for the business API.
type Server struct {
	deps     Dependencies
	maxLimit int
	log      logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps the limit accepted by GET /leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates an API server over the given dependencies.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: defaultMaxLeaderboardLimit,
		log:      logger.Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the standard middleware stack and all
// routes attached.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", instrument("healthz", s.handleHealth))
	r.Handle("/metrics", metrics.Handler())
	r.Get("/stats", instrument("stats", s.handleStats))

	r.Post("/events", instrument("events", s.handlePostEvent))
	r.Get("/players/{playerID}", instrument("players", s.handleGetPlayer))
	r.Get("/leaderboard", instrument("leaderboard", s.handleGetLeaderboard))
	r.Get("/winprob", instrument("winprob", s.handleGetWinProb))

	return r
}

// HTTPServer wraps the router in an http.Server with sane timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
