// Package api provides the HTTP surface for feasibility checks.
//
// The server exposes a small JSON API behind a chi router:
//
//	POST /api/v1/check        run a feasibility check
//	GET  /api/v1/checks       list archived checks
//	GET  /api/v1/checks/{id}  fetch one archived check
//	GET  /healthz             liveness probe
//
// Checks run through the shared pipeline Runner, so CLI and API produce
// identical verdicts and share the same cache. When a store is configured,
// every computed check is archived and its ID returned to the caller.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/cophylo/phylotime/pkg/pipeline"
	"github.com/cophylo/phylotime/pkg/store"
)

// Server is the phylotime HTTP server.
type Server struct {
	runner *pipeline.Runner
	store  store.Store // nil disables archival
	logger *log.Logger
	router chi.Router
}

// NewServer creates a server around the given runner.
// A nil store disables check archival; a nil logger falls back to the
// default logger.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on addr with timeouts to prevent
// resource exhaustion from slow clients.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	s.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/checks", s.handleListChecks)
		r.Get("/checks/{id}", s.handleGetCheck)
	})

	return r
}

// requestIDHeader carries the per-request correlation ID.
const requestIDHeader = "X-Request-Id"

// requestID assigns a correlation ID to every request, honoring one the
// client already sent.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request with method, path, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", ww.Header().Get(requestIDHeader))
	})
}
