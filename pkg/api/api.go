// Package api serves snapshot analysis over HTTP.
//
// Routes:
//
//	GET  /                        usage page
//	GET  /healthz                 liveness and build version
//	POST /api/v1/analyze          evaluate a snapshot, returns a report
//	GET  /api/v1/scenarios        list bundled example scenarios
//	GET  /api/v1/scenarios/{name} fetch one example, normalized to JSON
//
// The analyze endpoint accepts a scenario document body (see the scenario
// package) and answers with the report JSON. Error responses carry the same
// top-level report fields zeroed plus an "error" message, so clients can
// bind a single shape for both outcomes.
//
// Handlers are stateless: every request carries its own snapshot, and the
// only shared state is the runner's cache, which is safe for concurrent
// use. The server is built for one-command deployments - the usage page and
// the example scenarios are embedded in the binary.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
	"github.com/NishanthRao01/bankguard/pkg/cache"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve context is cancelled.
const shutdownTimeout = 5 * time.Second

// Config carries the server dependencies.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Cache backs the analysis runner. Nil disables caching.
	Cache cache.Cache

	// Logger receives request and lifecycle logs. Nil falls back to
	// log.Default().
	Logger *log.Logger
}

// Server is the HTTP front end for the analysis runner.
type Server struct {
	runner *analysis.Runner
	logger *log.Logger
	http   *http.Server
}

// New creates a server from cfg. Cache keys are scoped with an "api:"
// prefix so CLI and server runs sharing a cache directory cannot collide.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		runner: analysis.NewRunner(cfg.Cache, cache.NewScopedKeyer(nil, "api:"), logger),
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Handler builds the route tree. It is exported so tests and embedders can
// mount the API without binding a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Recoverer sits innermost so the logger still sees a completed 500
	// response when a handler panics.
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/scenarios", s.handleScenarioList)
		r.Get("/scenarios/{name}", s.handleScenario)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// listener error is returned as-is; http.ErrServerClosed is treated as a
// clean exit.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
