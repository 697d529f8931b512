// Package api serves the footprint pipeline over HTTP.
//
// Routes live under /api/v1:
//
//	GET    /health                          liveness and version
//	GET    /formats                         supported artifact formats
//	GET    /catalog?category=doors          family types the server places
//	POST   /builds                          run the pipeline, persist a record
//	GET    /builds                          recent records, newest first
//	GET    /builds/{id}                     one record
//	DELETE /builds/{id}                     remove a record
//	GET    /builds/{id}/artifacts/{format}  render a stored model
//
// Typed pipeline errors map to status codes: NOT_FOUND to 404, the
// INVALID_* family to 400, anything else to 500.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/pipeline"
	"github.com/matzehuels/footprint/pkg/store"
)

const (
	// DefaultRequestTimeout bounds a single request, rendering included.
	DefaultRequestTimeout = 60 * time.Second

	// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
	ShutdownTimeout = 30 * time.Second

	// maxBodyBytes caps POST /builds request bodies.
	maxBodyBytes = 1 << 20
)

// Server is the HTTP front end to a pipeline runner and a record store.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	catalog  *catalog.Catalog
	defaults pipeline.Options
	timeout  time.Duration
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the catalog used for placement and rendering.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithDefaults sets the options a build request is decoded on top of.
func WithDefaults(o pipeline.Options) Option {
	return func(s *Server) { s.defaults = o }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a server with its routes mounted.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   st,
		logger:  log.New(io.Discard),
		catalog: catalog.Default(),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/formats", s.handleFormats)
		r.Get("/catalog", s.handleCatalog)

		r.Route("/builds", func(r chi.Router) {
			r.Post("/", s.handleCreateBuild)
			r.Get("/", s.handleListBuilds)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBuild)
				r.Delete("/", s.handleDeleteBuild)
				r.Get("/artifacts/{format}", s.handleArtifact)
			})
		})
	})

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  2 * writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
