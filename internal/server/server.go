// Package server exposes analysis, layout and interactive view sessions
// over HTTP.
//
// Structure and layout endpoints are stateless and read through the
// pipeline cache. View sessions hold the expanded set, drag offsets and
// filters of one viewer; they live in a bounded table and are evicted least
// recently used first.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/observability"
	"github.com/matzehuels/sitegraph/pkg/pipeline"
	"github.com/matzehuels/sitegraph/pkg/render/nodelink"
)

// Defaults for Options.
const (
	DefaultMaxSessions = 64
	shutdownTimeout    = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Analysis is the project served. Refresh is ignored; clients pass
	// ?refresh=true instead.
	Analysis pipeline.Options

	// Filters is the filter set of sessions created without one.
	// Defaults to every category.
	Filters category.Set

	// MaxSessions bounds the session table. Defaults to DefaultMaxSessions.
	MaxSessions int

	// Render configures SVG output.
	Render nodelink.Options

	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Filters == nil {
		o.Filters = category.AllSet()
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = DefaultMaxSessions
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Analysis.Refresh = false
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	opts     Options
	logger   *log.Logger
	sessions *sessionTable
}

// New creates a server over runner.
func New(runner *pipeline.Runner, opts Options) (*Server, error) {
	opts.setDefaults()
	if err := opts.Analysis.Validate(); err != nil {
		return nil, err
	}
	sessions, err := newSessionTable(opts.MaxSessions)
	if err != nil {
		return nil, err
	}
	return &Server{
		runner:   runner,
		opts:     opts,
		logger:   opts.Logger,
		sessions: sessions,
	}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/structure", s.handleStructure)
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/filters", s.handleSetFilters)
				r.Post("/toggle", s.handleToggle)
				r.Post("/drag", s.handleDrag)
				r.Post("/relationships/clear", s.handleClearRelationships)
				r.Put("/relationships", s.handleSetRelationships)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "project", s.opts.Analysis.ProjectDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument reports each request to the HTTP hooks under its route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}
