// Package server exposes the snowball pipeline as an HTTP API.
//
// Every request builds its own simulation, so requests never share state
// beyond the artifact cache. The routes are:
//
//	GET  /healthz                        liveness probe
//	GET  /version                        build information
//	GET  /v1/scenarios                   built-in scenario summaries
//	GET  /v1/scenarios/{name}            a built-in scenario as TOML
//	GET  /v1/scenarios/{name}/{format}   render a built-in scenario
//	POST /v1/render                      render a submitted scenario
//
// Rendered artifacts are returned as the response body with the format's
// content type. The X-Run-ID header carries the run id used in the
// server's logs and X-Cache reports whether the artifact came from the
// cache. Errors are JSON objects with a machine-readable code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/snowball/pkg/cache"
	"github.com/matzehuels/snowball/pkg/observability"
	"github.com/matzehuels/snowball/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used by the serve command.
	DefaultAddr = ":8080"

	// MaxBodyBytes bounds a render request body.
	MaxBodyBytes = 1 << 20

	// DefaultRunTimeout bounds one render request.
	DefaultRunTimeout = 2 * time.Minute

	// shutdownTimeout is how long in-flight requests may take to finish
	// after the context is cancelled.
	shutdownTimeout = 10 * time.Second

	// keyPrefix scopes API cache entries apart from CLI runs.
	keyPrefix = "api:"
)

// Server serves the pipeline over HTTP.
type Server struct {
	runner     *pipeline.Runner
	logger     *log.Logger
	timeout    time.Duration
	maxWorkers int
	slots      chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request errors and runs.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds the time a single render may take.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConcurrency limits the number of simulations running at once.
// Requests beyond the limit wait for a free slot until their context ends.
func WithConcurrency(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.slots = make(chan struct{}, n)
		}
	}
}

// WithMaxWorkers caps the per-run worker count a request may ask for.
func WithMaxWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

// New creates a server that caches artifacts in store.
func New(store cache.Cache, opts ...Option) *Server {
	s := &Server{
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		timeout:    DefaultRunTimeout,
		maxWorkers: runtime.NumCPU(),
		slots:      make(chan struct{}, runtime.NumCPU()),
	}
	for _, opt := range opts {
		opt(s)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyPrefix)
	s.runner = pipeline.NewRunner(store, keyer, s.logger)
	return s
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/scenarios", s.listScenarios)
		r.Get("/scenarios/{name}", s.showScenario)
		r.Get("/scenarios/{name}/{format}", s.renderBuiltin)
		r.Post("/render", s.render)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path, "")
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
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the cache.
func (s *Server) Close() error {
	return s.runner.Close()
}

// observe reports every request to the registered server hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()

		next.ServeHTTP(ww, r)

		// The route pattern is only known once chi has routed the request.
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
