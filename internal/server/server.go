// Package server implements the flowviz preview server.
//
// The server binds one source ref and serves rendered views of it over
// HTTP: an HTML index with the inline diagram, the raw SVG/PNG/DOT
// artifacts, and the graph JSON. The ref is re-resolved on every request,
// so editing a local flow file and refreshing the browser shows the new
// graph; remote refs are served from the graph cache until it expires or
// ?refresh=1 is passed.
//
// # Endpoints
//
//	GET /             HTML page with the rendered diagram
//	GET /diagram.svg  rendered SVG
//	GET /diagram.png  rendered PNG
//	GET /diagram.dot  DOT source
//	GET /graph.json   the loaded flow graph
//	GET /healthz      liveness probe
//
// The diagram endpoints accept vertical, curvy, and refresh query
// parameters. Responses carry an ETag derived from the graph content, so
// unchanged diagrams answer If-None-Match with 304.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowviz/pkg/pipeline"
	"github.com/matzehuels/flowviz/pkg/source"
)

// DefaultShutdownTimeout bounds graceful shutdown once the context is
// cancelled.
const DefaultShutdownTimeout = 10 * time.Second

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr string

	// Source is the ref served by this instance.
	Source string

	// ShutdownTimeout bounds graceful shutdown. Defaults to
	// DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Server serves rendered views of a single flow graph.
type Server struct {
	cfg    Config
	loader *source.Loader
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a preview server for cfg.Source.
// If logger is nil, log.Default() is used.
func New(cfg Config, loader *source.Loader, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		loader: loader,
		runner: runner,
		logger: logger,
	}
}

// Routes builds the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/diagram.svg", s.handleDiagram(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/diagram.png", s.handleDiagram(pipeline.FormatPNG, "image/png"))
	r.Get("/diagram.dot", s.handleDiagram(pipeline.FormatDOT, "text/vnd.graphviz"))
	r.Get("/graph.json", s.handleGraphJSON)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts it
// down gracefully, draining in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Routes(),
		// Graphviz renders of large flows can take a few seconds, so the
		// write timeout is generous compared to the read timeout.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening",
			"addr", s.cfg.Addr,
			"source", s.cfg.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down preview server")
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs each request through the server's structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
