package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/matzehuels/flowviz/pkg/errors"
	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/pipeline"
)

// handleDiagram serves one rendered artifact format.
func (s *Server) handleDiagram(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := renderOptions(r, format)

		g, err := s.loadGraph(r.Context(), opts.Refresh)
		if err != nil {
			s.writeError(w, err)
			return
		}

		etag := makeETag(pipeline.GraphHash(g))
		if notModified(r, etag, opts.Refresh) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		result, err := s.runner.Execute(r.Context(), g, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		setETag(w, etag)
		_, _ = w.Write(result.Artifacts[format])
	}
}

// handleGraphJSON serves the loaded graph in its canonical JSON form.
func (s *Server) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	refresh := queryBool(r.URL.Query(), "refresh")

	g, err := s.loadGraph(r.Context(), refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}

	etag := makeETag(pipeline.GraphHash(g))
	if notModified(r, etag, refresh) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	setETag(w, etag)
	if err := flow.WriteJSON(g, w); err != nil {
		s.logger.Error("write graph JSON", "err", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// loadGraph resolves the configured source ref.
func (s *Server) loadGraph(ctx context.Context, refresh bool) (*flow.Graph, error) {
	g, _, err := s.loader.LoadWithCacheInfo(ctx, s.cfg.Source, refresh)
	return g, err
}

// renderOptions extracts pipeline options from query parameters.
func renderOptions(r *http.Request, format string) pipeline.Options {
	q := r.URL.Query()
	return pipeline.Options{
		Vertical: queryBool(q, "vertical"),
		Curvy:    queryBool(q, "curvy"),
		Refresh:  queryBool(q, "refresh"),
		Formats:  []string{format},
	}
}

func queryBool(q url.Values, name string) bool {
	v := q.Get(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// makeETag derives a strong ETag from the graph content hash. The render
// options are part of the request URL, so the hash alone identifies the
// representation.
func makeETag(graphHash string) string {
	if len(graphHash) < 16 {
		return ""
	}
	return `"` + graphHash[:16] + `"`
}

func setETag(w http.ResponseWriter, etag string) {
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
}

func notModified(r *http.Request, etag string, refresh bool) bool {
	if refresh || etag == "" {
		return false
	}
	return r.Header.Get("If-None-Match") == etag
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps application error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var rle *apperrors.RateLimitedError
	switch {
	case apperrors.Is(err, apperrors.ErrCodeGraphNotFound),
		apperrors.Is(err, apperrors.ErrCodeFileNotFound),
		apperrors.Is(err, apperrors.ErrCodeNotFound):
		status = http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrCodeInvalidInput),
		apperrors.Is(err, apperrors.ErrCodeInvalidFormat),
		apperrors.Is(err, apperrors.ErrCodeInvalidGraph):
		status = http.StatusBadRequest
	case errors.As(err, &rle):
		status = http.StatusTooManyRequests
		if rle.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfter))
		}
	}

	s.logger.Error("request failed", "status", status, "err", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}
