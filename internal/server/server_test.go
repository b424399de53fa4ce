package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/pipeline"
	"github.com/matzehuels/flowviz/pkg/source"
)

const testFlow = `{
  "tasks": [
    {"id": "raw", "name": "raw_frame", "doc": "load the raw frame", "entity": "data"},
    {"id": "split", "name": "train_test_split", "entity": "data", "index": 1},
    {"id": "model", "doc": "fit the model", "entity": "model"}
  ],
  "edges": [
    {"from": "raw", "to": "split"},
    {"from": "split", "to": "model"}
  ]
}`

func newTestServer(t *testing.T, ref string) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	loader := source.NewLoader(nil, nil, logger)
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(Config{Addr: "127.0.0.1:0", Source: ref}, loader, runner, logger)
}

func writeTestFlow(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.json")
	if err := os.WriteFile(path, []byte(testFlow), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func get(t *testing.T, s *Server, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}

func TestGraphJSON(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/graph.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}

	g, err := flow.ReadJSON(rec.Body)
	if err != nil {
		t.Fatalf("response is not a valid graph: %v", err)
	}
	if g.TaskCount() != 3 {
		t.Errorf("TaskCount = %d, want 3", g.TaskCount())
	}
}

func TestGraphJSONNotModified(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	first := get(t, s, "/graph.json", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	second := get(t, s, "/graph.json", map[string]string{"If-None-Match": etag})
	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Errorf("304 response should have no body, got %d bytes", second.Body.Len())
	}
}

func TestDiagramDOT(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/diagram.dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	dot := rec.Body.String()
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("DOT should start with digraph header, got %q", dot[:min(40, len(dot))])
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("default orientation should be rankdir=LR")
	}
	for _, name := range []string{"raw_frame", "train_test_split", "model"} {
		if !strings.Contains(dot, name) {
			t.Errorf("DOT missing node %q", name)
		}
	}
}

func TestDiagramDOTQueryOptions(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/diagram.dot?vertical=1&curvy=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	dot := rec.Body.String()
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("vertical=1 should set rankdir=TB")
	}
	if !strings.Contains(dot, "splines=spline") {
		t.Error("curvy=1 should set splines=spline")
	}
}

func TestDiagramNotModified(t *testing.T) {
	s := newTestServer(t, writeTestFlow(t))

	first := get(t, s, "/diagram.dot", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	second := get(t, s, "/diagram.dot", map[string]string{"If-None-Match": etag})
	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.Code)
	}

	// refresh=1 bypasses the conditional check
	third := get(t, s, "/diagram.dot?refresh=1", map[string]string{"If-None-Match": etag})
	if third.Code != http.StatusOK {
		t.Errorf("refresh request status = %d, want 200", third.Code)
	}
}

func TestSourceNotFound(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "missing.json"))

	rec := get(t, s, "/graph.json", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if resp.Code != "FILE_NOT_FOUND" {
		t.Errorf("code = %q, want FILE_NOT_FOUND", resp.Code)
	}
}

func TestDiagramSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/diagram.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body missing <svg element")
	}
}

func TestIndexPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s := newTestServer(t, writeTestFlow(t))

	rec := get(t, s, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<svg") {
		t.Error("index should inline the SVG diagram")
	}
	if !strings.Contains(body, "3 tasks") {
		t.Error("index should show the task count")
	}
}
