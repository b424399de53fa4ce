package server

import (
	"html/template"
	"net/http"

	"github.com/matzehuels/flowviz/pkg/pipeline"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>flowviz - {{.Source}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1f2430; }
  header { display: flex; align-items: baseline; gap: 1rem; flex-wrap: wrap; }
  h1 { font-size: 1.3rem; margin: 0; }
  .meta { color: #6b7280; font-size: 0.9rem; }
  nav a { margin-right: 0.75rem; font-size: 0.9rem; }
  .diagram { margin-top: 1.5rem; overflow: auto; border: 1px solid #e5e7eb; border-radius: 6px; padding: 1rem; }
  .diagram svg { max-width: 100%; height: auto; }
</style>
</head>
<body>
<header>
  <h1>{{.Source}}</h1>
  <span class="meta">{{.TaskCount}} tasks, {{.EdgeCount}} edges, {{.EntityCount}} entities</span>
</header>
<nav>
  <a href="/diagram.svg{{.Query}}">svg</a>
  <a href="/diagram.png{{.Query}}">png</a>
  <a href="/diagram.dot{{.Query}}">dot</a>
  <a href="/graph.json">graph</a>
  {{if .Vertical}}<a href="/{{.ToggleVertical}}">horizontal</a>{{else}}<a href="/{{.ToggleVertical}}">vertical</a>{{end}}
  {{if .Curvy}}<a href="/{{.ToggleCurvy}}">straight</a>{{else}}<a href="/{{.ToggleCurvy}}">curvy</a>{{end}}
</nav>
<div class="diagram">
{{.SVG}}
</div>
</body>
</html>
`))

type indexData struct {
	Source         string
	TaskCount      int
	EdgeCount      int
	EntityCount    int
	Vertical       bool
	Curvy          bool
	Query          string
	ToggleVertical string
	ToggleCurvy    string
	SVG            template.HTML
}

// handleIndex serves the HTML page with the diagram inlined.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts := renderOptions(r, pipeline.FormatSVG)

	g, err := s.loadGraph(r.Context(), opts.Refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := indexData{
		Source:         s.cfg.Source,
		TaskCount:      g.TaskCount(),
		EdgeCount:      g.EdgeCount(),
		EntityCount:    len(g.Entities()),
		Vertical:       opts.Vertical,
		Curvy:          opts.Curvy,
		Query:          optionsQuery(opts.Vertical, opts.Curvy),
		ToggleVertical: optionsQuery(!opts.Vertical, opts.Curvy),
		ToggleCurvy:    optionsQuery(opts.Vertical, !opts.Curvy),
		SVG:            template.HTML(result.Artifacts[pipeline.FormatSVG]),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index page", "err", err)
	}
}

// optionsQuery serializes the toggles back into a query string, empty
// when both are off so default links stay clean.
func optionsQuery(vertical, curvy bool) string {
	switch {
	case vertical && curvy:
		return "?vertical=1&curvy=1"
	case vertical:
		return "?vertical=1"
	case curvy:
		return "?curvy=1"
	default:
		return ""
	}
}
