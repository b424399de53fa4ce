// Package diagram translates flow graphs into Graphviz drawings.
//
// # Overview
//
// This package builds a backend-agnostic drawing description from a
// [flow.Graph] and renders it with Graphviz. Tasks are grouped into
// invisible clusters by entity, each entity receives a fill color from
// [palette.Assign], and edges carry open arrowheads whose attachment
// side follows the layout orientation.
//
// # Usage
//
// Build a diagram, then render it to both output encodings:
//
//	d := diagram.Build(g, diagram.Options{Vertical: true})
//	png, svg, err := diagram.Render(ctx, d)
//
// The intermediate [Diagram] value can also be serialized to DOT source
// for use with external Graphviz tooling:
//
//	dot := d.DOT()
//
// # Options
//
// The [Options] struct controls drawing construction:
//
//   - Vertical: When true, ranks flow top to bottom instead of left to right.
//   - Curvy: When true, edges are routed as splines instead of straight lines.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout
// and rendering, so no external Graphviz installation is required.
//
// [flow.Graph]: github.com/matzehuels/flowviz/pkg/flow
// [palette.Assign]: github.com/matzehuels/flowviz/pkg/palette
package diagram
