package diagram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOT serializes the diagram to Graphviz DOT source.
//
// Output is deterministic for a given diagram: clusters, nodes, and edges
// appear in the order they were built. Edges are drawn before nodes
// (outputorder=edgesfirst) so boxes occlude edge endpoints.
func (d *Diagram) DOT() []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", d.rankdir())
	fmt.Fprintf(&buf, "  splines=%s;\n", d.splines())
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("\n")

	for _, c := range d.Clusters {
		fmt.Fprintf(&buf, "  subgraph %s {\n", quote("cluster_"+c.Label))
		buf.WriteString("    style=invis;\n")
		for _, n := range c.Nodes {
			fmt.Fprintf(&buf, "    %s [tooltip=%s, style=filled, fillcolor=%s, shape=box];\n",
				quote(n.Name), quote(n.Tooltip), quote(n.FillColor))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [arrowhead=%s, tailport=%s];\n",
			quote(e.From), quote(e.To), e.ArrowHead, e.TailPort)
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

// quote wraps s in double quotes for DOT. Only the quote and backslash
// characters need escaping; embedded whitespace and non-ASCII text pass
// through unchanged, which keeps tooltips verbatim.
func quote(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			buf.WriteRune(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

// Render lays out the diagram with Graphviz and returns the PNG and SVG
// encodings. Both come from a single Graphviz session so they always
// describe the same layout.
func Render(ctx context.Context, d *Diagram) (png, svg []byte, err error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(d.DOT())
	if err != nil {
		return nil, nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var pngBuf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &pngBuf); err != nil {
		return nil, nil, fmt.Errorf("render PNG: %w", err)
	}

	var svgBuf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &svgBuf); err != nil {
		return nil, nil, fmt.Errorf("render SVG: %w", err)
	}

	return pngBuf.Bytes(), svgBuf.Bytes(), nil
}
