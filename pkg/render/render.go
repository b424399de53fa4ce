package render

import (
	"context"

	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/render/diagram"
)

// Render builds the drawing for a flow graph, lays it out with Graphviz,
// and wraps both output encodings in a [FlowImage].
//
// This is the one-call path from graph to image:
//
//	img, err := render.Render(ctx, g, diagram.Options{Vertical: true})
//	if err != nil { ... }
//	err = img.Save("flow.svg")
func Render(ctx context.Context, g *flow.Graph, opts diagram.Options, imgOpts ...Option) (*FlowImage, error) {
	d := diagram.Build(g, opts)
	png, svg, err := diagram.Render(ctx, d)
	if err != nil {
		return nil, err
	}
	return NewFlowImage(png, svg, imgOpts...)
}
