// Package render produces and packages flow graph visualizations.
//
// # Overview
//
// This package ties the drawing pipeline together. The [diagram]
// subpackage translates a flow graph into a Graphviz drawing; this
// package wraps the rendered output in a [FlowImage] that carries the
// raster and vector encodings side by side.
//
// # Usage
//
// The one-call path from graph to saved file:
//
//	img, err := render.Render(ctx, g, diagram.Options{})
//	if err != nil { ... }
//	err = img.Save("flow.png")
//
// Or step by step, keeping the intermediate drawing:
//
//	d := diagram.Build(g, diagram.Options{Curvy: true})
//	png, svg, err := diagram.Render(ctx, d)
//	img, err := render.NewFlowImage(png, svg)
//
// # Output Formats
//
// A [FlowImage] saves to SVG by writing its stored markup verbatim, and
// to raster formats (PNG, JPEG, GIF, TIFF, BMP) through the
// [github.com/disintegration/imaging] encoder. [FlowImage.Encode] writes
// the raster encoding to a stream, and [FlowImage.Show] opens a preview
// in the system image viewer.
//
// [diagram]: github.com/matzehuels/flowviz/pkg/render/diagram
package render
