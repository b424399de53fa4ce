package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowviz/pkg/render/diagram"
)

// renderFormats generates output artifacts in the requested formats.
// PNG and SVG come from a single Graphviz session so both reflect the
// same layout; DOT is serialized directly without invoking Graphviz.
func renderFormats(ctx context.Context, d *diagram.Diagram, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	needGraphviz := false
	for _, format := range formats {
		switch format {
		case FormatDOT:
			artifacts[FormatDOT] = d.DOT()
		case FormatPNG, FormatSVG:
			needGraphviz = true
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
	}

	if needGraphviz {
		png, svg, err := diagram.Render(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("render diagram: %w", err)
		}
		for _, format := range formats {
			switch format {
			case FormatPNG:
				artifacts[FormatPNG] = png
			case FormatSVG:
				artifacts[FormatSVG] = svg
			}
		}
	}

	return artifacts, nil
}
