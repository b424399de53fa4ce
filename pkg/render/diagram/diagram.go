package diagram

// Fill color parameters for entity clusters. Hues are spread evenly
// around the wheel, so these two constants fully determine the palette.
const (
	fillSaturation = 99
	fillLightness  = 90
)

// Options configures drawing construction.
type Options struct {
	// Vertical ranks tasks top to bottom instead of left to right.
	Vertical bool
	// Curvy routes edges as splines instead of straight lines.
	Curvy bool
}

// Diagram is a backend-ready description of a styled flow drawing.
// It is produced by [Build] and consumed by [Render] or serialized
// with [Diagram.DOT].
type Diagram struct {
	Vertical bool
	Curvy    bool
	Clusters []Cluster
	Edges    []Edge
}

// Cluster groups the tasks of one entity. Clusters have no visible
// border; they exist to keep an entity's tasks adjacent in the layout.
type Cluster struct {
	Label string
	Nodes []Node
}

// Node is a single styled task declaration. Name doubles as the
// Graphviz node key, so it must be unique across the whole drawing.
type Node struct {
	Name      string
	Tooltip   string
	FillColor string
}

// Edge is a directed connection between two nodes, referenced by name.
type Edge struct {
	From      string
	To        string
	ArrowHead string
	TailPort  string
}

func (d *Diagram) rankdir() string {
	if d.Vertical {
		return "TB"
	}
	return "LR"
}

func (d *Diagram) splines() string {
	if d.Curvy {
		return "spline"
	}
	return "line"
}
