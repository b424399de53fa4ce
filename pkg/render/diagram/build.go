package diagram

import (
	"cmp"
	"slices"

	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/palette"
)

// Build converts a flow graph into a drawing description.
//
// Tasks are partitioned into one cluster per entity, entities ordered by
// first appearance in the graph. Within a cluster, tasks are sorted by
// ascending index; ties keep insertion order. Each cluster's nodes share
// a fill color assigned via [palette.Assign] over the entity labels.
//
// Edges reference tasks by display name and attach at the tail's south
// side for vertical layouts, east side otherwise.
func Build(g *flow.Graph, opts Options) *Diagram {
	entities := g.Entities()
	colors := FillColors(entities)

	groups := make(map[string][]*flow.Task)
	for _, t := range g.Tasks() {
		groups[t.Entity] = append(groups[t.Entity], t)
	}

	d := &Diagram{Vertical: opts.Vertical, Curvy: opts.Curvy}
	for _, entity := range entities {
		tasks := groups[entity]
		slices.SortStableFunc(tasks, func(a, b *flow.Task) int {
			return cmp.Compare(a.Index, b.Index)
		})

		cluster := Cluster{Label: entity}
		for _, t := range tasks {
			cluster.Nodes = append(cluster.Nodes, Node{
				Name:      t.Name,
				Tooltip:   t.Doc,
				FillColor: colors[entity],
			})
		}
		d.Clusters = append(d.Clusters, cluster)
	}

	tailPort := "e"
	if opts.Vertical {
		tailPort = "s"
	}
	for _, e := range g.Edges() {
		from, _ := g.Task(e.From)
		to, _ := g.Task(e.To)
		d.Edges = append(d.Edges, Edge{
			From:      from.Name,
			To:        to.Name,
			ArrowHead: "open",
			TailPort:  tailPort,
		})
	}

	return d
}

// FillColors returns the cluster fill palette for the given entity
// labels, at the saturation and lightness every diagram uses. Exposed
// so callers can preview the palette a render would produce.
func FillColors(labels []string) map[string]string {
	return palette.Assign(labels, fillSaturation, fillLightness)
}

// EntityColors returns the fill color each of g's entities would
// receive in a rendered diagram, keyed by entity label.
func EntityColors(g *flow.Graph) map[string]string {
	return FillColors(g.Entities())
}
