package diagram

import (
	"testing"

	"github.com/matzehuels/flowviz/pkg/flow"
	"github.com/matzehuels/flowviz/pkg/palette"
)

func buildTestGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New(nil)

	tasks := []flow.Task{
		{ID: "raw", Name: "raw_frame", Doc: "load the raw frame", Index: 0, Entity: "data"},
		{ID: "split", Name: "train_test_split", Doc: "\ttrain test split\n", Index: 1, Entity: "data"},
		{ID: "feat", Name: "features", Index: 0, Entity: "features"},
		{ID: "model", Name: "model", Doc: "fit the model", Index: 0, Entity: "model"},
	}
	for _, task := range tasks {
		if err := g.AddTask(task); err != nil {
			t.Fatalf("AddTask(%q) error: %v", task.ID, err)
		}
	}

	edges := [][2]string{
		{"raw", "split"},
		{"split", "feat"},
		{"feat", "model"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%q, %q) error: %v", e[0], e[1], err)
		}
	}

	return g
}

func TestBuildClusterPartition(t *testing.T) {
	g := buildTestGraph(t)
	d := Build(g, Options{})

	seen := make(map[string]string)
	for _, c := range d.Clusters {
		for _, n := range c.Nodes {
			if prev, ok := seen[n.Name]; ok {
				t.Errorf("node %q appears in clusters %q and %q", n.Name, prev, c.Label)
			}
			seen[n.Name] = c.Label
		}
	}

	for _, task := range g.Tasks() {
		label, ok := seen[task.Name]
		if !ok {
			t.Errorf("task %q missing from all clusters", task.Name)
			continue
		}
		if label != task.Entity {
			t.Errorf("task %q in cluster %q, want %q", task.Name, label, task.Entity)
		}
	}
	if len(seen) != g.TaskCount() {
		t.Errorf("clustered %d nodes, want %d", len(seen), g.TaskCount())
	}
}

func TestBuildClusterOrderFollowsEntities(t *testing.T) {
	g := buildTestGraph(t)
	d := Build(g, Options{})

	want := g.Entities()
	if len(d.Clusters) != len(want) {
		t.Fatalf("got %d clusters, want %d", len(d.Clusters), len(want))
	}
	for i, c := range d.Clusters {
		if c.Label != want[i] {
			t.Errorf("cluster[%d] = %q, want %q", i, c.Label, want[i])
		}
	}
}

func TestBuildNodeOrderByIndex(t *testing.T) {
	g := flow.New(nil)
	tasks := []flow.Task{
		{ID: "c", Name: "c", Index: 2, Entity: "grp"},
		{ID: "a", Name: "a", Index: 0, Entity: "grp"},
		{ID: "b1", Name: "b1", Index: 1, Entity: "grp"},
		{ID: "b2", Name: "b2", Index: 1, Entity: "grp"},
	}
	for _, task := range tasks {
		if err := g.AddTask(task); err != nil {
			t.Fatalf("AddTask(%q) error: %v", task.ID, err)
		}
	}

	d := Build(g, Options{})
	if len(d.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(d.Clusters))
	}

	var got []string
	for _, n := range d.Clusters[0].Nodes {
		got = append(got, n.Name)
	}
	// b1 precedes b2: equal indexes keep insertion order.
	want := []string{"a", "b1", "b2", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildTooltips(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "verbatim text",
			doc:  "fit the model",
			want: "fit the model",
		},
		{
			name: "embedded whitespace",
			doc:  "\ttrain test split\n",
			want: "\ttrain test split\n",
		},
		{
			name: "non-ASCII",
			doc:  "fraüd modeling",
			want: "fraüd modeling",
		},
		{
			name: "absent doc",
			doc:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := flow.New(nil)
			if err := g.AddTask(flow.Task{ID: "foo", Name: "foo", Doc: tt.doc, Entity: "buzz"}); err != nil {
				t.Fatalf("AddTask error: %v", err)
			}

			d := Build(g, Options{})
			if len(d.Clusters) != 1 || d.Clusters[0].Label != "buzz" {
				t.Fatalf("got clusters %+v, want single cluster %q", d.Clusters, "buzz")
			}
			if got := d.Clusters[0].Nodes[0].Tooltip; got != tt.want {
				t.Errorf("Tooltip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFillColors(t *testing.T) {
	g := buildTestGraph(t)
	d := Build(g, Options{})

	want := palette.Assign(g.Entities(), 99, 90)
	byLabel := make(map[string]string)
	for _, c := range d.Clusters {
		for _, n := range c.Nodes {
			if n.FillColor != want[c.Label] {
				t.Errorf("cluster %q node %q fill = %q, want %q", c.Label, n.Name, n.FillColor, want[c.Label])
			}
		}
		byLabel[c.Label] = c.Nodes[0].FillColor
	}

	if byLabel["data"] == byLabel["model"] {
		t.Errorf("entities %q and %q share fill color %q", "data", "model", byLabel["data"])
	}
}

func TestBuildEdges(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantPort string
	}{
		{
			name:     "horizontal attaches east",
			opts:     Options{},
			wantPort: "e",
		},
		{
			name:     "vertical attaches south",
			opts:     Options{Vertical: true},
			wantPort: "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildTestGraph(t)
			d := Build(g, tt.opts)

			if len(d.Edges) != g.EdgeCount() {
				t.Fatalf("got %d edges, want %d", len(d.Edges), g.EdgeCount())
			}
			first := d.Edges[0]
			if first.From != "raw_frame" || first.To != "train_test_split" {
				t.Errorf("edge[0] = %s -> %s, want raw_frame -> train_test_split", first.From, first.To)
			}
			for _, e := range d.Edges {
				if e.ArrowHead != "open" {
					t.Errorf("edge %s -> %s arrowhead = %q, want open", e.From, e.To, e.ArrowHead)
				}
				if e.TailPort != tt.wantPort {
					t.Errorf("edge %s -> %s tailport = %q, want %q", e.From, e.To, e.TailPort, tt.wantPort)
				}
			}
		})
	}
}

func TestBuildOrientationFlags(t *testing.T) {
	g := buildTestGraph(t)

	d := Build(g, Options{Vertical: true, Curvy: true})
	if !d.Vertical || !d.Curvy {
		t.Errorf("flags = vertical %v curvy %v, want both true", d.Vertical, d.Curvy)
	}

	d = Build(g, Options{})
	if d.Vertical || d.Curvy {
		t.Errorf("flags = vertical %v curvy %v, want both false", d.Vertical, d.Curvy)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	d := Build(flow.New(nil), Options{})
	if len(d.Clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(d.Clusters))
	}
	if len(d.Edges) != 0 {
		t.Errorf("got %d edges, want 0", len(d.Edges))
	}
}
