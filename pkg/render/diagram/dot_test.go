package diagram

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowviz/pkg/flow"
)

func TestDOTHeader(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			opts: Options{},
			want: []string{"rankdir=LR;", "splines=line;", "outputorder=edgesfirst;"},
		},
		{
			name: "vertical",
			opts: Options{Vertical: true},
			want: []string{"rankdir=TB;", "splines=line;"},
		},
		{
			name: "curvy",
			opts: Options{Curvy: true},
			want: []string{"rankdir=LR;", "splines=spline;"},
		},
		{
			name: "vertical curvy",
			opts: Options{Vertical: true, Curvy: true},
			want: []string{"rankdir=TB;", "splines=spline;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildTestGraph(t)
			dot := string(Build(g, tt.opts).DOT())

			if !strings.HasPrefix(dot, "digraph G {\n") {
				t.Errorf("DOT does not start with digraph header:\n%s", dot)
			}
			for _, want := range tt.want {
				if !strings.Contains(dot, want) {
					t.Errorf("DOT missing %q:\n%s", want, dot)
				}
			}
		})
	}
}

func TestDOTClusters(t *testing.T) {
	g := buildTestGraph(t)
	dot := string(Build(g, Options{}).DOT())

	for _, want := range []string{
		`subgraph "cluster_data" {`,
		`subgraph "cluster_features" {`,
		`subgraph "cluster_model" {`,
		"style=invis;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestDOTNodeAttributes(t *testing.T) {
	g := flow.New(nil)
	if err := g.AddTask(flow.Task{ID: "foo", Doc: "fraüd modeling", Entity: "buzz"}); err != nil {
		t.Fatalf("AddTask error: %v", err)
	}

	d := Build(g, Options{})
	dot := string(d.DOT())

	fill := d.Clusters[0].Nodes[0].FillColor
	want := `"foo" [tooltip="fraüd modeling", style=filled, fillcolor="` + fill + `", shape=box];`
	if !strings.Contains(dot, want) {
		t.Errorf("DOT missing node line %q:\n%s", want, dot)
	}
}

func TestDOTTooltipKeepsWhitespace(t *testing.T) {
	g := flow.New(nil)
	if err := g.AddTask(flow.Task{ID: "split", Doc: "\ttrain test split\n", Entity: "data"}); err != nil {
		t.Fatalf("AddTask error: %v", err)
	}

	dot := string(Build(g, Options{}).DOT())
	if !strings.Contains(dot, "tooltip=\"\ttrain test split\n\"") {
		t.Errorf("DOT does not keep tooltip whitespace verbatim:\n%s", dot)
	}
}

func TestDOTEdges(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "horizontal",
			opts: Options{},
			want: `"raw_frame" -> "train_test_split" [arrowhead=open, tailport=e];`,
		},
		{
			name: "vertical",
			opts: Options{Vertical: true},
			want: `"raw_frame" -> "train_test_split" [arrowhead=open, tailport=s];`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildTestGraph(t)
			dot := string(Build(g, tt.opts).DOT())
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing edge line %q:\n%s", tt.want, dot)
			}
		})
	}
}

func TestDOTDeterministic(t *testing.T) {
	g := buildTestGraph(t)
	d := Build(g, Options{Curvy: true})

	first := d.DOT()
	second := d.DOT()
	if !bytes.Equal(first, second) {
		t.Errorf("DOT output differs between calls:\n%s\n---\n%s", first, second)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain",
			in:   "raw_frame",
			want: `"raw_frame"`,
		},
		{
			name: "empty",
			in:   "",
			want: `""`,
		},
		{
			name: "embedded quote",
			in:   `say "hi"`,
			want: `"say \"hi\""`,
		},
		{
			name: "backslash",
			in:   `a\b`,
			want: `"a\\b"`,
		},
		{
			name: "whitespace kept raw",
			in:   "\tindented\n",
			want: "\"\tindented\n\"",
		},
		{
			name: "non-ASCII",
			in:   "fraüd",
			want: `"fraüd"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quote(tt.in); got != tt.want {
				t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	g := buildTestGraph(t)
	d := Build(g, Options{Vertical: true})

	png, svg, err := Render(context.Background(), d)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("PNG output missing magic bytes, got %x", png[:min(len(png), 8)])
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("SVG output missing <svg element")
	}
	for _, name := range []string{"raw_frame", "train_test_split", "features", "model"} {
		if !bytes.Contains(svg, []byte(name)) {
			t.Errorf("SVG output missing node %q", name)
		}
	}
}
