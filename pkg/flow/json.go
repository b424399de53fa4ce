package flow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type graphJSON struct {
	Tasks []taskJSON `json:"tasks"`
	Edges []edgeJSON `json:"edges"`
	Meta  Metadata   `json:"meta,omitempty"`
}

type taskJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Doc    string   `json:"doc,omitempty"`
	Index  int      `json:"index,omitempty"`
	Entity string   `json:"entity"`
	Meta   Metadata `json:"meta,omitempty"`
}

type edgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a Graph as JSON and writes it to w.
// The output includes all tasks (with metadata) and edges in insertion
// order, so it round-trips through [ReadJSON] without reordering anything.
// A task's name is omitted when it equals the ID.
func WriteJSON(g *Graph, w io.Writer) error {
	out := graphJSON{
		Tasks: make([]taskJSON, len(g.order)),
		Edges: make([]edgeJSON, len(g.edges)),
	}
	if len(g.meta) > 0 {
		out.Meta = g.meta
	}

	for i, t := range g.Tasks() {
		tj := taskJSON{ID: t.ID, Doc: t.Doc, Index: t.Index, Entity: t.Entity}
		if t.Name != t.ID {
			tj.Name = t.Name
		}
		if len(t.Meta) > 0 {
			tj.Meta = t.Meta
		}
		out.Tasks[i] = tj
	}
	for i, e := range g.edges {
		out.Edges[i] = edgeJSON{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a Graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ReadJSON decodes a JSON graph from r into a Graph.
//
// The input must be a JSON object with "tasks" and "edges" arrays:
//
//	{
//	  "tasks": [
//	    {"id": "a", "entity": "frame"},
//	    {"id": "b", "entity": "model", "doc": "fits the estimator"}
//	  ],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Each task must have an "id" field. Optional fields:
//   - name: display name (defaults to the ID)
//   - doc: free-text description shown as a tooltip
//   - index: draw order within the entity's cluster (defaults to 0)
//   - meta: object with arbitrary key-value pairs
//
// Each edge must have "from" and "to" fields that reference task IDs.
//
// ReadJSON returns an error if the JSON is malformed, a task has a
// duplicate ID or name, or an edge references an unknown task. Errors are
// wrapped with context naming the offending task or edge; use errors.Is to
// check for the specific graph errors.
//
// The returned Graph is independent of r and can be modified safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Graph, error) {
	var data graphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New(data.Meta)
	for _, tj := range data.Tasks {
		t := Task{
			ID:     tj.ID,
			Name:   tj.Name,
			Doc:    tj.Doc,
			Index:  tj.Index,
			Entity: tj.Entity,
			Meta:   tj.Meta,
		}
		if err := g.AddTask(t); err != nil {
			return nil, fmt.Errorf("task %q: %w", tj.ID, err)
		}
	}
	for _, ej := range data.Edges {
		if err := g.AddEdge(ej.From, ej.To); err != nil {
			return nil, fmt.Errorf("edge %q -> %q: %w", ej.From, ej.To, err)
		}
	}
	return g, nil
}

// ImportJSON reads a Graph from a JSON file at path.
// This is a convenience wrapper around [ReadJSON] for file-based input.
func ImportJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}
