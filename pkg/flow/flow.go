package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidTaskID is returned by [Graph.AddTask] when the task ID is
	// empty. All tasks must have non-empty identifiers.
	ErrInvalidTaskID = errors.New("task ID must not be empty")

	// ErrDuplicateTaskID is returned by [Graph.AddTask] when a task with the
	// same ID already exists in the graph. Task IDs must be unique.
	ErrDuplicateTaskID = errors.New("duplicate task ID")

	// ErrDuplicateTaskName is returned by [Graph.AddTask] when another task
	// already uses the same display name. Names key the rendering backend,
	// so they must be unique across the graph.
	ErrDuplicateTaskName = errors.New("duplicate task name")

	// ErrUnknownSourceTask is returned by [Graph.AddEdge] when the From task
	// does not exist in the graph.
	ErrUnknownSourceTask = errors.New("unknown source task")

	// ErrUnknownTargetTask is returned by [Graph.AddEdge] when the To task
	// does not exist in the graph.
	ErrUnknownTargetTask = errors.New("unknown target task")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected. Flow graphs must be acyclic; cycles are detected using
	// depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to tasks or the graph.
// Upstream flow engines use it to carry provenance (case keys, protocol
// versions) that rendering ignores. Metadata maps are never nil - they are
// automatically initialized to empty maps when needed.
type Metadata map[string]any

// Task represents a single unit of computation in a flow graph.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Task struct {
	ID     string   // Unique identifier (stable across runs)
	Name   string   // Display name, keys the rendering backend (defaults to ID)
	Doc    string   // Free-text description, surfaced as a tooltip ("" if absent)
	Index  int      // Position among the entity's tasks; orders nodes inside a cluster
	Entity string   // Entity this task computes; groups tasks into visual clusters
	Meta   Metadata // Arbitrary key-value metadata (never nil after AddTask)
}

// Edge represents a directed data dependency between two tasks: the From
// task's output feeds the To task.
type Edge struct {
	From string // Source task ID
	To   string // Target task ID
}

// Graph is a directed graph of tasks as produced by an upstream flow engine.
//
// Task iteration order is insertion order. This matters downstream: cluster
// order, the category→hue assignment, and edge emission are all derived from
// it, so a graph built (or decoded) the same way always draws the same way.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	tasks    map[string]*Task
	order    []string // task IDs in insertion order
	names    map[string]string
	edges    []Edge
	outgoing map[string][]string // taskID -> successor IDs
	incoming map[string][]string // taskID -> predecessor IDs
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		tasks:    make(map[string]*Task),
		names:    make(map[string]string),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Meta() Metadata { return g.meta }

// AddTask adds a task to the graph.
// Returns ErrInvalidTaskID if the task ID is empty, ErrDuplicateTaskID if a
// task with the same ID already exists, or ErrDuplicateTaskName if another
// task already claims the same display name. An empty Name defaults to the
// task's ID. The task's Meta field is automatically initialized to an empty
// map if nil.
func (g *Graph) AddTask(t Task) error {
	if t.ID == "" {
		return ErrInvalidTaskID
	}
	if _, exists := g.tasks[t.ID]; exists {
		return ErrDuplicateTaskID
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	if _, exists := g.names[t.Name]; exists {
		return ErrDuplicateTaskName
	}
	if t.Meta == nil {
		t.Meta = Metadata{}
	}
	task := &t
	g.tasks[task.ID] = task
	g.order = append(g.order, task.ID)
	g.names[task.Name] = task.ID
	return nil
}

// AddEdge adds a directed edge between two existing tasks.
// Returns ErrUnknownSourceTask if the From task doesn't exist, or
// ErrUnknownTargetTask if the To task doesn't exist.
//
// AddEdge does not check for cycles - use Validate after building the
// graph. Multiple edges between the same tasks are allowed (though unusual
// in flow graphs).
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.tasks[from]; !ok {
		return ErrUnknownSourceTask
	}
	if _, ok := g.tasks[to]; !ok {
		return ErrUnknownTargetTask
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// Tasks returns all tasks in insertion order.
// The returned slice contains pointers to the actual task structs, so
// modifications affect the graph (except for ID and Name changes, which
// would corrupt the indices).
func (g *Graph) Tasks() []*Task {
	tasks := make([]*Task, len(g.order))
	for i, id := range g.order {
		tasks[i] = g.tasks[id]
	}
	return tasks
}

// Edges returns a copy of all edges in insertion order.
// Modifications to the returned slice do not affect the graph.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int { return len(g.tasks) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Task returns the task with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual task in the graph.
func (g *Graph) Task(id string) (*Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskByName returns the task with the given display name and true, or nil
// and false if not found.
func (g *Graph) TaskByName(name string) (*Task, bool) {
	id, ok := g.names[name]
	if !ok {
		return nil, false
	}
	return g.tasks[id], true
}

// Successors returns the IDs of tasks this task feeds into.
// Returns nil if the task has no successors or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of tasks feeding into this task.
// Returns nil if the task has no predecessors or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Sources returns tasks with no incoming edges, in insertion order.
// These are the flow's raw inputs. Returns nil for an empty graph.
func (g *Graph) Sources() []*Task {
	var sources []*Task
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.tasks[id])
		}
	}
	return sources
}

// Sinks returns tasks with no outgoing edges, in insertion order.
// These are the flow's terminal outputs. Returns nil for an empty graph.
func (g *Graph) Sinks() []*Task {
	var sinks []*Task
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, g.tasks[id])
		}
	}
	return sinks
}

// Entities returns the distinct entity labels in first-seen task order.
// The diagram builder derives cluster order and the color wheel from this,
// so the order is part of the graph's observable behavior.
func (g *Graph) Entities() []string {
	seen := make(map[string]bool, len(g.order))
	var entities []string
	for _, id := range g.order {
		e := g.tasks[id].Entity
		if !seen[e] {
			seen[e] = true
			entities = append(entities, e)
		}
	}
	return entities
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that the graph is acyclic. Upstream flow engines guarantee
// this for graphs they export, so rendering does not call Validate - it is
// a guard for graphs assembled by hand or decoded from untrusted input.
//
// Returns ErrGraphHasCycle if a directed cycle is detected.
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.tasks))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, succ := range g.outgoing[id] {
			switch color[succ] {
			case white:
				dfs(succ)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
