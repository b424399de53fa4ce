// Package flow provides the task-graph model that upstream computation-flow
// engines export and flowviz renders.
//
// # Overview
//
// A flow is a directed acyclic graph of tasks. Each task computes one
// entity; an entity may be computed by several tasks (one per case), in
// which case [Task.Index] records the task's position within the entity.
// Edges express data dependencies: an edge from a to b means b consumes a's
// output.
//
// The renderer groups tasks into visual clusters by entity and colors each
// cluster, so a task's Entity and Index are part of the drawing contract,
// not just bookkeeping.
//
// # Basic Usage
//
// Create a graph with [New], add tasks with [Graph.AddTask], and edges with
// [Graph.AddEdge]. Task IDs and display names must be unique:
//
//	g := flow.New(nil)
//	g.AddTask(flow.Task{ID: "frame", Entity: "raw_frame"})
//	g.AddTask(flow.Task{ID: "model", Entity: "model", Doc: "fits the estimator"})
//	g.AddEdge("frame", "model")
//
// Query structure with [Graph.Successors], [Graph.Predecessors],
// [Graph.Sources], and [Graph.Sinks]. [Graph.Entities] lists the distinct
// entity labels in first-seen order - the order clusters are drawn in.
//
// # Ordering
//
// Task and edge iteration follow insertion order. The renderer derives
// cluster order, hue assignment, and edge emission from iteration order, so
// graphs that decode the same bytes always produce the same drawing.
//
// # Serialization
//
// [WriteJSON] and [ReadJSON] (with the [ExportJSON]/[ImportJSON] file
// wrappers) exchange graphs with flow engines as JSON. The format
// round-trips without reordering tasks or edges.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph; read-only
// traversals of an already-built graph can run in parallel.
package flow
