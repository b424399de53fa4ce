// Package pkg provides the core libraries for flowviz task flow visualization.
//
// # Overview
//
// Flowviz turns exported task flow graphs into entity-grouped diagrams:
// every task becomes a box, every entity a color-coded cluster, and every
// data dependency an edge. The pkg directory is organized into four main
// areas:
//
//  1. [flow] - Domain model (tasks, entities, edges, JSON serialization)
//  2. [render] - Diagram construction and Graphviz rendering
//  3. [source], [cache] - Graph loading and result caching
//  4. [pipeline] - Orchestration (build → render)
//
// # Architecture
//
// The typical data flow through flowviz:
//
//	Flow export (file, URL, stdin)
//	         ↓
//	    [source] package (load + validate)
//	         ↓
//	    [flow] package (graph structure)
//	         ↓
//	    [render/diagram] package (styling + layout)
//	         ↓
//	    SVG/PNG/DOT output
//
// # Quick Start
//
// Load a flow and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/flowviz/pkg/pipeline"
//	    "github.com/matzehuels/flowviz/pkg/source"
//	)
//
//	// 1. Load the flow graph
//	loader := source.NewLoader(nil, nil, nil)
//	g, _ := loader.Load(context.Background(), "train.json")
//
//	// 2. Render it
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), g, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Domain Model
//
// [flow] - Task flow graph: tasks keyed by stable ID, grouped into
// entities, connected by directed data dependencies. Includes JSON
// round-tripping and cycle validation.
//
// [palette] - Evenly spaced HPLuv colors for entity clusters.
//
// ## Rendering
//
// [render/diagram] - Translates a flow graph into a styled drawing:
// clusters per entity, fill colors from the palette, tooltips from task
// docs. Serializes to DOT and renders PNG+SVG through Graphviz.
//
// [render] - FlowImage combines a decoded bitmap with SVG text and
// handles saving, encoding, and opening a preview.
//
// ## Loading and Caching
//
// [source] - Resolves a flow ref (file path, http(s) URL, or "-" for
// stdin) into a validated graph, with HTTP retries and graph caching.
//
// [cache] - Cache backends (file, Redis, null) plus content hashing and
// the key scheme shared by graph and artifact caching.
//
// ## Orchestration
//
// [pipeline] - Complete render pipeline (build → render) used by the
// CLI and the preview server. Ensures consistent behavior across entry
// points, including artifact caching.
//
// [errors] - Coded errors with user-facing messages, plus input
// validation for refs and output paths.
//
// [httputil] - Retry with backoff for transient HTTP failures.
//
// [observability] - Optional hooks for pipeline, cache, and HTTP
// instrumentation.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/flow/...       # Specific package
//	go test -run Example         # Examples only
//	go test -short ./pkg/...     # Skip tests that invoke Graphviz
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/flow
// [palette]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/palette
// [render]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/render
// [render/diagram]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/render/diagram
// [source]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowviz/pkg/buildinfo
package pkg
