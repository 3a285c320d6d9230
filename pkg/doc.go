// Package pkg provides the core libraries of flowbox, a flow layout engine.
//
// # Overview
//
// flowbox places an ordered sequence of rectangular boxes into wrapped lines
// inside a container, the way text flows across a page. The pkg directory
// is organized into three areas:
//
//  1. [flow] - The layout engine itself (line breaking, sizing, gravity)
//  2. [host] - Host adapters that drive [flow] for containers and recyclers
//  3. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow through flowbox:
//
//	Scene file (TOML, YAML or JSON)
//	         ↓
//	    [scene] package (decode + validate)
//	         ↓
//	    [flow] package (layout pass)
//	         ↓
//	    [layoutfile] package (placed frames)
//	         ↓
//	    [render] package → SVG/PNG/PDF/JSON/DOT output
//
// # Quick Start
//
// Lay out boxes directly:
//
//	res := flow.Layout(flow.Boxes{
//	    {ID: "a", Width: 30, Height: 20},
//	    {ID: "b", Width: 30, Height: 10},
//	}, flow.Config{MaxWidth: 50, WidthMode: flow.AtMost})
//
//	for i, r := range res.Frames() {
//	    fmt.Println(i, r)
//	}
//
// Or run a scene file through the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   "toolbar.toml",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// # Main Packages
//
// ## Layout
//
// [flow] - Boxes, gravity, measure modes and the layout pass. Pure, never
// fails, and safe to call from any goroutine.
//
// [host] - A [host.Container] that owns its children and a [host.Recycler]
// that lays out only the items an adapter reports.
//
// ## Documents
//
// [scene] - Scene documents describing a container and its boxes.
//
// [layoutfile] - The serialized result of a layout pass. Renderers read
// layout files, never live layout state.
//
// ## Visualization
//
// [render] - Format conversion plus the [render/sink] box renderers, the
// [render/styles] palettes and the [render/structure] Graphviz diagram.
//
// ## Infrastructure
//
// [pipeline] - The load → layout → render pipeline shared by the CLI and the
// HTTP server.
//
// [cache] - Content-addressed caches (file, Redis, null) keyed by the
// scene hash and the options.
//
// [store] - Persistent layout records (memory and MongoDB).
//
// [httputil] and [client] - HTTP plumbing and the client of the layout
// server.
//
// [errors] - Coded errors shared by every package, with HTTP status and
// user message mapping.
//
// [observability] - Hooks around pipeline stages.
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/flow
// [host]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/host
// [host.Container]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/host#Container
// [host.Recycler]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/host#Recycler
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/pipeline
// [scene]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/scene
// [layoutfile]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/layoutfile
// [render]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/render/styles
// [render/structure]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/render/structure
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/store
// [httputil]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/httputil
// [client]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/client
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowbox/pkg/observability
package pkg
