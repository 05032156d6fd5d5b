// Package pkg provides the core libraries of the nodes graph editor.
//
// # Overview
//
// A document is a graph of typed nodes. Nodes own pins and props, props may
// own pins of their own, and links join an output pin to an input pin. Node
// types, prop types and the assets they refer to are described by a
// metadata catalog, and props are wired to each other by bindings declared
// in that catalog.
//
// The packages build on each other:
//
//  1. [graph] - Object model: id allocation, nodes, pins, props, links,
//     the link protocol and the cascading container
//  2. [meta] - Metadata catalog: asset types, node types, prop types,
//     loaded from JSON or YAML and validated
//  3. [props] - Concrete prop classes and the registry that maps catalog
//     type tags to them
//  4. [binding] - Binding resolution: transforms and the subscription bus
//     that pushes prop changes to dependents
//  5. [factory] - Builds nodes from catalog node types and wires their
//     bindings
//  6. [io] - Two-pass JSON serialization with import policies
//  7. [editor] - The document session tying the above together
//
// # Data Flow
//
//	catalog.json / catalog.yaml
//	         ↓
//	    [meta] Catalog
//	         ↓
//	    [factory] CreateNodeByID ──→ [binding] Bus
//	         ↓                              ↓
//	    [graph] Graph  ←──── [editor] SetValue
//	         ↓
//	    [io] WriteJSON ──→ [store] file, SQLite, Redis or MongoDB
//
// # Quick Start
//
// Load a catalog, create two nodes, link them and save:
//
//	catalog, _ := meta.Load("catalog.json", nil)
//	st, _ := store.Open(ctx, "./documents", nil)
//	ed := editor.New(editor.Options{Catalog: catalog, Store: st})
//
//	a, _ := ed.CreateNode("dialogue", graph.Position{})
//	b, _ := ed.CreateNode("delay", graph.Position{X: 200})
//	_, _ = ed.Link(a.Pins()[1], b.Pins()[0])
//	_ = ed.SaveTo(ctx, "story")
//
// # Supporting Packages
//
// [store] - Named document storage behind one interface.
//
// [cache] - Derived-resource cache for thumbnails and rendered previews.
//
// [asset] - Resolves catalog asset references to files and thumbnails.
//
// [render/nodelink] - Graphviz previews of a document.
//
// [config] - Configuration file, environment and user preferences.
//
// [observability] - Lifecycle hooks and OpenTelemetry tracing.
//
// [errors] - Coded errors shared by every package.
//
// [graph]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/graph
// [meta]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/meta
// [props]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/props
// [binding]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/binding
// [factory]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/factory
// [io]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/io
// [editor]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/editor
// [store]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/store
// [cache]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/cache
// [asset]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/asset
// [render/nodelink]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/config
// [observability]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/observability
// [errors]: https://pkg.go.dev/github.com/bploeckelman/nodes/pkg/errors
package pkg
