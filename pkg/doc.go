// Package pkg provides the core libraries for Sitegraph, a structure
// analyzer and graph explorer for Next.js projects.
//
// # Overview
//
// Sitegraph scans an App Router project, classifies every source file as a
// page, layout, API route, component or utility, resolves the imports
// between them, and lays the containment tree out as a deterministic
// node-link graph. The pkg directory is organized into four areas:
//
//  1. Analysis - [scan], [imports], [tree], [category] and [site]
//  2. Layout and view - [layout], [view] and [graph]
//  3. Output - [render], [render/nodelink] and [io]
//  4. Infrastructure - [pipeline], [cache], [store], [config],
//     [observability], [retry] and [errors]
//
// # Architecture
//
// The data flow through Sitegraph:
//
//	Project directory
//	         ↓
//	    [scan] package (walk roots, detect file types, extract imports)
//	         ↓
//	    [site] package (tree + resolved import map)
//	         ↓
//	    [layout] package (anchored placement, overlap resolution)
//	         ↓
//	    [view] package (filters, expand/collapse, drags)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
// Analyze a project and render its default view:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sitegraph/pkg/pipeline"
//	    "github.com/matzehuels/sitegraph/pkg/render/nodelink"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	// 1. Scan and assemble the structure
//	res, _ := runner.Analyze(ctx, pipeline.Options{ProjectDir: "./web"})
//
//	// 2. Open a view session with every category shown
//	sess := runner.NewSession(res.Structure, nil)
//
//	// 3. Render the visible graph
//	out, _ := pipeline.Render(ctx, sess.Graph(), []string{"svg"}, nodelink.Options{})
//
// # Main Packages
//
// [scan] walks the configured roots (app, components, lib by default),
// skipping excluded names and glob patterns, and produces one record per
// source file with its type, client directive, imports and exports.
//
// [imports] resolves import specifiers ("@/..." aliases and relative paths)
// to project files; unresolvable specifiers are dropped.
//
// [tree] builds the containment tree and filters it by [category].
//
// [layout] places the filtered tree around fixed anchors and pushes
// overlapping nodes apart. The result is deterministic for a given input.
//
// [view] turns a layout into what a user sees: auto-expanded directories,
// depth-limited files, manual drags and optional import edges.
//
// [pipeline] ties the stages together with caching and memoized layouts.
// The CLI and the HTTP server both go through it.
//
// [store] keeps snapshots of analyzed structures in MongoDB.
//
// [scan]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/scan
// [imports]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/imports
// [tree]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/tree
// [category]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/category
// [site]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/site
// [layout]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/layout
// [view]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/view
// [graph]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/observability
// [retry]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/retry
// [errors]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/errors
package pkg
