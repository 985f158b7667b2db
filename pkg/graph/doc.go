// Package graph defines the renderable node/edge model of a site view.
//
// A [Graph] is what a viewer draws: the currently visible containment tree
// nodes with their fixed positions, plus two kinds of edges:
//
//   - [EdgeContains]: parent directory to child, both visible
//   - [EdgeImports]: file to imported file, both visible, present only
//     while relationships are enabled
//
// The package is the serialization boundary shared by the HTTP API, the
// CLI's JSON output, and the renderers in pkg/render. Graphs are produced by
// pkg/view; this package does not compute visibility or positions itself.
//
// # Format
//
//	{
//	  "nodes": [{"id": "node-app", "label": "app", "category": "pages", "x": 400, "y": 50, ...}],
//	  "edges": [{"from": "node-app", "to": "node-app/page.tsx", "kind": "contains"}],
//	  "filters": ["files", "pages"],
//	  "relationships": true
//	}
//
// Nodes are ordered by tree pre-order and edges by (kind, from, to), so equal
// view states always serialize to identical bytes.
package graph
