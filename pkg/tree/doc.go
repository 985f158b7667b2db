// Package tree builds the containment tree of a scanned project.
//
// The containment tree models filesystem nesting: directories contain
// directories and files. It is distinct from the import graph in package
// imports, which models dependency direction between files.
//
// # Building
//
// [Build] sorts records by relative path and materializes one directory
// node per distinct path prefix, memoized by cumulative path so that shared
// ancestors are created exactly once. Every record becomes one file leaf.
// The result is a forest of top-level directories (app, components, lib,
// ...) plus any files that sit directly in the project root.
//
// # Identity
//
// Each node's [Node.ID] is "node-" followed by its project-relative path.
// Paths are unique within a tree, so ids are too.
//
// # Filtering
//
// [Filter] applies a category filter set and returns a new forest; the
// input is never modified. Filtering is idempotent.
package tree
