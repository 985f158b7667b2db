// Package view manages interactive view state over a site's containment
// tree and turns it into a renderable [graph.Graph].
//
// # State
//
// A [Session] owns everything a single viewer mutates:
//
//   - the active category filter set
//   - the expanded directory set, plus the subset the user expanded
//     explicitly (as opposed to auto-expansion)
//   - node positions, including manual drags
//   - whether import relationships are drawn
//
// Only a filter change recomputes the layout. Expanding, collapsing and
// dragging never do, and a filter change discards manual drags.
//
// A Session is not safe for concurrent use; it has exactly one owner.
// Callers sharing a session across goroutines (the HTTP server does) must
// serialize access themselves.
//
// # Visibility
//
// A node is visible when every ancestor directory is expanded. Files deeper
// than [Config.DepthThreshold] additionally need an explicitly expanded
// ancestor. Directories are never depth-hidden, so their contents always
// remain reachable by expanding them.
//
// The expanded set never contains a directory whose ancestor is missing
// from it: collapsing a directory also collapses every directory beneath
// it, and auto-expansion works top-down.
package view
