// Package layout computes fixed 2D positions for containment tree nodes.
//
// Positions are a pure function of the tree and the active filter set.
// They never depend on which directories are expanded, so expanding or
// collapsing a directory never reflows the graph: collapsed subtrees keep
// their reserved (but unrendered) positions.
//
// # Anchors and Bands
//
// Placement follows an anchor-and-band policy:
//
//   - The "app" directory is the primary anchor at [Config.AnchorX],
//     [Config.AnchorY].
//   - The homepage (app/page.*) sits one vertical step below the anchor and
//     the remaining app files stack beneath it.
//   - The page row: child directories of app are placed left to right at
//     the homepage's Y, one horizontal step apart, with app/api always last.
//   - The top band: "components" and any other top-level roots sit at the
//     anchor's Y, each one horizontal step right of everything placed so far.
//
// Every other node is placed by a generic recursion: beneath a directory,
// files stack vertically in the parent's column while child directories
// spread horizontally to the right, both starting one vertical step down.
// A directory that would land on an occupied slot shifts right, up to
// [Config.MaxShiftAttempts] times.
//
// # Collision Resolution
//
// A final pass ([ResolveCollisions]) sorts positions by Y, X and id and
// pushes the later node of every overlapping pair right or down until no
// boxes overlap or [Config.MaxIterations] passes have run. Hitting the cap
// leaves residual overlap; [Result.Converged] reports it.
package layout
