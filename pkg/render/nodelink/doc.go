// Package nodelink draws site graphs as node-link diagrams with Graphviz.
//
// Positions are not computed by Graphviz. [ToDOT] pins every node at the
// coordinate assigned by package layout (pos="x,y!") and the neato engine
// only routes edges, so the rendered diagram matches what the interactive
// viewer shows.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Coordinates
//
// Layout coordinates are top-left corners with Y growing downwards.
// Graphviz positions are node centers with Y growing upwards, so ToDOT
// shifts by half the node size and negates Y. inputscale=72 makes one
// layout unit one point.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
