// Package render converts rendered site graphs between output formats.
//
// The [nodelink] subpackage draws a [graph.Graph] with Graphviz at the fixed
// positions computed by package layout. This package holds the format
// conversion shared by every renderer:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// PDF and PNG conversion shells out to rsvg-convert from librsvg.
//
// [nodelink]: github.com/matzehuels/sitegraph/pkg/render/nodelink
// [graph.Graph]: github.com/matzehuels/sitegraph/pkg/graph.Graph
package render
