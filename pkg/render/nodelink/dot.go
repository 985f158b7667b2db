package nodelink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/layout"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// collapsedBorder outlines directories with hidden children.
const collapsedBorder = "#1f2937"

// Options configures node-link diagram rendering.
type Options struct {
	// NodeWidth and NodeHeight size every box. Zero uses the layout defaults.
	NodeWidth  float64
	NodeHeight float64

	// Detailed adds the file type, client directive and size to file labels.
	Detailed bool
}

func (o Options) withDefaults() Options {
	if o.NodeWidth <= 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	return o
}

// ===== Attributes =====

type attr struct {
	key, value string
	quoted     bool
}

func q(k, v string) attr { return attr{k, v, true} }
func r(k, v string) attr { return attr{k, v, false} }

type attrs []attr

func (as attrs) String() string {
	parts := make([]string, len(as))
	for i, a := range as {
		v := a.value
		if a.quoted {
			v = strconv.Quote(v)
		}
		parts[i] = a.key + "=" + v
	}
	return strings.Join(parts, ", ")
}

var edgeStyles = map[graph.EdgeKind]attrs{
	graph.EdgeContains: {q("color", "#475569")},
	graph.EdgeImports:  {r("style", "dashed"), q("color", "#94a3b8"), r("constraint", "false")},
}

// ===== DOT =====

// ToDOT converts g to Graphviz DOT. Every node is pinned at its layout
// position, so neato only routes edges.
func ToDOT(g graph.Graph, opts Options) string {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString("digraph G {\n")
	for _, a := range (attrs{r("layout", "neato"), r("inputscale", "72"), r("splines", "true"), r("overlap", "true"), q("bgcolor", "transparent")}) {
		fmt.Fprintf(&b, "  %s;\n", attrs{a})
	}
	fmt.Fprintf(&b, "  node [%s];\n", attrs{
		r("shape", "box"), q("style", "rounded,filled"), r("fixedsize", "true"),
		r("width", inches(opts.NodeWidth)), r("height", inches(opts.NodeHeight)),
		q("fontname", "Helvetica"), r("fontsize", "12"), r("fontcolor", "white"),
	})
	b.WriteString("  edge [arrowsize=0.6];\n\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q [%s];\n", n.ID, nodeAttrs(n, opts))
	}
	b.WriteString("\n")
	for _, e := range g.Edges {
		style, ok := edgeStyles[e.Kind]
		if !ok {
			style = edgeStyles[graph.EdgeContains]
		}
		fmt.Fprintf(&b, "  %q -> %q [%s];\n", e.From, e.To, style)
	}
	b.WriteString("}\n")
	return b.String()
}

// nodeAttrs converts the node's top-left, y-down layout position to the
// center, y-up position Graphviz expects.
func nodeAttrs(n graph.Node, opts Options) attrs {
	cx := n.X + opts.NodeWidth/2
	cy := -(n.Y + opts.NodeHeight/2)
	as := attrs{
		q("label", label(n, opts.Detailed)),
		q("pos", num(cx)+","+num(cy)+"!"),
		q("fillcolor", n.Color),
		q("tooltip", n.Path),
	}
	if collapsed(n) {
		return append(as, r("penwidth", "2"), q("color", collapsedBorder))
	}
	return append(as, q("color", n.Color))
}

func collapsed(n graph.Node) bool {
	return n.Directory && !n.Expanded && n.ChildCount > 0
}

// label is "name/" for directories, with "(+N)" while collapsed. Detailed
// file labels list type, client directive and size on separate lines.
func label(n graph.Node, detailed bool) string {
	name := n.DisplayLabel()
	if n.Directory {
		if collapsed(n) {
			return fmt.Sprintf("%s/ (+%d)", name, n.ChildCount)
		}
		return name + "/"
	}
	if !detailed {
		return name
	}
	lines := []string{name}
	if n.Type != "" {
		lines = append(lines, n.Type)
	}
	if n.Client {
		lines = append(lines, "client")
	}
	if n.Size > 0 {
		lines = append(lines, fmt.Sprintf("%d B", n.Size))
	}
	return strings.Join(lines, "\n")
}

func inches(v float64) string { return num(v / pointsPerInch) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
