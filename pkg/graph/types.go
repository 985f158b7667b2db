package graph

import (
	"cmp"
	"slices"

	"github.com/matzehuels/sitegraph/pkg/category"
)

// EdgeKind distinguishes containment from dependency edges.
type EdgeKind string

const (
	EdgeContains EdgeKind = "contains"
	EdgeImports  EdgeKind = "imports"
)

// =============================================================================
// Graph
// =============================================================================

// Graph is a renderable snapshot of a view.
type Graph struct {
	Nodes         []Node       `json:"nodes" bson:"nodes"`
	Edges         []Edge       `json:"edges" bson:"edges"`
	Filters       category.Set `json:"filters" bson:"-"`
	Relationships bool         `json:"relationships" bson:"relationships"`
}

// Node returns the node with id, or false.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgesOf returns the edges of the given kind.
func (g Graph) EdgesOf(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// SortEdges orders edges by (kind, from, to).
func SortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
}

// =============================================================================
// Node
// =============================================================================

// Node is one visible tree node.
type Node struct {
	ID         string            `json:"id" bson:"id"`
	Label      string            `json:"label" bson:"label"`
	Path       string            `json:"path" bson:"path"`
	Category   category.Category `json:"category" bson:"category"`
	Color      string            `json:"color" bson:"color"`
	Directory  bool              `json:"directory" bson:"directory"`
	Expanded   bool              `json:"expanded,omitempty" bson:"expanded,omitempty"`
	X          float64           `json:"x" bson:"x"`
	Y          float64           `json:"y" bson:"y"`
	Depth      int               `json:"depth" bson:"depth"`
	Parent     string            `json:"parent,omitempty" bson:"parent,omitempty"`
	Type       string            `json:"type,omitempty" bson:"type,omitempty"` // File type; empty for directories
	Client     bool              `json:"client,omitempty" bson:"client,omitempty"`
	Size       int64             `json:"size,omitempty" bson:"size,omitempty"`
	ChildCount int               `json:"childCount,omitempty" bson:"child_count,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the path.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Path
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed edge between two visible nodes.
type Edge struct {
	From string   `json:"from" bson:"from"`
	To   string   `json:"to" bson:"to"`
	Kind EdgeKind `json:"kind" bson:"kind"`
}
