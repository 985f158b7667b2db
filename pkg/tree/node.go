package tree

import (
	"slices"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/scan"
)

// IDPrefix is prepended to a node's path to form its id.
const IDPrefix = "node-"

// Kind tags the two node variants.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindFile      Kind = "file"
)

// Node is a containment tree node. Directory nodes carry Children; file
// nodes carry the scanned metadata fields.
type Node struct {
	Kind     Kind    `json:"kind" bson:"kind"`
	Name     string  `json:"name" bson:"name"`
	Path     string  `json:"path" bson:"path"`
	Children []*Node `json:"children,omitempty" bson:"children,omitempty"`

	// File fields
	RelativePath string        `json:"relativePath,omitempty" bson:"relative_path,omitempty"`
	Type         scan.FileType `json:"type,omitempty" bson:"type,omitempty"`
	IsClient     bool          `json:"isClient,omitempty" bson:"is_client,omitempty"`
	Imports      []string      `json:"imports,omitempty" bson:"imports,omitempty"`
	Size         int64         `json:"size,omitempty" bson:"size,omitempty"`
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return IDPrefix + n.Path }

// PathFromID strips the id prefix. The second result is false when id was
// not produced by [Node.ID].
func PathFromID(id string) (string, bool) {
	if len(id) < len(IDPrefix) || id[:len(IDPrefix)] != IDPrefix {
		return "", false
	}
	return id[len(IDPrefix):], true
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool { return n.Kind == KindDirectory }

// Category classifies the node.
func (n *Node) Category() category.Category {
	return category.Classify(n.Path, n.IsDir(), n.Type)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	c.Imports = slices.Clone(n.Imports)
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Equal reports whether n and o describe the same subtree.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Name != o.Name || n.Path != o.Path ||
		n.RelativePath != o.RelativePath || n.Type != o.Type ||
		n.IsClient != o.IsClient || n.Size != o.Size ||
		!slices.Equal(n.Imports, o.Imports) {
		return false
	}
	return Equal(n.Children, o.Children)
}

// Equal reports whether two forests are structurally identical.
func Equal(a, b []*Node) bool {
	return slices.EqualFunc(a, b, func(x, y *Node) bool { return x.Equal(y) })
}

// Clone deep-copies a forest.
func Clone(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
