package view

import (
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// NodeInfo is the adjacency record for one tree node.
type NodeInfo struct {
	ID          string            `json:"id"`
	ParentID    string            `json:"parentId,omitempty"`
	Depth       int               `json:"depth"`
	IsDirectory bool              `json:"isDirectory"`
	Category    category.Category `json:"category"`
	ChildIDs    []string          `json:"childIds,omitempty"`
	Path        string            `json:"path"`
	Name        string            `json:"name"`
}

// Index provides id-based lookup over a forest.
type Index struct {
	infos map[string]*NodeInfo
	nodes map[string]*tree.Node
	order []string
}

// BuildIndex indexes nodes in pre-order.
func BuildIndex(nodes []*tree.Node) *Index {
	idx := &Index{
		infos: make(map[string]*NodeInfo),
		nodes: make(map[string]*tree.Node),
	}
	tree.Walk(nodes, func(n, parent *tree.Node, depth int) bool {
		info := &NodeInfo{
			ID:          n.ID(),
			Depth:       depth,
			IsDirectory: n.IsDir(),
			Category:    n.Category(),
			Path:        n.Path,
			Name:        n.Name,
		}
		if parent != nil {
			info.ParentID = parent.ID()
			p := idx.infos[info.ParentID]
			p.ChildIDs = append(p.ChildIDs, info.ID)
		}
		idx.infos[info.ID] = info
		idx.nodes[info.ID] = n
		idx.order = append(idx.order, info.ID)
		return true
	})
	return idx
}

// Info returns the record for id.
func (idx *Index) Info(id string) (NodeInfo, bool) {
	info, ok := idx.infos[id]
	if !ok {
		return NodeInfo{}, false
	}
	return *info, true
}

// Node returns the tree node for id, or nil.
func (idx *Index) Node(id string) *tree.Node { return idx.nodes[id] }

// Len returns the number of indexed nodes.
func (idx *Index) Len() int { return len(idx.order) }

// Order returns every id in pre-order.
func (idx *Index) Order() []string { return idx.order }

// Descendants returns every descendant of id in pre-order, excluding id.
func (idx *Index) Descendants(id string) []string {
	var out []string
	var visit func(string)
	visit = func(cur string) {
		info := idx.infos[cur]
		if info == nil {
			return
		}
		for _, c := range info.ChildIDs {
			out = append(out, c)
			visit(c)
		}
	}
	visit(id)
	return out
}

// Ancestors returns the ancestors of id, nearest first.
func (idx *Index) Ancestors(id string) []string {
	var out []string
	for info := idx.infos[id]; info != nil && info.ParentID != ""; info = idx.infos[info.ParentID] {
		out = append(out, info.ParentID)
	}
	return out
}
