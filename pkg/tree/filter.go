package tree

import (
	"strings"

	"github.com/matzehuels/sitegraph/pkg/category"
)

// Filter returns the forest restricted to the active categories.
//
// A node is kept when it is always visible (see [category.AlwaysVisible]),
// when its category is in filters, or when it is a Pages directory. After
// its children are filtered, a directory with no surviving children is
// dropped unless it is always visible or a route directory under app/.
//
// The input is not modified and Filter(Filter(t, f), f) equals Filter(t, f).
func Filter(nodes []*Node, filters category.Set) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if kept := filterNode(n, filters); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(n *Node, filters category.Set) *Node {
	cat := n.Category()
	exempt := category.AlwaysVisible(n.Path)
	if !exempt && !filters.Has(cat) && !(n.IsDir() && cat == category.Pages) {
		return nil
	}

	if !n.IsDir() {
		c := *n
		return &c
	}

	c := *n
	c.Children = nil
	for _, child := range n.Children {
		if kept := filterNode(child, filters); kept != nil {
			c.Children = append(c.Children, kept)
		}
	}
	if len(c.Children) == 0 && !exempt && !isRouteDir(n) {
		return nil
	}
	return &c
}

// isRouteDir reports whether n is a Pages directory inside app/. Route
// directories are kept empty so the page hierarchy stays intact when the
// files filter hides their leaves.
func isRouteDir(n *Node) bool {
	return n.IsDir() && strings.HasPrefix(n.Path, category.AppRoot+"/") && n.Category() == category.Pages
}
