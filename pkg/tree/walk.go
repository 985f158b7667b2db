package tree

// WalkFunc is called for each node with its parent (nil for roots) and
// depth (0 for roots). Returning false skips the node's children.
type WalkFunc func(n, parent *Node, depth int) bool

// Walk visits nodes in pre-order.
func Walk(nodes []*Node, fn WalkFunc) {
	walk(nodes, nil, 0, fn)
}

func walk(nodes []*Node, parent *Node, depth int, fn WalkFunc) {
	for _, n := range nodes {
		if fn(n, parent, depth) {
			walk(n.Children, n, depth+1, fn)
		}
	}
}

// Find returns the node at path, or nil.
func Find(nodes []*Node, path string) *Node {
	var found *Node
	Walk(nodes, func(n, _ *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Path == path {
			found = n
			return false
		}
		return n.IsDir() && isPrefix(n.Path, path)
	})
	return found
}

func isPrefix(dir, p string) bool {
	return len(p) > len(dir) && p[:len(dir)] == dir && p[len(dir)] == '/'
}

// CountFiles returns the number of file leaves.
func CountFiles(nodes []*Node) int {
	n := 0
	Walk(nodes, func(node, _ *Node, _ int) bool {
		if !node.IsDir() {
			n++
		}
		return true
	})
	return n
}

// CountDirs returns the number of directory nodes.
func CountDirs(nodes []*Node) int {
	n := 0
	Walk(nodes, func(node, _ *Node, _ int) bool {
		if node.IsDir() {
			n++
		}
		return true
	})
	return n
}

// Files returns every file leaf in pre-order.
func Files(nodes []*Node) []*Node {
	var out []*Node
	Walk(nodes, func(n, _ *Node, _ int) bool {
		if !n.IsDir() {
			out = append(out, n)
		}
		return true
	})
	return out
}
