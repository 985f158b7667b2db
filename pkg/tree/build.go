package tree

import (
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/scan"
)

// Build converts a flat record list into a containment forest.
// Records are sorted by relative path first so the result does not depend
// on input order. Duplicate relative paths collapse into one leaf.
func Build(records []scan.FileRecord) []*Node {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b scan.FileRecord) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})
	sorted = slices.CompactFunc(sorted, func(a, b scan.FileRecord) bool {
		return a.RelativePath == b.RelativePath
	})

	var roots []*Node
	dirs := make(map[string]*Node)

	for _, r := range sorted {
		segments := strings.Split(r.RelativePath, "/")
		var parent *Node
		for i := range len(segments) - 1 {
			p := strings.Join(segments[:i+1], "/")
			dir, ok := dirs[p]
			if !ok {
				dir = &Node{Kind: KindDirectory, Name: segments[i], Path: p}
				dirs[p] = dir
				roots = attach(roots, parent, dir)
			}
			parent = dir
		}
		leaf := &Node{
			Kind:         KindFile,
			Name:         path.Base(r.RelativePath),
			Path:         r.RelativePath,
			RelativePath: r.RelativePath,
			Type:         r.Type,
			IsClient:     r.IsClientComponent,
			Imports:      slices.Clone(r.Imports),
			Size:         r.Size,
		}
		roots = attach(roots, parent, leaf)
	}
	return roots
}

func attach(roots []*Node, parent, n *Node) []*Node {
	if parent == nil {
		return append(roots, n)
	}
	parent.Children = append(parent.Children, n)
	return roots
}
