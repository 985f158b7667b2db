// Package imports resolves raw import specifiers into a dependency graph
// over scanned files.
//
// Resolution is purely lexical. A specifier is mapped to a project-relative
// path ("@/x" strips the alias, "./" and "../" resolve against the importing
// file's directory) and then matched against the set of known files by
// trying, in order:
//
//	path
//	path + ".tsx"
//	path + ".ts"
//	path + "/index.tsx"
//	path + "/index.ts"
//
// The first candidate that names a scanned file wins. Specifiers that match
// nothing (external packages, assets, unresolved aliases) are dropped: they
// are neither edges nor errors.
package imports

import (
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/scan"
)

// aliasPrefix is the project-root alias used by the tsconfig "paths" setup.
const aliasPrefix = "@/"

// candidateSuffixes are tried in order when matching a resolved path.
var candidateSuffixes = []string{"", ".tsx", ".ts", "/index.tsx", "/index.ts"}

// Map is the import graph: each file's relative path maps to the sorted,
// de-duplicated set of relative paths it imports. Every scanned file has a
// key, possibly with an empty set.
type Map map[string][]string

// Edge is a directed import from one file to another.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Resolve builds the import graph for records.
func Resolve(records []scan.FileRecord) Map {
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.RelativePath] = true
	}

	m := make(Map, len(records))
	for _, r := range records {
		deps := []string{}
		for _, spec := range r.Imports {
			target, ok := ResolveSpecifier(r.RelativePath, spec, known)
			if !ok || target == r.RelativePath {
				continue
			}
			deps = append(deps, target)
		}
		slices.Sort(deps)
		m[r.RelativePath] = slices.Compact(deps)
	}
	return m
}

// ResolveSpecifier resolves spec as imported from the file importer.
// It returns the matching known path, or false when nothing matches.
func ResolveSpecifier(importer, spec string, known map[string]bool) (string, bool) {
	base, ok := basePath(importer, spec)
	if !ok {
		return "", false
	}
	for _, suffix := range candidateSuffixes {
		if candidate := base + suffix; known[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// basePath maps a specifier to a project-relative path without extension
// probing. Bare package specifiers and paths escaping the project root
// are rejected.
func basePath(importer, spec string) (string, bool) {
	var p string
	switch {
	case strings.HasPrefix(spec, aliasPrefix):
		p = path.Clean(strings.TrimPrefix(spec, aliasPrefix))
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		p = path.Join(path.Dir(importer), spec)
	default:
		return "", false
	}
	if p == "." || p == ".." || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "/") {
		return "", false
	}
	return p, true
}

// Has reports whether from imports to.
func (m Map) Has(from, to string) bool {
	_, found := slices.BinarySearch(m[from], to)
	return found
}

// EdgeCount returns the total number of import edges.
func (m Map) EdgeCount() int {
	n := 0
	for _, deps := range m {
		n += len(deps)
	}
	return n
}

// Edges returns every import edge sorted by (From, To).
func (m Map) Edges() []Edge {
	froms := make([]string, 0, len(m))
	for from := range m {
		froms = append(froms, from)
	}
	slices.Sort(froms)

	edges := make([]Edge, 0, m.EdgeCount())
	for _, from := range froms {
		for _, to := range m[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Dependents returns the sorted paths of files that import target.
func (m Map) Dependents(target string) []string {
	var out []string
	for from, deps := range m {
		if _, found := slices.BinarySearch(deps, target); found {
			out = append(out, from)
		}
	}
	slices.Sort(out)
	return out
}

// Files returns the sorted keys of m.
func (m Map) Files() []string {
	files := make([]string, 0, len(m))
	for f := range m {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// FromEdges rebuilds a Map from its file list and edges, the inverse of
// Files and Edges. Edges naming files outside the list are dropped.
func FromEdges(files []string, edges []Edge) Map {
	m := make(Map, len(files))
	for _, f := range files {
		m[f] = []string{}
	}
	for _, e := range edges {
		if _, ok := m[e.From]; !ok {
			continue
		}
		if _, ok := m[e.To]; !ok || e.From == e.To {
			continue
		}
		m[e.From] = append(m[e.From], e.To)
	}
	for f, deps := range m {
		slices.Sort(deps)
		m[f] = slices.Compact(deps)
	}
	return m
}
