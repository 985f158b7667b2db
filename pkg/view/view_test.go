package view

import (
	"path"
	"slices"
	"testing"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/imports"
	"github.com/matzehuels/sitegraph/pkg/layout"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

func records(specs map[string][]string) []scan.FileRecord {
	var out []scan.FileRecord
	for p, imp := range specs {
		out = append(out, scan.FileRecord{
			RelativePath: p,
			Name:         path.Base(p),
			Type:         scan.DetectType(p),
			Imports:      imp,
		})
	}
	return out
}

var project = map[string][]string{
	"app/page.tsx":               {"@/components/Button", "@/lib/utils"},
	"app/layout.tsx":             {"@/components/Nav"},
	"app/about/page.tsx":         {"@/components/Button"},
	"app/a/f.tsx":                nil,
	"app/a/b/f.tsx":              nil,
	"app/a/b/c/f.tsx":            nil,
	"app/docs/guides/x/page.tsx": nil,
	"app/api/users/route.ts":     {"@/lib/utils"},
	"components/Button.tsx":      {"./ui/card"},
	"components/Nav.tsx":         nil,
	"components/ui/card.tsx":     nil,
	"lib/utils.ts":               nil,
}

func newSession(t *testing.T, filters category.Set) *Session {
	t.Helper()
	recs := records(project)
	return NewSession(tree.Build(recs), imports.Resolve(recs), filters, DefaultConfig(), nil)
}

func TestIndex(t *testing.T) {
	idx := BuildIndex(tree.Build(records(project)))

	info, ok := idx.Info("node-app/a/b")
	if !ok {
		t.Fatal("app/a/b missing")
	}
	if info.ParentID != "node-app/a" || info.Depth != 2 || !info.IsDirectory || info.Category != category.Pages {
		t.Errorf("info = %+v", info)
	}
	if got := idx.Ancestors("node-app/a/b/c/f.tsx"); !slices.Equal(got, []string{"node-app/a/b/c", "node-app/a/b", "node-app/a", "node-app"}) {
		t.Errorf("Ancestors = %v", got)
	}
	if got := idx.Descendants("node-app/a/b"); !slices.Equal(got, []string{"node-app/a/b/c", "node-app/a/b/c/f.tsx", "node-app/a/b/f.tsx"}) {
		t.Errorf("Descendants = %v", got)
	}
	if idx.Len() != len(idx.Order()) || idx.Order()[0] != "node-app" {
		t.Errorf("Order = %v", idx.Order())
	}
}

func TestAutoExpand(t *testing.T) {
	idx := BuildIndex(tree.Build(records(project)))
	got := AutoExpand(idx, DefaultConfig())

	want := map[string]bool{
		"node-app":             true,
		"node-app/a":           true,
		"node-app/a/b":         false, // too deep
		"node-app/a/b/c":       false,
		"node-app/about":       true,
		"node-app/docs":        true,
		"node-app/docs/guides": false,
		"node-app/api":         false,
		"node-app/api/users":   false,
		"node-components":      true,
		"node-components/ui":   false, // denylisted
		"node-lib":             false, // denylisted
	}
	for id, w := range want {
		if got.Has(id) != w {
			t.Errorf("AutoExpand %s = %v, want %v", id, got.Has(id), w)
		}
	}
	assertClosedUnderAncestors(t, idx, got)
}

func TestAutoExpandCustomDenylist(t *testing.T) {
	idx := BuildIndex(tree.Build(records(project)))
	cfg := DefaultConfig()
	cfg.AutoExpandDenylist = []string{"a"}
	got := AutoExpand(idx, cfg)
	if got.Has("node-app/a") || got.Has("node-app/a/b") {
		t.Error("denylisted directory or its child was expanded")
	}
	if !got.Has("node-lib") || !got.Has("node-components/ui") {
		t.Error("default denylist still applied")
	}
}

func assertClosedUnderAncestors(t *testing.T, idx *Index, set ExpandedSet) {
	t.Helper()
	for id := range set {
		for _, a := range idx.Ancestors(id) {
			if !set.Has(a) {
				t.Errorf("%s expanded while ancestor %s is not", id, a)
			}
		}
	}
}

func TestDepthThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoExpandDepth = 10
	recs := records(project)
	s := NewSession(tree.Build(recs), imports.Resolve(recs), category.AllSet(), cfg, nil)
	deep := "node-app/a/b/c/f.tsx"

	if !s.IsExpanded("node-app/a/b/c") {
		t.Fatal("app/a/b/c should be auto-expanded with a deep bound")
	}
	if slices.Contains(s.VisibleIDs(), deep) {
		t.Fatal("file beyond depth threshold visible without explicit expansion")
	}
	if !slices.Contains(s.VisibleIDs(), "node-app/a/b/f.tsx") {
		t.Error("file at the threshold should be visible")
	}

	// Collapse, then expand explicitly.
	if _, err := s.Toggle("node-app/a/b/c"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Toggle("node-app/a/b/c"); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(s.VisibleIDs(), deep) {
		t.Error("explicit expansion should reveal deep file")
	}
}

func TestDirectoriesNeverDepthHidden(t *testing.T) {
	s := newSession(t, category.AllSet())
	for _, id := range []string{"node-app/a/b", "node-app/a/b/c"} {
		if !s.IsExpanded(s.Index().Ancestors(id)[0]) {
			if _, err := s.Toggle(s.Index().Ancestors(id)[0]); err != nil {
				t.Fatal(err)
			}
		}
		if !slices.Contains(s.VisibleIDs(), id) {
			t.Errorf("%s hidden although its parent is expanded", id)
		}
	}
}

func TestToggleCollapseClearsDescendants(t *testing.T) {
	s := newSession(t, category.AllSet())
	for _, id := range []string{"node-app/a/b", "node-app/a/b/c"} {
		if changed, err := s.Toggle(id); err != nil || !changed {
			t.Fatalf("expand %s: changed=%v err=%v", id, changed, err)
		}
	}
	if _, err := s.Toggle("node-app/a"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"node-app/a", "node-app/a/b", "node-app/a/b/c"} {
		if s.IsExpanded(id) {
			t.Errorf("%s still expanded after collapsing app/a", id)
		}
	}
	if _, err := s.Toggle("node-app/a"); err != nil {
		t.Fatal(err)
	}
	if s.IsExpanded("node-app/a/b") {
		t.Error("re-expanding restored nested state")
	}
	assertClosedUnderAncestors(t, s.Index(), s.expanded)
}

func TestToggleRestoresVisibleSet(t *testing.T) {
	s := newSession(t, category.AllSet())

	for _, id := range s.VisibleIDs() {
		info, _ := s.Index().Info(id)
		if !info.IsDirectory || s.IsExpanded(id) {
			continue
		}
		before := s.VisibleIDs()
		if changed, err := s.Toggle(id); err != nil || !changed {
			t.Fatalf("expand %s: changed=%v err=%v", id, changed, err)
		}
		if changed, err := s.Toggle(id); err != nil || !changed {
			t.Fatalf("collapse %s: changed=%v err=%v", id, changed, err)
		}
		if after := s.VisibleIDs(); !slices.Equal(before, after) {
			t.Errorf("toggle %s twice: visible %v, want %v", id, after, before)
		}
	}
}

func TestToggleIgnoresFilesAndHidden(t *testing.T) {
	s := newSession(t, category.AllSet())

	if changed, err := s.Toggle("node-app/page.tsx"); err != nil || changed {
		t.Errorf("toggle file: changed=%v err=%v", changed, err)
	}
	// guides is collapsed, so x is hidden.
	if changed, err := s.Toggle("node-app/docs/guides/x"); err != nil || changed {
		t.Errorf("toggle hidden dir: changed=%v err=%v", changed, err)
	}
	if _, err := s.Toggle("node-nope"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("toggle unknown: err=%v", err)
	}
}

func TestDragMovesVisibleDescendants(t *testing.T) {
	s := newSession(t, category.AllSet())
	target := "node-app/a"

	visible := map[string]bool{}
	for _, id := range s.VisibleIDs() {
		visible[id] = true
	}
	desc := map[string]bool{}
	for _, d := range s.Index().Descendants(target) {
		desc[d] = true
	}

	before := map[string]float64{}
	beforeY := map[string]float64{}
	for _, id := range s.Index().Order() {
		p, _ := s.Position(id)
		before[id], beforeY[id] = p.X, p.Y
	}

	if err := s.Drag(target, 30, -15); err != nil {
		t.Fatal(err)
	}

	for _, id := range s.Index().Order() {
		p, _ := s.Position(id)
		dx, dy := p.X-before[id], p.Y-beforeY[id]
		moved := id == target || (desc[id] && visible[id])
		switch {
		case moved && (dx != 30 || dy != -15):
			t.Errorf("%s moved by (%v, %v), want (30, -15)", id, dx, dy)
		case !moved && (dx != 0 || dy != 0):
			t.Errorf("%s moved by (%v, %v), want unchanged", id, dx, dy)
		}
	}

	if err := s.Drag("node-nope", 1, 1); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("drag unknown: err=%v", err)
	}
}

func TestMoveTo(t *testing.T) {
	s := newSession(t, category.AllSet())
	child, _ := s.Position("node-app/about/page.tsx")
	parent, _ := s.Position("node-app/about")

	if err := s.MoveTo("node-app/about", 0, 0); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Position("node-app/about/page.tsx")
	if got.X != child.X-parent.X || got.Y != child.Y-parent.Y {
		t.Errorf("child at %+v after MoveTo, want relative offset kept", got)
	}
}

func TestSetFiltersDiscardsDrags(t *testing.T) {
	s := newSession(t, category.AllSet())
	orig, _ := s.Position("node-app")
	if err := s.Drag("node-app", 100, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Toggle("node-app/a"); err != nil {
		t.Fatal(err)
	}

	s.ToggleFilter(category.Files)
	s.ToggleFilter(category.Files)

	if got, _ := s.Position("node-app"); got != orig {
		t.Errorf("app at %+v after filter change, want %+v", got, orig)
	}
	if !s.IsExpanded("node-app/a") {
		t.Error("filter change should reset expansion to auto-expanded state")
	}
}

func TestLayoutIndependentOfExpansion(t *testing.T) {
	calls := 0
	recs := records(project)
	s := NewSession(tree.Build(recs), imports.Resolve(recs), category.AllSet(), DefaultConfig(), func(n []*tree.Node, f category.Set) layout.Result {
		calls++
		return DefaultLayout(n, f)
	})
	for _, id := range s.VisibleIDs() {
		_, _ = s.Toggle(id)
	}
	if calls != 1 {
		t.Errorf("layout ran %d times, want 1", calls)
	}
}

func TestEmptyFilterGraph(t *testing.T) {
	s := newSession(t, category.NewSet())
	g := s.Graph()

	ids := map[string]bool{}
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, id := range []string{"node-app", "node-components", "node-app/api", "node-app/about", "node-app/a"} {
		if !ids[id] {
			t.Errorf("%s missing with empty filter", id)
		}
	}
	for _, id := range []string{"node-app/page.tsx", "node-app/about/page.tsx", "node-components/Button.tsx", "node-lib"} {
		if ids[id] {
			t.Errorf("%s shown with empty filter", id)
		}
	}
	// api subtree is always visible but stays collapsed.
	if ids["node-app/api/users"] {
		t.Error("api subtree should start collapsed")
	}
}

func TestGraphEdges(t *testing.T) {
	s := newSession(t, category.AllSet())
	g := s.Graph()

	has := func(kind graph.EdgeKind, from, to string) bool {
		return slices.Contains(g.Edges, graph.Edge{From: from, To: to, Kind: kind})
	}
	if !has(graph.EdgeContains, "node-app", "node-app/page.tsx") {
		t.Error("missing contains edge app -> page.tsx")
	}
	if !has(graph.EdgeImports, "node-app/page.tsx", "node-components/Button.tsx") {
		t.Error("missing imports edge page.tsx -> Button.tsx")
	}
	// lib is collapsed so utils.ts is hidden.
	if has(graph.EdgeImports, "node-app/page.tsx", "node-lib/utils.ts") {
		t.Error("imports edge to hidden node")
	}

	for _, n := range g.Nodes {
		if n.Color != category.Color(n.Category) {
			t.Errorf("%s color %s, want %s", n.ID, n.Color, category.Color(n.Category))
		}
	}

	s.ClearRelationships()
	if len(s.Graph().EdgesOf(graph.EdgeImports)) != 0 {
		t.Error("imports edges drawn after ClearRelationships")
	}
	s.SetRelationships(true)
	if len(s.Graph().EdgesOf(graph.EdgeImports)) == 0 {
		t.Error("imports edges missing after SetRelationships(true)")
	}
}
