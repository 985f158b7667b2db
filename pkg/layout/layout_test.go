package layout

import (
	"fmt"
	"math/rand/v2"
	"path"
	"testing"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

func build(paths ...string) []*tree.Node {
	recs := make([]scan.FileRecord, len(paths))
	for i, p := range paths {
		recs[i] = scan.FileRecord{RelativePath: p, Name: path.Base(p), Type: scan.DetectType(p)}
	}
	return tree.Build(recs)
}

var project = []string{
	"app/page.tsx",
	"app/layout.tsx",
	"app/about/page.tsx",
	"app/about/team/page.tsx",
	"app/blog/page.tsx",
	"app/blog/[slug]/page.tsx",
	"app/blog/[slug]/Comments.tsx",
	"app/api/users/route.ts",
	"app/api/posts/route.ts",
	"components/Button.tsx",
	"components/Nav.tsx",
	"components/ui/card.tsx",
	"components/ui/dialog.tsx",
	"lib/utils.ts",
	"lib/db/client.ts",
}

func TestComputeAnchors(t *testing.T) {
	cfg := DefaultConfig()
	res := Compute(build(project...), category.AllSet(), cfg)
	pos := res.Positions

	if got := pos["node-app"]; got != (Position{X: 400, Y: 50}) {
		t.Errorf("app = %+v, want anchor (400, 50)", got)
	}
	if got := pos["node-app/page.tsx"]; got != (Position{X: 400, Y: 170}) {
		t.Errorf("homepage = %+v, want (400, 170)", got)
	}
	if got := pos["node-app/layout.tsx"]; got.X != 400 || got.Y <= pos["node-app/page.tsx"].Y {
		t.Errorf("layout.tsx = %+v, want stacked below homepage", got)
	}

	about, blog, api := pos["node-app/about"], pos["node-app/blog"], pos["node-app/api"]
	for name, p := range map[string]Position{"about": about, "blog": blog, "api": api} {
		if p.Y != 170 {
			t.Errorf("%s Y = %v, want page row 170", name, p.Y)
		}
	}
	if about.X != 650 {
		t.Errorf("first page dir X = %v, want anchor + H = 650", about.X)
	}
	if !(about.X < blog.X && blog.X < api.X) {
		t.Errorf("page row order about=%v blog=%v api=%v, want api last", about.X, blog.X, api.X)
	}

	comps := pos["node-components"]
	if comps.Y != cfg.AnchorY {
		t.Errorf("components Y = %v, want anchor band %v", comps.Y, cfg.AnchorY)
	}
	if comps.X < api.X+cfg.HorizontalSpacing {
		t.Errorf("components X = %v, want right of page row (api at %v)", comps.X, api.X)
	}
	lib := pos["node-lib"]
	if lib.Y != cfg.AnchorY || lib.X <= comps.X {
		t.Errorf("lib = %+v, want on the top band right of components", lib)
	}

	if !res.Converged {
		t.Error("layout did not converge")
	}
}

func TestComputeAllFiltersCollisionFree(t *testing.T) {
	roots := build(project...)
	res := Compute(roots, category.AllSet(), DefaultConfig())

	if len(res.Positions) != tree.CountFiles(roots)+tree.CountDirs(roots) {
		t.Errorf("positioned %d nodes, tree has %d", len(res.Positions), tree.CountFiles(roots)+tree.CountDirs(roots))
	}
	if ov := Overlaps(res.Positions, DefaultConfig()); len(ov) > 0 {
		t.Errorf("overlaps after layout: %v", ov)
	}
}

func TestComputeOnlyFilteredNodes(t *testing.T) {
	roots := build(project...)
	res := Compute(roots, category.NewSet(), DefaultConfig())
	want := tree.Filter(roots, category.NewSet())

	n := 0
	tree.Walk(want, func(node, _ *tree.Node, _ int) bool {
		n++
		if _, ok := res.Positions[node.ID()]; !ok {
			t.Errorf("missing position for %s", node.ID())
		}
		return true
	})
	if len(res.Positions) != n {
		t.Errorf("positions = %d, want %d", len(res.Positions), n)
	}
	if _, ok := res.Positions["node-components/Button.tsx"]; ok {
		t.Error("filtered-out node received a position")
	}
}

func TestComputeDeterministic(t *testing.T) {
	roots := build(project...)
	first := Compute(roots, category.AllSet(), DefaultConfig())
	for range 5 {
		again := Compute(tree.Clone(roots), category.AllSet(), DefaultConfig())
		if fmt.Sprint(again.Positions) != fmt.Sprint(first.Positions) {
			t.Fatal("layout not deterministic")
		}
	}
}

func TestComputeWithoutApp(t *testing.T) {
	res := Compute(build("components/Button.tsx", "lib/utils.ts"), category.AllSet(), DefaultConfig())
	if got := res.Positions["node-components"]; got != (Position{X: 400, Y: 50}) {
		t.Errorf("components without app = %+v, want anchor", got)
	}
	if got := res.Positions["node-lib"]; got.X != 650 {
		t.Errorf("lib X = %v, want 650", got.X)
	}
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil, category.AllSet(), DefaultConfig())
	if len(res.Positions) != 0 || !res.Converged {
		t.Errorf("empty layout = %+v", res)
	}
}

func TestResolveCollisions(t *testing.T) {
	cfg := DefaultConfig()
	pos := Positions{
		"a": {X: 0, Y: 0},
		"b": {X: 10, Y: 0},  // same row: pushed right
		"c": {X: 0, Y: 40},  // mostly below: pushed down
		"d": {X: 500, Y: 0}, // clear
	}
	iters, converged := ResolveCollisions(pos, cfg)
	if !converged {
		t.Fatalf("did not converge after %d passes", iters)
	}
	if iters == 0 {
		t.Error("expected at least one moving pass")
	}
	if pos["b"].Y != 0 || pos["b"].X < cfg.NodeWidth+cfg.Padding {
		t.Errorf("b = %+v, want pushed right", pos["b"])
	}
	if pos["c"].X != 0 || pos["c"].Y < cfg.NodeHeight+cfg.Padding {
		t.Errorf("c = %+v, want pushed down", pos["c"])
	}
	if pos["a"] != (Position{}) {
		t.Errorf("a moved to %+v", pos["a"])
	}
	if len(Overlaps(pos, cfg)) != 0 {
		t.Errorf("overlaps remain: %v", Overlaps(pos, cfg))
	}
}

func TestResolveCollisionsNoop(t *testing.T) {
	pos := Positions{"a": {X: 0, Y: 0}, "b": {X: 250, Y: 0}}
	iters, converged := ResolveCollisions(pos, DefaultConfig())
	if iters != 0 || !converged {
		t.Errorf("got (%d, %v), want (0, true)", iters, converged)
	}
}

func TestResolveCollisionsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 1

	pos := Positions{}
	for i := range 30 {
		pos[fmt.Sprintf("n%02d", i)] = Position{X: float64(i % 3), Y: float64(i % 5)}
	}
	iters, converged := ResolveCollisions(pos, cfg)
	if iters != 1 {
		t.Errorf("iterations = %d, want cap 1", iters)
	}
	if converged != (len(Overlaps(pos, cfg)) == 0) {
		t.Error("Converged disagrees with residual overlap")
	}
}

func TestResolveCollisionsRandom(t *testing.T) {
	cfg := DefaultConfig()
	r := rand.New(rand.NewPCG(1, 2))
	for trial := range 20 {
		pos := Positions{}
		for i := range 25 {
			pos[fmt.Sprintf("n%02d", i)] = Position{X: float64(r.IntN(1000)), Y: float64(r.IntN(600))}
		}
		_, converged := ResolveCollisions(pos, cfg)
		if ov := Overlaps(pos, cfg); converged && len(ov) > 0 {
			t.Errorf("trial %d: converged with overlaps %v", trial, ov)
		}
		if !converged && len(Overlaps(pos, cfg)) == 0 {
			t.Errorf("trial %d: reported not converged but no overlap", trial)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	cfg := DefaultConfig()
	b := BoundsOf(Positions{"a": {X: 10, Y: 20}, "b": {X: 300, Y: 100}}, cfg)
	if b.MinX != 10 || b.MinY != 20 || b.MaxX != 500 || b.MaxY != 150 {
		t.Errorf("bounds = %+v", b)
	}
	if (BoundsOf(nil, cfg) != Bounds{}) {
		t.Error("empty bounds not zero")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.HorizontalSpacing = -1
	if bad.Validate() == nil {
		t.Error("negative spacing accepted")
	}
	if got := (Config{}).WithDefaults(); got.NodeWidth != DefaultNodeWidth || got.AnchorX != 0 {
		t.Errorf("WithDefaults = %+v", got)
	}
}

func ExampleCompute() {
	roots := build("app/page.tsx", "app/about/page.tsx", "components/Button.tsx")
	res := Compute(roots, category.AllSet(), DefaultConfig())
	for _, id := range res.Positions.IDs() {
		p := res.Positions[id]
		fmt.Printf("%-28s %4.0f %4.0f\n", id, p.X, p.Y)
	}
	// Output:
	// node-app                      400   50
	// node-components               900   50
	// node-app/page.tsx             400  170
	// node-app/about                650  170
	// node-components/Button.tsx    900  170
	// node-app/about/page.tsx       650  290
}
