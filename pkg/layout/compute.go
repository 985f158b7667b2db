package layout

import (
	"path"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// Result is the outcome of a layout run.
type Result struct {
	Positions  Positions `json:"positions"`
	Iterations int       `json:"iterations"` // Collision passes that moved at least one node
	Converged  bool      `json:"converged"`  // False when the iteration cap left overlaps behind
}

// Compute lays out the filtered forest. nodes is the unfiltered tree; it is
// filtered with filters first, and only surviving nodes receive positions.
func Compute(nodes []*tree.Node, filters category.Set, cfg Config) Result {
	cfg = cfg.WithDefaults()
	p := &placer{cfg: cfg, pos: Positions{}}

	visible := tree.Filter(nodes, filters)

	var app *tree.Node
	var rest []*tree.Node
	for _, n := range visible {
		if n.Path == category.AppRoot && n.IsDir() {
			app = n
			continue
		}
		rest = append(rest, n)
	}

	if app != nil {
		p.placeApp(app)
	}

	// Top band: components first, then the remaining roots in tree order.
	var band []*tree.Node
	for _, n := range rest {
		if n.Path == category.ComponentsRoot {
			band = append([]*tree.Node{n}, band...)
			continue
		}
		band = append(band, n)
	}
	for _, n := range band {
		x := cfg.AnchorX
		if len(p.pos) > 0 {
			x = p.maxX + cfg.HorizontalSpacing
		}
		p.set(n, x, cfg.AnchorY)
		if n.IsDir() {
			p.placeChildren(n, x, cfg.AnchorY)
		}
	}

	iters, converged := ResolveCollisions(p.pos, cfg)
	return Result{Positions: p.pos, Iterations: iters, Converged: converged}
}

// placer accumulates positions during one Compute call.
type placer struct {
	cfg  Config
	pos  Positions
	maxX float64
}

func (p *placer) set(n *tree.Node, x, y float64) {
	if len(p.pos) == 0 || x > p.maxX {
		p.maxX = x
	}
	p.pos[n.ID()] = Position{X: x, Y: y}
}

// placeApp handles the app anchor, its homepage and file stack, and the
// page row.
func (p *placer) placeApp(app *tree.Node) {
	ax, ay := p.cfg.AnchorX, p.cfg.AnchorY
	v, h := p.cfg.VerticalSpacing, p.cfg.HorizontalSpacing
	p.set(app, ax, ay)

	var home *tree.Node
	var files, dirs []*tree.Node
	var api *tree.Node
	for _, c := range app.Children {
		switch {
		case c.IsDir() && c.Path == category.APIRoot:
			api = c
		case c.IsDir():
			dirs = append(dirs, c)
		case home == nil && isHomepage(c):
			home = c
		default:
			files = append(files, c)
		}
	}
	if api != nil {
		dirs = append(dirs, api)
	}

	rowY := ay + v
	y := rowY
	if home != nil {
		p.set(home, ax, y)
		y += v
	}
	for _, f := range files {
		p.set(f, ax, y)
		y += v
	}

	x := ax
	if home != nil || len(files) > 0 {
		x += h
	}
	for _, d := range dirs {
		p.set(d, x, rowY)
		right := p.placeChildren(d, x, rowY)
		x = max(x, right) + h
	}
}

// placeChildren lays out dir's children below (x, y) and returns the
// rightmost X used by the subtree, including dir itself.
func (p *placer) placeChildren(dir *tree.Node, x, y float64) float64 {
	v, h := p.cfg.VerticalSpacing, p.cfg.HorizontalSpacing
	right := x

	var files, dirs []*tree.Node
	for _, c := range dir.Children {
		if c.IsDir() {
			dirs = append(dirs, c)
		} else {
			files = append(files, c)
		}
	}

	fy := y + v
	for _, f := range files {
		p.set(f, x, fy)
		fy += v
	}

	cx := x
	if len(files) > 0 {
		cx += h
	}
	cy := y + v
	for _, d := range dirs {
		for attempt := 0; attempt < p.cfg.MaxShiftAttempts && p.occupied(cx, cy); attempt++ {
			cx += h
		}
		p.set(d, cx, cy)
		sub := p.placeChildren(d, cx, cy)
		right = max(right, sub)
		cx = max(cx, sub) + h
	}
	return right
}

// occupied reports whether a node box at (x, y) would overlap a placed one.
func (p *placer) occupied(x, y float64) bool {
	probe := Position{X: x, Y: y}
	for _, pos := range p.pos {
		if overlaps(probe, pos, p.cfg) {
			return true
		}
	}
	return false
}

func isHomepage(n *tree.Node) bool {
	base := n.Name
	return strings.TrimSuffix(base, path.Ext(base)) == "page"
}
