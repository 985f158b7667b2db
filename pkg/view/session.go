package view

import (
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/imports"
	"github.com/matzehuels/sitegraph/pkg/layout"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// LayoutFunc computes positions for the unfiltered tree under filters.
// [layout.Compute] with a fixed config is the usual implementation; the
// pipeline supplies a memoized one.
type LayoutFunc func(nodes []*tree.Node, filters category.Set) layout.Result

// DefaultLayout lays out with [layout.DefaultConfig].
func DefaultLayout(nodes []*tree.Node, filters category.Set) layout.Result {
	return layout.Compute(nodes, filters, layout.DefaultConfig())
}

// Session is the interactive state of one viewer.
type Session struct {
	cfg      Config
	nodes    []*tree.Node
	imports  imports.Map
	layoutFn LayoutFunc

	filters       category.Set
	relationships bool

	idx      *Index
	result   layout.Result
	pos      layout.Positions
	expanded ExpandedSet
	explicit ExpandedSet
}

// NewSession starts a session over the unfiltered tree. A nil layoutFn
// uses [DefaultLayout]; a nil filter set shows every category.
func NewSession(nodes []*tree.Node, imp imports.Map, filters category.Set, cfg Config, layoutFn LayoutFunc) *Session {
	if layoutFn == nil {
		layoutFn = DefaultLayout
	}
	if filters == nil {
		filters = category.AllSet()
	}
	s := &Session{
		cfg:           cfg,
		nodes:         nodes,
		imports:       imp,
		layoutFn:      layoutFn,
		relationships: cfg.Relationships,
	}
	s.SetFilters(filters)
	return s
}

// =============================================================================
// Filters
// =============================================================================

// Filters returns a copy of the active filter set.
func (s *Session) Filters() category.Set { return s.filters.Clone() }

// SetFilters replaces the filter set. The tree is re-filtered and laid out
// again, the expanded set is reset to its auto-expanded default, and manual
// drags are discarded.
func (s *Session) SetFilters(filters category.Set) {
	s.filters = filters.Clone()
	s.idx = BuildIndex(tree.Filter(s.nodes, s.filters))
	s.result = s.layoutFn(s.nodes, s.filters)
	s.pos = s.result.Positions.Clone()
	s.expanded = AutoExpand(s.idx, s.cfg)
	s.explicit = ExpandedSet{}
}

// ToggleFilter flips one category and applies the result.
func (s *Session) ToggleFilter(c category.Category) {
	s.SetFilters(s.filters.Toggle(c))
}

// =============================================================================
// Expand / Collapse
// =============================================================================

// Toggle flips a visible directory between expanded and collapsed.
// Collapsing also collapses every directory beneath it. Files and hidden
// directories are left alone and changed is false.
func (s *Session) Toggle(id string) (changed bool, err error) {
	info, ok := s.idx.Info(id)
	if !ok {
		return false, errors.New(errors.ErrCodeNodeNotFound, "node %s not in view", id)
	}
	if !info.IsDirectory || !s.isVisible(id) {
		return false, nil
	}

	if s.expanded.Has(id) {
		delete(s.expanded, id)
		delete(s.explicit, id)
		for _, d := range s.idx.Descendants(id) {
			delete(s.expanded, d)
			delete(s.explicit, d)
		}
		return true, nil
	}
	s.expanded[id] = struct{}{}
	s.explicit[id] = struct{}{}
	return true, nil
}

// IsExpanded reports whether the directory id is expanded.
func (s *Session) IsExpanded(id string) bool { return s.expanded.Has(id) }

// Expanded returns the sorted expanded directory ids.
func (s *Session) Expanded() []string { return s.expanded.Slice() }

// =============================================================================
// Positions
// =============================================================================

// Drag moves id and every currently visible descendant by (dx, dy).
// Non-descendants are not moved.
func (s *Session) Drag(id string, dx, dy float64) error {
	p, ok := s.pos[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s has no position", id)
	}
	s.pos[id] = p.Add(dx, dy)
	for _, d := range s.idx.Descendants(id) {
		if !s.isVisible(d) {
			continue
		}
		s.pos[d] = s.pos[d].Add(dx, dy)
	}
	return nil
}

// MoveTo drags id so that it ends up at (x, y).
func (s *Session) MoveTo(id string, x, y float64) error {
	p, ok := s.pos[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s has no position", id)
	}
	return s.Drag(id, x-p.X, y-p.Y)
}

// Position returns the current position of id.
func (s *Session) Position(id string) (layout.Position, bool) {
	p, ok := s.pos[id]
	return p, ok
}

// Layout returns the computed layout before any drags.
func (s *Session) Layout() layout.Result { return s.result }

// =============================================================================
// Relationships
// =============================================================================

// ClearRelationships hides import edges.
func (s *Session) ClearRelationships() { s.relationships = false }

// SetRelationships shows or hides import edges.
func (s *Session) SetRelationships(on bool) { s.relationships = on }

// Relationships reports whether import edges are drawn.
func (s *Session) Relationships() bool { return s.relationships }

// =============================================================================
// Rendering
// =============================================================================

// Index returns the index of the filtered tree.
func (s *Session) Index() *Index { return s.idx }

// VisibleIDs returns the visible node ids in pre-order.
func (s *Session) VisibleIDs() []string {
	var out []string
	for _, id := range s.idx.Order() {
		if s.isVisible(id) {
			out = append(out, id)
		}
	}
	return out
}

// Graph builds the renderable model of the current state.
func (s *Session) Graph() graph.Graph {
	ids := s.VisibleIDs()
	visible := make(map[string]bool, len(ids))
	for _, id := range ids {
		visible[id] = true
	}

	g := graph.Graph{
		Nodes:         make([]graph.Node, 0, len(ids)),
		Edges:         []graph.Edge{},
		Filters:       s.filters.Clone(),
		Relationships: s.relationships,
	}
	for _, id := range ids {
		info := s.idx.infos[id]
		n := s.idx.nodes[id]
		p := s.pos[id]
		g.Nodes = append(g.Nodes, graph.Node{
			ID:         id,
			Label:      info.Name,
			Path:       info.Path,
			Category:   info.Category,
			Color:      category.Color(info.Category),
			Directory:  info.IsDirectory,
			Expanded:   info.IsDirectory && s.expanded.Has(id),
			X:          p.X,
			Y:          p.Y,
			Depth:      info.Depth,
			Parent:     info.ParentID,
			Type:       string(n.Type),
			Client:     n.IsClient,
			Size:       n.Size,
			ChildCount: len(info.ChildIDs),
		})
		if info.ParentID != "" && visible[info.ParentID] {
			g.Edges = append(g.Edges, graph.Edge{From: info.ParentID, To: id, Kind: graph.EdgeContains})
		}
	}

	if s.relationships {
		for _, id := range ids {
			n := s.idx.nodes[id]
			if n.IsDir() {
				continue
			}
			for _, dep := range s.imports[n.RelativePath] {
				to := tree.IDPrefix + dep
				if visible[to] && to != id {
					g.Edges = append(g.Edges, graph.Edge{From: id, To: to, Kind: graph.EdgeImports})
				}
			}
		}
	}

	graph.SortEdges(g.Edges)
	return g
}

func (s *Session) isVisible(id string) bool {
	return IsVisible(s.idx, s.expanded, s.explicit, id, s.cfg)
}
