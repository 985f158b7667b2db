package layout

import (
	"cmp"
	"math"
	"slices"
)

// Position is a node's top-left corner.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p moved by (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Positions maps node ids to positions.
type Positions map[string]Position

// Clone returns a copy of p.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pos := range p {
		out[id] = pos
	}
	return out
}

// IDs returns the ids sorted by (Y, X, id), the order the collision pass
// visits them in.
func (p Positions) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		pa, pb := p[a], p[b]
		if c := cmp.Compare(pa.Y, pb.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(pa.X, pb.X); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// Bounds is an axis-aligned bounding rectangle.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf returns the rectangle covering every node box in p.
// The zero Bounds is returned for an empty map.
func BoundsOf(p Positions, cfg Config) Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, pos := range p {
		b.MinX = min(b.MinX, pos.X)
		b.MinY = min(b.MinY, pos.Y)
		b.MaxX = max(b.MaxX, pos.X+cfg.NodeWidth)
		b.MaxY = max(b.MaxY, pos.Y+cfg.NodeHeight)
	}
	return b
}
