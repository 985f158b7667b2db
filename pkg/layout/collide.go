package layout

import "math"

// ResolveCollisions nudges overlapping boxes apart in place. Each pass
// visits nodes in (Y, X, id) order and, for every overlapping pair, moves
// the later node: right when the overlap is horizontally dominant or the
// two sit at nearly the same height, down otherwise. Passes repeat until one
// moves nothing or cfg.MaxIterations is reached.
//
// It returns the number of passes that moved at least one node and whether
// the final state is overlap-free.
func ResolveCollisions(pos Positions, cfg Config) (iterations int, converged bool) {
	cfg = cfg.WithDefaults()
	for iterations < cfg.MaxIterations {
		if !resolvePass(pos, cfg) {
			return iterations, true
		}
		iterations++
	}
	return iterations, len(Overlaps(pos, cfg)) == 0
}

func resolvePass(pos Positions, cfg Config) bool {
	ids := pos.IDs()
	moved := false
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			a, b := pos[ids[i]], pos[ids[j]]
			if !overlaps(a, b, cfg) {
				continue
			}
			dx, dy := b.X-a.X, b.Y-a.Y
			if math.Abs(dx) >= math.Abs(dy) || math.Abs(dy) < cfg.NodeHeight/2 {
				b.X = a.X + cfg.NodeWidth + cfg.Padding
			} else {
				b.Y = a.Y + cfg.NodeHeight + cfg.Padding
			}
			pos[ids[j]] = b
			moved = true
		}
	}
	return moved
}

// Overlaps returns every pair of ids whose padded boxes overlap, ordered
// by the collision pass's visiting order.
func Overlaps(pos Positions, cfg Config) [][2]string {
	cfg = cfg.WithDefaults()
	ids := pos.IDs()
	var out [][2]string
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if overlaps(pos[ids[i]], pos[ids[j]], cfg) {
				out = append(out, [2]string{ids[i], ids[j]})
			}
		}
	}
	return out
}

// overlaps reports whether two node boxes, each extended by the padding,
// intersect.
func overlaps(a, b Position, cfg Config) bool {
	return math.Abs(a.X-b.X) < cfg.NodeWidth+cfg.Padding &&
		math.Abs(a.Y-b.Y) < cfg.NodeHeight+cfg.Padding
}
