package view

import (
	"slices"

	"github.com/matzehuels/sitegraph/pkg/category"
)

// Defaults for Config.
const (
	DefaultDepthThreshold  = 3
	DefaultAutoExpandDepth = 2
)

// DefaultAutoExpandDenylist names directories left collapsed by
// auto-expansion.
var DefaultAutoExpandDenylist = []string{"ui", "utils", "hooks", "lib", "types", "styles"}

// Config controls visibility rules.
type Config struct {
	// Files deeper than this (roots are depth 0) are hidden unless an
	// ancestor was expanded explicitly.
	DepthThreshold int `toml:"depth_threshold" json:"depthThreshold"`

	// Auto-expand non-empty directories shallower than this.
	AutoExpandDepth int `toml:"auto_expand_depth" json:"autoExpandDepth"`

	// Directory names never auto-expanded.
	AutoExpandDenylist []string `toml:"auto_expand_denylist" json:"autoExpandDenylist"`

	// Draw import edges.
	Relationships bool `toml:"relationships" json:"relationships"`
}

// DefaultConfig returns the default visibility rules.
func DefaultConfig() Config {
	return Config{
		DepthThreshold:     DefaultDepthThreshold,
		AutoExpandDepth:    DefaultAutoExpandDepth,
		AutoExpandDenylist: slices.Clone(DefaultAutoExpandDenylist),
		Relationships:      true,
	}
}

// ExpandedSet is a set of expanded directory ids.
type ExpandedSet map[string]struct{}

// Has reports whether id is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns a copy of s.
func (s ExpandedSet) Clone() ExpandedSet {
	out := make(ExpandedSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Slice returns the ids in sorted order.
func (s ExpandedSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// AutoExpand returns the default expanded set for idx: every non-empty
// directory shallower than cfg.AutoExpandDepth, except denylisted names and
// the API subtree. A directory only qualifies when its parent does, so the
// result is closed under ancestors.
func AutoExpand(idx *Index, cfg Config) ExpandedSet {
	deny := make(map[string]bool, len(cfg.AutoExpandDenylist))
	for _, name := range cfg.AutoExpandDenylist {
		deny[name] = true
	}

	out := ExpandedSet{}
	for _, id := range idx.Order() {
		info := idx.infos[id]
		switch {
		case !info.IsDirectory, len(info.ChildIDs) == 0, info.Depth >= cfg.AutoExpandDepth:
			continue
		case deny[info.Name], category.IsAPI(info.Path):
			continue
		case info.ParentID != "" && !out.Has(info.ParentID):
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

// IsVisible reports whether id is shown given the expanded set and the
// explicitly expanded subset.
func IsVisible(idx *Index, expanded, explicit ExpandedSet, id string, cfg Config) bool {
	info, ok := idx.infos[id]
	if !ok {
		return false
	}
	ancestors := idx.Ancestors(id)
	for _, a := range ancestors {
		if !expanded.Has(a) {
			return false
		}
	}
	if info.IsDirectory || info.Depth <= cfg.DepthThreshold {
		return true
	}
	for _, a := range ancestors {
		if explicit.Has(a) {
			return true
		}
	}
	return false
}
