package category

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/errors"
)

// Set is a set of active categories. The zero value is the empty set and
// is ready to use with Has; use NewSet or Toggle to populate it.
type Set map[Category]struct{}

// NewSet returns a set containing cs.
func NewSet(cs ...Category) Set {
	s := make(Set, len(cs))
	for _, c := range cs {
		s[c] = struct{}{}
	}
	return s
}

// AllSet returns a set with every category enabled.
func AllSet() Set { return NewSet(All...) }

// Has reports whether c is in the set.
func (s Set) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Toggle flips membership of c and returns the resulting set.
// The receiver is not modified.
func (s Set) Toggle(c Category) Set {
	out := s.Clone()
	if out.Has(c) {
		delete(out, c)
	} else {
		out[c] = struct{}{}
	}
	return out
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same categories.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for c := range s {
		if !o.Has(c) {
			return false
		}
	}
	return true
}

// Slice returns the members in sorted order.
func (s Set) Slice() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// String returns the members joined by commas, sorted. It round-trips
// through ParseSet.
func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for _, c := range s.Slice() {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

// ParseSet parses a comma-separated category list such as "pages,files".
// Blank entries are ignored and "all" expands to every category. Unknown
// names produce an ErrCodeInvalidFilter error.
func ParseSet(s string) (Set, error) {
	out := Set{}
	all := false
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == "all" {
			all = true
			continue
		}
		c := Category(name)
		if !c.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidFilter, "unknown category %q (valid: pages, files, api, components)", name)
		}
		out[c] = struct{}{}
	}
	if all {
		return AllSet(), nil
	}
	return out, nil
}

// ParseList is ParseSet for an already-split list, as decoded from config
// files or JSON bodies.
func ParseList(names []string) (Set, error) {
	return ParseSet(strings.Join(names, ","))
}

// MarshalJSON encodes the set as a sorted array of names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes an array of names, rejecting unknown categories.
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseList(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
