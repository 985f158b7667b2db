package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"slices"
)

// Key prefixes.
const (
	PrefixStructure = "structure"
	PrefixLayout    = "layout"
)

// StructureKeyOpts are the scan parameters that change a scan result.
type StructureKeyOpts struct {
	Roots   []string `json:"roots"`
	Exclude []string `json:"exclude"`
}

// LayoutKeyOpts are the parameters that change a layout.
type LayoutKeyOpts struct {
	Filters  string `json:"filters"`  // Canonical filter string ("files,pages")
	Geometry string `json:"geometry"` // Hash of the layout configuration
}

// Keyer derives cache keys.
type Keyer interface {
	// StructureKey identifies the scan result of one project.
	StructureKey(projectDir string, opts StructureKeyOpts) string

	// LayoutKey identifies a layout of the tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key scheme. Root and exclude order does not
// affect keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() DefaultKeyer { return DefaultKeyer{} }

// StructureKey implements Keyer.
func (DefaultKeyer) StructureKey(projectDir string, opts StructureKeyOpts) string {
	roots := slices.Sorted(slices.Values(opts.Roots))
	exclude := slices.Sorted(slices.Values(opts.Exclude))
	return hashKey(PrefixStructure, filepath.Clean(projectDir), roots, exclude)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, treeHash, opts.Filters, opts.Geometry)
}

var _ Keyer = DefaultKeyer{}

// ===== Hashing =====

// hashKey returns prefix + ":" + the hex SHA-256 of parts, each JSON-encoded
// on its own line. Parts are plain strings, slices and option structs, so
// encoding cannot fail.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the [Hash] of v's JSON encoding. The pipeline uses it to
// fingerprint trees and layout geometry.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", backendError("hash", "", err)
	}
	return Hash(data), nil
}
