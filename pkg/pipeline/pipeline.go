// Package pipeline runs analysis, layout and rendering for the CLI, the
// HTTP server and the terminal viewer.
//
//  1. Analyze: scan the project and assemble a [site.Structure]
//  2. Layout: position the filtered containment tree (memoized per tree,
//     filter set and geometry)
//  3. Render: encode the view graph as SVG, DOT, JSON, PNG or PDF
//
// Analysis results live in a [cache.Slot] keyed by project directory and
// scan options. A fresh entry is returned unless [Options.Refresh] is set,
// in which case the project is rescanned and the entry overwritten.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	res, err := runner.Analyze(ctx, pipeline.Options{ProjectDir: "."})
//	if err != nil {
//	    return err
//	}
//	sess := runner.NewSession(res.Structure, category.AllSet())
//	artifacts, err := pipeline.Render(ctx, sess.Graph(), []string{"svg"}, nodelink.Options{})
//
// [cache.Slot]: https://pkg.go.dev/github.com/matzehuels/sitegraph/pkg/cache#Slot
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/site"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one analysis run.
type Options struct {
	ProjectDir string   `json:"project_dir"`
	Roots      []string `json:"roots,omitempty"`
	Exclude    []string `json:"exclude,omitempty"`

	// Refresh bypasses a fresh cache entry and rescans.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

func (o *Options) setDefaults() {
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if len(o.Roots) == 0 {
		o.Roots = scan.DefaultRoots
	}
	if o.Exclude == nil {
		o.Exclude = scan.DefaultExclude
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ScanOptions converts to scanner options.
func (o Options) ScanOptions() scan.Options {
	return scan.Options{
		ProjectDir: o.ProjectDir,
		Roots:      o.Roots,
		Exclude:    o.Exclude,
		Logger:     o.Logger,
	}
}

// Validate checks the scan parameters.
func (o Options) Validate() error {
	return o.ScanOptions().Validate()
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of an analysis run.
type Result struct {
	Structure *site.Structure
	CacheInfo CacheInfo
	Stats     Stats
}

// CacheInfo describes where the structure came from.
type CacheInfo struct {
	Hit      bool      // Structure came from the cache
	StoredAt time.Time // When the returned structure was stored; zero if never cached
}

// Stats contains run statistics.
type Stats struct {
	FileCount    int
	EdgeCount    int
	AnalyzeTime  time.Duration
	CacheErrored bool // A cache read or write failed and was ignored
}
