package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/layout"
	"github.com/matzehuels/sitegraph/pkg/observability"
	"github.com/matzehuels/sitegraph/pkg/site"
	"github.com/matzehuels/sitegraph/pkg/tree"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// DefaultMemoSize is the number of layouts kept in memory.
const DefaultMemoSize = 256

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the viewer use it to share caching logic.
//
// Runner holds no per-run state besides the layout memo, which is safe for
// concurrent use. Multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds the age of cached structures. Defaults to cache.TTLStructure.
	TTL time.Duration

	// Clock stamps and ages cache entries. Defaults to the wall clock.
	Clock cache.Clock

	// Layout is the geometry used by Layout and sessions.
	Layout layout.Config

	// View configures sessions created by NewSession.
	View view.Config

	memo *lru.Cache[string, layout.Result]
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	memo, _ := lru.New[string, layout.Result](DefaultMemoSize)
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLStructure,
		Layout: layout.DefaultConfig(),
		View:   view.DefaultConfig(),
		memo:   memo,
	}
}

// =============================================================================
// Analyze
// =============================================================================

// Analyze returns the site structure of a project, from the cache when a
// fresh entry exists and opts.Refresh is false.
//
// Cache failures never fail the run: they are logged and the project is
// scanned.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.setDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	slot := cache.NewSlot[*site.Structure](r.Cache, r.TTL, r.Clock)
	key := r.Keyer.StructureKey(opts.ProjectDir, cache.StructureKeyOpts{
		Roots:   opts.Roots,
		Exclude: opts.Exclude,
	})
	res := &Result{}

	if !opts.Refresh {
		s, hit, err := slot.Get(ctx, key)
		switch {
		case err != nil:
			res.Stats.CacheErrored = true
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		case hit && s != nil:
			storedAt, _, _ := slot.Timestamp(ctx, key)
			observability.Cache().OnCacheHit(ctx, cache.PrefixStructure)
			r.Logger.Debug("structure from cache", "dir", opts.ProjectDir, "stored_at", storedAt)
			res.Structure = s
			res.CacheInfo = CacheInfo{Hit: true, StoredAt: storedAt}
			res.Stats.FileCount = s.FileCount
			res.Stats.EdgeCount = s.EdgeCount
			return res, nil
		default:
			observability.Cache().OnCacheMiss(ctx, cache.PrefixStructure)
		}
	}

	start := time.Now()
	observability.Scan().OnScanStart(ctx, opts.ProjectDir)
	s, err := site.Analyze(ctx, opts.ScanOptions(), r.now)
	res.Stats.AnalyzeTime = time.Since(start)
	files := 0
	if s != nil {
		files = s.FileCount
	}
	observability.Scan().OnScanComplete(ctx, opts.ProjectDir, files, res.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	r.Logger.Info("analyzed project",
		"dir", opts.ProjectDir,
		"files", s.FileCount,
		"imports", s.EdgeCount,
		"duration", res.Stats.AnalyzeTime)

	res.Structure = s
	res.Stats.FileCount = s.FileCount
	res.Stats.EdgeCount = s.EdgeCount

	if err := slot.Set(ctx, key, s); err != nil {
		res.Stats.CacheErrored = true
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.PrefixStructure, s.FileCount)
		res.CacheInfo.StoredAt = s.AnalyzedAt
	}
	return res, nil
}

// Invalidate drops the cached structure for opts.
func (r *Runner) Invalidate(ctx context.Context, opts Options) error {
	opts.setDefaults()
	key := r.Keyer.StructureKey(opts.ProjectDir, cache.StructureKeyOpts{
		Roots:   opts.Roots,
		Exclude: opts.Exclude,
	})
	if err := r.Cache.Delete(ctx, key); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "invalidate %s", opts.ProjectDir)
	}
	return nil
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// =============================================================================
// Layout
// =============================================================================

// Layout computes positions for nodes under filters with the runner's
// geometry. Results are memoized by tree content, filters and geometry;
// callers receive their own copy of the positions.
func (r *Runner) Layout(nodes []*tree.Node, filters category.Set) layout.Result {
	cfg := r.Layout.WithDefaults()
	key, ok := r.layoutKey(nodes, filters, cfg)
	if ok {
		if cached, hit := r.memo.Get(key); hit {
			cached.Positions = cached.Positions.Clone()
			return cached
		}
	}

	start := time.Now()
	res := layout.Compute(nodes, filters, cfg)
	d := time.Since(start)
	observability.Layout().OnLayoutComplete(context.Background(), len(res.Positions), res.Iterations, res.Converged, d)
	if !res.Converged {
		r.Logger.Warn("collision resolution hit its pass limit", "passes", res.Iterations, "nodes", len(res.Positions))
	}
	r.Logger.Debug("computed layout", "nodes", len(res.Positions), "filters", filters.String(), "duration", d)

	if ok {
		stored := res
		stored.Positions = res.Positions.Clone()
		r.memo.Add(key, stored)
	}
	return res
}

// LayoutFunc returns Layout as a view.LayoutFunc.
func (r *Runner) LayoutFunc() view.LayoutFunc { return r.Layout }

func (r *Runner) layoutKey(nodes []*tree.Node, filters category.Set, cfg layout.Config) (string, bool) {
	treeHash, err := cache.HashJSON(nodes)
	if err != nil {
		return "", false
	}
	geometry, err := cache.HashJSON(cfg)
	if err != nil {
		return "", false
	}
	return r.Keyer.LayoutKey(treeHash, cache.LayoutKeyOpts{
		Filters:  filters.String(),
		Geometry: geometry,
	}), true
}

// MemoLen returns the number of memoized layouts.
func (r *Runner) MemoLen() int { return r.memo.Len() }

// NewSession starts a view session over s with the runner's layout.
func (r *Runner) NewSession(s *site.Structure, filters category.Set) *view.Session {
	return view.NewSession(s.Tree, s.ImportMap, filters, r.View, r.LayoutFunc())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	r.memo.Purge()
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
