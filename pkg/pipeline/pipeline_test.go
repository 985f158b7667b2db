package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/render/nodelink"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func sampleProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"app/page.tsx":          "import Button from '@/components/Button'\nexport default function Home() {}\n",
		"app/about/page.tsx":    "export default function About() {}\n",
		"components/Button.tsx": "'use client'\nexport default function Button() {}\n",
	})
}

func newTestRunner(clock *fakeClock) (*Runner, *cache.MemoryCache) {
	mem := cache.NewMemoryCache(16, clock.now)
	r := NewRunner(mem, nil, nil)
	r.Clock = clock.now
	return r, mem
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestAnalyzeCacheHit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r, _ := newTestRunner(clock)
	dir := sampleProject(t)

	first, err := r.Analyze(ctx, Options{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should miss")
	}
	if first.Stats.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", first.Stats.FileCount)
	}

	// New files are invisible while the entry is fresh.
	if err := os.WriteFile(filepath.Join(dir, "app", "contact.tsx"), []byte("export default function C() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Minute)

	second, err := r.Analyze(ctx, Options{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Fatal("second run should hit")
	}
	if !second.CacheInfo.StoredAt.Equal(clock.t.Add(-time.Minute)) {
		t.Errorf("StoredAt = %v", second.CacheInfo.StoredAt)
	}
	if second.Structure.FileCount != 3 {
		t.Errorf("cached FileCount = %d, want 3", second.Structure.FileCount)
	}
}

func TestAnalyzeRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r, _ := newTestRunner(clock)
	dir := sampleProject(t)

	if _, err := r.Analyze(ctx, Options{ProjectDir: dir}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app", "contact.tsx"), []byte("export default function C() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := r.Analyze(ctx, Options{ProjectDir: dir, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("refresh should not hit")
	}
	if res.Structure.FileCount != 4 {
		t.Errorf("FileCount = %d, want 4", res.Structure.FileCount)
	}

	// The refreshed result replaces the cached one.
	again, err := r.Analyze(ctx, Options{ProjectDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.Hit || again.Structure.FileCount != 4 {
		t.Errorf("after refresh: hit=%v files=%d", again.CacheInfo.Hit, again.Structure.FileCount)
	}
}

func TestAnalyzeExpiredEntryRescans(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r, _ := newTestRunner(clock)
	dir := sampleProject(t)

	if _, err := r.Analyze(ctx, Options{ProjectDir: dir}); err != nil {
		t.Fatal(err)
	}
	clock.advance(r.TTL)

	res, err := r.Analyze(ctx, Options{ProjectDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("entry older than TTL should miss")
	}
}

func TestAnalyzeInvalidate(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r, _ := newTestRunner(clock)
	dir := sampleProject(t)

	opts := Options{ProjectDir: dir}
	if _, err := r.Analyze(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if err := r.Invalidate(ctx, opts); err != nil {
		t.Fatal(err)
	}
	res, err := r.Analyze(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("invalidated entry should miss")
	}
}

func TestAnalyzeMissingProject(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Analyze(context.Background(), Options{ProjectDir: filepath.Join(t.TempDir(), "missing")})
	if !errors.Is(err, errors.ErrCodeRootNotFound) {
		t.Errorf("err = %v, want ROOT_NOT_FOUND", err)
	}
}

func TestAnalyzeRejectsUnsafeRoots(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Analyze(context.Background(), Options{ProjectDir: t.TempDir(), Roots: []string{"../etc"}})
	if !errors.IsInvalid(err) {
		t.Errorf("err = %v, want an invalid-input code", err)
	}
}

func TestLayoutMemoized(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(ctx, Options{ProjectDir: sampleProject(t)})
	if err != nil {
		t.Fatal(err)
	}

	all := category.AllSet()
	a := r.Layout(res.Structure.Tree, all)
	b := r.Layout(res.Structure.Tree, all)
	if r.MemoLen() != 1 {
		t.Errorf("MemoLen = %d, want 1", r.MemoLen())
	}
	if len(a.Positions) != len(b.Positions) {
		t.Fatalf("memoized layout differs: %d vs %d", len(a.Positions), len(b.Positions))
	}
	for id, p := range a.Positions {
		if b.Positions[id] != p {
			t.Errorf("%s: %v vs %v", id, p, b.Positions[id])
		}
	}

	// Callers own their copy.
	a.Positions["node-app"] = a.Positions["node-app"].Add(1000, 0)
	c := r.Layout(res.Structure.Tree, all)
	if c.Positions["node-app"] == a.Positions["node-app"] {
		t.Error("mutating a returned layout changed the memo")
	}

	r.Layout(res.Structure.Tree, category.NewSet(category.Pages))
	if r.MemoLen() != 2 {
		t.Errorf("MemoLen = %d, want 2", r.MemoLen())
	}
}

func TestRenderTextFormats(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(ctx, Options{ProjectDir: sampleProject(t)})
	if err != nil {
		t.Fatal(err)
	}
	g := r.NewSession(res.Structure, nil).Graph()

	artifacts, err := Render(ctx, g, []string{FormatDOT, FormatJSON}, nodelink.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `"node-app"`) {
		t.Error("DOT output missing app node")
	}
	decoded, err := graph.ReadGraph(strings.NewReader(string(artifacts[FormatJSON])))
	if err != nil {
		t.Fatalf("JSON output unreadable: %v", err)
	}
	if len(decoded.Nodes) != len(g.Nodes) {
		t.Errorf("JSON nodes = %d, want %d", len(decoded.Nodes), len(g.Nodes))
	}

	if _, err := Render(ctx, g, []string{"gif"}, nodelink.Options{}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestFormatTable(t *testing.T) {
	names := FormatNames()
	if want := []string{"dot", "json", "pdf", "png", "svg"}; !slices.Equal(names, want) {
		t.Errorf("FormatNames() = %v, want %v", names, want)
	}
	for _, n := range names {
		if ContentType(n) == "" {
			t.Errorf("format %s has no content type", n)
		}
	}
	if ContentType("gif") != "" {
		t.Error("unknown format should have no content type")
	}
}
