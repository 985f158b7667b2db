package scan

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitegraph/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

// DefaultRoots are the directories scanned when [Options.Roots] is empty.
var DefaultRoots = []string{"app", "components", "lib"}

// DefaultExclude are the entries skipped when [Options.Exclude] is nil.
var DefaultExclude = []string{"node_modules", ".next", ".git"}

// =============================================================================
// Options
// =============================================================================

// Options configures a [Scanner].
type Options struct {
	// ProjectDir is the project root. Relative paths are resolved against
	// the working directory. Defaults to ".".
	ProjectDir string

	// Roots are project-relative directories to walk. Defaults to DefaultRoots.
	Roots []string

	// Exclude lists entry names or doublestar patterns to skip.
	// Defaults to DefaultExclude; pass an empty non-nil slice to exclude nothing.
	Exclude []string

	// Logger receives warnings about skipped entries. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if len(o.Roots) == 0 {
		o.Roots = DefaultRoots
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks roots and exclusion entries for unsafe paths.
func (o Options) Validate() error {
	if err := errors.ValidatePaths(o.Roots); err != nil {
		return err
	}
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.New(errors.ErrCodeInvalidInput, "invalid exclude pattern: %q", p)
		}
	}
	return nil
}

// =============================================================================
// Scanner
// =============================================================================

// Scanner walks project roots and produces [FileRecord] values.
// A Scanner is stateless and may be reused for repeated scans.
type Scanner struct {
	opts Options
}

// New creates a scanner, applying defaults to unset options.
func New(opts Options) *Scanner {
	opts.setDefaults()
	return &Scanner{opts: opts}
}

// Options returns the effective options after defaults.
func (s *Scanner) Options() Options { return s.opts }

// Scan walks every root and returns the records sorted by relative path.
//
// Unreadable directories and files are logged and skipped. Scan returns an
// error only if the project directory does not exist, none of the roots
// exist, or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context) ([]FileRecord, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	projectDir, err := filepath.Abs(s.opts.ProjectDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve project dir %s", s.opts.ProjectDir)
	}
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		return nil, errors.Wrap(errors.ErrCodeRootNotFound, err, "project directory %s not found", projectDir)
	}

	var records []FileRecord
	found := 0
	for _, root := range s.opts.Roots {
		rootDir := filepath.Join(projectDir, filepath.FromSlash(root))
		info, err := os.Stat(rootDir)
		if err != nil || !info.IsDir() {
			s.opts.Logger.Warn("skip missing root", "root", root)
			continue
		}
		found++

		walked, err := s.walk(ctx, projectDir, rootDir)
		if err != nil {
			return nil, err
		}
		records = append(records, walked...)
	}

	if found == 0 {
		return nil, errors.New(errors.ErrCodeRootNotFound, "none of the roots %v exist in %s", s.opts.Roots, projectDir)
	}

	slices.SortFunc(records, func(a, b FileRecord) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})
	records = slices.CompactFunc(records, func(a, b FileRecord) bool {
		return a.RelativePath == b.RelativePath
	})

	s.opts.Logger.Debug("scan complete", "files", len(records), "roots", found)
	return records, nil
}

func (s *Scanner) walk(ctx context.Context, projectDir, rootDir string) ([]FileRecord, error) {
	var out []FileRecord
	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.opts.Logger.Warn("skip unreadable entry", "path", p, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := relPath(projectDir, p)
		if p != rootDir && s.excluded(d.Name(), rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSourceFile(d.Name()) {
			return nil
		}

		out = append(out, s.record(p, rel, d))
		return nil
	})
	return out, err
}

// record builds a FileRecord. Read and stat failures produce defaults.
func (s *Scanner) record(absPath, rel string, d fs.DirEntry) FileRecord {
	rec := FileRecord{
		Path:         absPath,
		RelativePath: rel,
		Name:         d.Name(),
		Type:         DetectType(rel),
	}

	if info, err := d.Info(); err == nil {
		rec.Size = info.Size()
	} else {
		s.opts.Logger.Warn("stat failed", "path", rel, "err", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		s.opts.Logger.Warn("skip unreadable file", "path", rel, "err", err)
		return rec
	}

	meta := Extract(content)
	rec.IsClientComponent = meta.IsClient
	rec.Imports = meta.Imports
	rec.Exports = meta.Exports
	rec.HasDefaultExport = meta.HasDefaultExport
	return rec
}

// excluded reports whether an entry matches any exclusion pattern, either by
// name or by project-relative path.
func (s *Scanner) excluded(name, rel string) bool {
	for _, pattern := range s.opts.Exclude {
		if pattern == name || pattern == rel {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func relPath(projectDir, p string) string {
	rel, err := filepath.Rel(projectDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return path.Clean(filepath.ToSlash(rel))
}
