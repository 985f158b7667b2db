// Package cli implements the sitegraph command-line interface.
//
// Commands analyze a Next.js project, print or export its structure and
// layout, run the interactive terminal viewer, and serve the HTTP API. The
// CLI is built with cobra; logs go to stderr through charmbracelet/log and
// results go to stdout.
//
// # Commands
//
//   - analyze: scan the project and print its structure as JSON
//   - tree: print the containment tree with categories
//   - layout: print computed node positions as JSON
//   - render: export the view graph as SVG, DOT, JSON, PDF or PNG
//   - view: browse the graph interactively in the terminal
//   - serve: run the HTTP API
//   - snapshots: list stored structure snapshots
//   - cache: manage the analysis cache
//
// # Configuration
//
// Settings come from --config, else <dir>/sitegraph.toml when present, then
// SITEGRAPH_* environment variables. Flags override both.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/buildinfo"
	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/config"
	"github.com/matzehuels/sitegraph/pkg/errors"
	sgio "github.com/matzehuels/sitegraph/pkg/io"
	"github.com/matzehuels/sitegraph/pkg/pipeline"
	"github.com/matzehuels/sitegraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sitegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Exit codes returned by [ExitCode].
const (
	ExitError       = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode reports err on stderr and returns the process exit code:
// ExitInterrupted after a signal, ExitUsage for invalid input, ExitError
// for anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsInvalid(err):
		printError("%s", errors.UserMessage(err))
		return ExitUsage
	}
	printError("%s", err)
	return ExitError
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	version, _, _ := buildinfo.Info()
	root := &cobra.Command{
		Use:           appName,
		Short:         "Sitegraph maps the structure of Next.js projects",
		Long:          `Sitegraph scans a Next.js App Router project, classifies its routes, components and utilities, resolves imports between them, and lays the result out as an explorable graph.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <dir>/sitegraph.toml)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotsCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig resolves the config for a project directory.
func (c *CLI) loadConfig(projectDir string) (config.Config, error) {
	path := config.Discover(c.configPath, projectDir)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "path", cfg.Source)
	}
	for _, k := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", k, "path", cfg.Source)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := cfg.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns+":")
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = ttl
	r.Layout = cfg.Layout
	r.View = cfg.ViewConfig()
	return r, nil
}

// newCache opens the configured backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(cfg.Cache.Size, nil), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return rc, nil
	}

	dir, err := cacheDir(cfg)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// openStore connects to the configured snapshot store.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.MongoURI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"snapshot store not configured: set store.mongo_uri or %s", config.EnvMongoURI)
	}
	return store.NewMongoStore(ctx, store.MongoOptions{URI: cfg.Store.MongoURI, Database: cfg.Store.Database})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from config, else the
// XDG cache home (~/.cache/sitegraph/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// projectDir returns the optional [dir] argument, defaulting to ".".
func projectDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// =============================================================================
// Options Helpers
// =============================================================================

// scanFlags are the analysis flags shared by every project command.
type scanFlags struct {
	roots   []string
	exclude []string
	refresh bool
	noCache bool
	from    string // structure JSON to load instead of scanning
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.roots, "roots", nil, "directories to scan (default app,components,lib)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "names or glob patterns to skip (default node_modules,.next,.git)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rescan even if a fresh cached result exists")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the analysis cache")
	cmd.Flags().StringVar(&f.from, "from", "", "load a structure written by \"analyze -o\" instead of scanning")
}

// options merges flags over the config.
func (f *scanFlags) options(cfg config.Config, dir string) pipeline.Options {
	opts := pipeline.Options{
		ProjectDir: dir,
		Roots:      cfg.Scan.Roots,
		Exclude:    cfg.Scan.Exclude,
		Refresh:    f.refresh,
	}
	if len(f.roots) > 0 {
		opts.Roots = f.roots
	}
	if f.exclude != nil {
		opts.Exclude = f.exclude
	}
	return opts
}

// project bundles what project commands need after analysis.
type project struct {
	cfg    config.Config
	runner *pipeline.Runner
	result *pipeline.Result
}

// analyzeProject loads config, builds a runner and analyzes dir.
// The caller closes the runner.
func (c *CLI) analyzeProject(ctx context.Context, dir string, flags *scanFlags) (*project, error) {
	cfg, err := c.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return nil, err
	}
	prog := newProgress(c.Logger)
	if flags.from != "" {
		s, err := sgio.ImportStructure(flags.from)
		if err != nil {
			_ = runner.Close()
			return nil, err
		}
		prog.done("Loaded "+flags.from, "files", s.FileCount, "imports", s.EdgeCount)
		return &project{cfg: cfg, runner: runner, result: &pipeline.Result{Structure: s}}, nil
	}
	res, err := runner.Analyze(ctx, flags.options(cfg, dir))
	if err != nil {
		_ = runner.Close()
		return nil, err
	}
	status := "Analyzed"
	if res.CacheInfo.Hit {
		status = "Loaded cached analysis of"
	}
	prog.done(status+" "+dir, "files", res.Structure.FileCount, "imports", res.Structure.EdgeCount)
	return &project{cfg: cfg, runner: runner, result: res}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
