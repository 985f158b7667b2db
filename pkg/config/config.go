// Package config loads sitegraph settings from a TOML file and the
// environment.
//
// Settings resolve in three layers: [Default], then the file, then the
// SITEGRAPH_* environment variables. A .env file in the working directory
// is loaded by the command entry point before Load runs.
//
//	[scan]
//	roots = ["app", "components"]
//	exclude = ["node_modules", "**/*.test.tsx"]
//
//	[view]
//	filters = ["pages", "files"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/layout"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// FileName is the project-local config file looked up by [Discover].
const FileName = "sitegraph.toml"

// Environment overrides.
const (
	EnvRedisAddr = "SITEGRAPH_REDIS_ADDR"
	EnvMongoURI  = "SITEGRAPH_MONGO_URI"
	EnvAddr      = "SITEGRAPH_ADDR"
	EnvCacheTTL  = "SITEGRAPH_CACHE_TTL"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// =============================================================================
// Config
// =============================================================================

// Config is the full sitegraph configuration.
type Config struct {
	Scan   ScanConfig    `toml:"scan"`
	Layout layout.Config `toml:"layout"`
	View   ViewConfig    `toml:"view"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
	Store  StoreConfig   `toml:"store"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// ScanConfig selects what the scanner walks.
type ScanConfig struct {
	Roots   []string `toml:"roots"`
	Exclude []string `toml:"exclude"`
}

// ViewConfig holds visibility rules and the initial filter set.
type ViewConfig struct {
	DepthThreshold     int      `toml:"depth_threshold"`
	AutoExpandDepth    int      `toml:"auto_expand_depth"`
	AutoExpandDenylist []string `toml:"auto_expand_denylist"`
	Relationships      bool     `toml:"relationships"`
	Filters            []string `toml:"filters"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	TTL       string `toml:"ttl"` // Go duration, e.g. "5m"
	Dir       string `toml:"dir"` // File backend directory; empty uses the user cache dir
	Size      int    `toml:"size"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`

	// Namespace prefixes every cache key, letting several deployments
	// share one backend.
	Namespace string `toml:"namespace"`
}

// ServerConfig configures `sitegraph serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxSessions int    `toml:"max_sessions"`
}

// StoreConfig configures the snapshot store. An empty MongoURI disables it.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	v := view.DefaultConfig()
	return Config{
		Scan: ScanConfig{
			Roots:   slices.Clone(scan.DefaultRoots),
			Exclude: slices.Clone(scan.DefaultExclude),
		},
		Layout: layout.DefaultConfig(),
		View: ViewConfig{
			DepthThreshold:     v.DepthThreshold,
			AutoExpandDepth:    v.AutoExpandDepth,
			AutoExpandDenylist: v.AutoExpandDenylist,
			Relationships:      v.Relationships,
			Filters:            []string{"all"},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLStructure.String(),
			Size:    128,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxSessions: 64,
		},
		Store: StoreConfig{
			Database: "sitegraph",
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
			}
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
		cfg.Source = path
		for _, k := range md.Undecoded() {
			cfg.Unknown = append(cfg.Unknown, k.String())
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover returns explicit if set, else projectDir/sitegraph.toml when it
// exists, else "".
func Discover(explicit, projectDir string) string {
	if explicit != "" {
		return explicit
	}
	p := filepath.Join(projectDir, FileName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ""
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == BackendFile {
			c.Cache.Backend = BackendRedis
		}
	}
	if v := strings.TrimSpace(getenv(EnvMongoURI)); v != "" {
		c.Store.MongoURI = v
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv(EnvCacheTTL)); v != "" {
		c.Cache.TTL = v
	}
}

// =============================================================================
// Validation
// =============================================================================

// Validate rejects unusable settings.
func (c Config) Validate() error {
	if err := (scan.Options{Roots: c.Scan.Roots, Exclude: c.Scan.Exclude}).Validate(); err != nil {
		return err
	}
	if err := c.Layout.WithDefaults().Validate(); err != nil {
		return err
	}
	if _, err := c.Filters(); err != nil {
		return err
	}
	if c.View.DepthThreshold < 0 || c.View.AutoExpandDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "view depths must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, memory, redis, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Server.MaxSessions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_sessions must not be negative")
	}
	return nil
}

// Filters parses the configured initial filter set.
func (c Config) Filters() (category.Set, error) {
	if len(c.View.Filters) == 0 {
		return category.AllSet(), nil
	}
	return category.ParseList(c.View.Filters)
}

// CacheTTL parses the cache TTL. An empty value uses cache.TTLStructure.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.TTLStructure, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cache ttl %q", c.Cache.TTL)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "cache ttl must be positive")
	}
	return d, nil
}

// ViewConfig converts to the session visibility rules.
func (c Config) ViewConfig() view.Config {
	return view.Config{
		DepthThreshold:     c.View.DepthThreshold,
		AutoExpandDepth:    c.View.AutoExpandDepth,
		AutoExpandDenylist: slices.Clone(c.View.AutoExpandDenylist),
		Relationships:      c.View.Relationships,
	}
}
