// Package observability carries instrumentation events out of the analysis
// packages without tying them to a metrics backend.
//
// Scanning, layout, caching and the HTTP server report through the hook
// sets returned by [Scan], [Layout], [Cache] and [HTTP]. Until [Register]
// installs real implementations those are no-ops. Package prom provides
// a Prometheus-backed implementation:
//
//	m := prom.New(prometheus.NewRegistry())
//	m.Register() // calls observability.Register
//	defer observability.Reset()
//
// Emitting an event:
//
//	observability.Scan().OnScanStart(ctx, dir)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ===== Hook interfaces =====

// ScanHooks receives project analysis events.
type ScanHooks interface {
	OnScanStart(ctx context.Context, projectDir string)
	OnScanComplete(ctx context.Context, projectDir string, files int, duration time.Duration, err error)
}

// LayoutHooks receives layout events. Memoized layouts are not reported.
type LayoutHooks interface {
	OnLayoutComplete(ctx context.Context, nodes, iterations int, converged bool, duration time.Duration)
}

// CacheHooks receives cache events. keyType is the key prefix
// ("structure", "layout", ...), never the full key.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API server events.
type HTTPHooks interface {
	// route is the matched pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
	OnSessions(ctx context.Context, live int)
}

// Hooks is one full set of hook implementations. Nil fields fall back to
// no-ops.
type Hooks struct {
	Scan   ScanHooks
	Layout LayoutHooks
	Cache  CacheHooks
	HTTP   HTTPHooks
}

// ===== No-ops =====

type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string)                               {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}

type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, int, bool, time.Duration) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnSessions(context.Context, int)                               {}

// ===== Registry =====

var current atomic.Pointer[Hooks]

func init() { Reset() }

// withDefaults replaces nil fields with no-ops.
func (h Hooks) withDefaults() Hooks {
	if h.Scan == nil {
		h.Scan = NoopScanHooks{}
	}
	if h.Layout == nil {
		h.Layout = NoopLayoutHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}

// Register replaces the installed hooks. Nil fields keep whatever is
// currently installed for that concern, so packages can register partial
// sets independently.
func Register(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Scan != nil {
			next.Scan = h.Scan
		}
		if h.Layout != nil {
			next.Layout = h.Layout
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Reset reinstalls the no-op hooks.
func Reset() {
	h := Hooks{}.withDefaults()
	current.Store(&h)
}

// Installed returns a copy of the currently installed hooks.
func Installed() Hooks { return *current.Load() }

func Scan() ScanHooks     { return current.Load().Scan }
func Layout() LayoutHooks { return current.Load().Layout }
func Cache() CacheHooks   { return current.Load().Cache }
func HTTP() HTTPHooks     { return current.Load().HTTP }
