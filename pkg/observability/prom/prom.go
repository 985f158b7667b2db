// Package prom implements the observability hooks with Prometheus
// collectors.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sitegraph/pkg/observability"
)

// Namespace prefixes every metric name.
const Namespace = "sitegraph"

// Metrics holds the collectors. It implements every hook interface in
// package observability.
type Metrics struct {
	registry *prometheus.Registry

	scansTotal     *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	scannedFiles   prometheus.Gauge
	layoutsTotal   *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutPasses   prometheus.Histogram
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	sessionsActive prometheus.Gauge
}

// New registers the collectors on reg. A nil reg creates a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		scansTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scans_total",
			Help:      "Project scans by result",
		}, []string{"result"}),
		scanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time to scan a project",
			Buckets:   prometheus.DefBuckets,
		}),
		scannedFiles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "scanned_files",
			Help:      "Files found by the most recent scan",
		}),
		layoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "layouts_total",
			Help:      "Computed layouts by convergence",
		}, []string{"converged"}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to compute a layout",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		layoutPasses: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "layout_collision_passes",
			Help:      "Collision passes that moved nodes",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by key type and outcome",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sessions_active",
			Help:      "Live interactive view sessions",
		}),
	}
}

// Register installs m as the global hooks.
func (m *Metrics) Register() {
	observability.Register(observability.Hooks{Scan: m, Layout: m, Cache: m, HTTP: m})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// =============================================================================
// Hook implementations
// =============================================================================

func (m *Metrics) OnScanStart(context.Context, string) {}

func (m *Metrics) OnScanComplete(_ context.Context, _ string, files int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.scansTotal.WithLabelValues(result).Inc()
	m.scanDuration.Observe(d.Seconds())
	if err == nil {
		m.scannedFiles.Set(float64(files))
	}
}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, iterations int, converged bool, d time.Duration) {
	m.layoutsTotal.WithLabelValues(strconv.FormatBool(converged)).Inc()
	m.layoutDuration.Observe(d.Seconds())
	m.layoutPasses.Observe(float64(iterations))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnSessions(_ context.Context, live int) {
	m.sessionsActive.Set(float64(live))
}

var (
	_ observability.ScanHooks   = (*Metrics)(nil)
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
