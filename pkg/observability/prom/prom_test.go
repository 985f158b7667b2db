package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnScanComplete(ctx, "/p", 12, 30*time.Millisecond, nil)
	m.OnScanComplete(ctx, "/p", 0, time.Millisecond, errors.New("boom"))
	m.OnLayoutComplete(ctx, 12, 2, true, time.Millisecond)
	m.OnCacheHit(ctx, "structure")
	m.OnCacheMiss(ctx, "structure")
	m.OnCacheSet(ctx, "structure", 512)
	m.OnRequest(ctx, "GET", "/api/structure", 200, 5*time.Millisecond)
	m.OnSessions(ctx, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`sitegraph_scans_total{result="ok"} 1`,
		`sitegraph_scans_total{result="error"} 1`,
		`sitegraph_scanned_files 12`,
		`sitegraph_layouts_total{converged="true"} 1`,
		`sitegraph_cache_operations_total{key_type="structure",op="hit"} 1`,
		`sitegraph_cache_written_bytes_total{key_type="structure"} 512`,
		`sitegraph_http_requests_total{method="GET",route="/api/structure",status="200"} 1`,
		`sitegraph_sessions_active 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
