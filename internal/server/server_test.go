package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/pipeline"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"app/page.tsx":          "import Button from '@/components/Button'\nexport default function Home() {}\n",
		"app/about/page.tsx":    "export default function About() {}\n",
		"components/Button.tsx": "'use client'\nexport default function Button() {}\n",
	}
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

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Analysis.ProjectDir = writeProject(t)
	runner := pipeline.NewRunner(cache.NewMemoryCache(16, nil), nil, nil)
	srv, err := New(runner, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code errors.Code) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[errorBody](t, resp)
	if body.Code != code {
		t.Errorf("code = %s, want %s (%s)", body.Code, code, body.Message)
	}
}

type stateBody struct {
	ID            string   `json:"id"`
	Filters       []string `json:"filters"`
	Expanded      []string `json:"expanded"`
	Relationships bool     `json:"relationships"`
	Changed       *bool    `json:"changed"`
	Graph         struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			Kind string `json:"kind"`
		} `json:"edges"`
	} `json:"graph"`
}

func (s stateBody) node(id string) (x, y float64, ok bool) {
	for _, n := range s.Graph.Nodes {
		if n.ID == id {
			return n.X, n.Y, true
		}
	}
	return 0, 0, false
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[map[string]any](t, resp)["status"]; got != "ok" {
		t.Errorf("status field = %v", got)
	}
}

func TestStructureCaching(t *testing.T) {
	ts := newTestServer(t, Options{})

	first := do(t, http.MethodGet, ts.URL+"/api/structure", nil)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", first.StatusCode)
	}
	if got := first.Header.Get("X-Sitegraph-Cache"); got != "miss" {
		t.Errorf("first cache header = %q, want miss", got)
	}
	body := decode[map[string]json.RawMessage](t, first)
	for _, key := range []string{"pages", "components", "uiComponents", "tree", "importMap", "analyzedAt"} {
		if _, ok := body[key]; !ok {
			t.Errorf("structure missing %q", key)
		}
	}

	second := do(t, http.MethodGet, ts.URL+"/api/structure", nil)
	if got := second.Header.Get("X-Sitegraph-Cache"); got != "hit" {
		t.Errorf("second cache header = %q, want hit", got)
	}

	refreshed := do(t, http.MethodGet, ts.URL+"/api/structure?refresh=true", nil)
	if got := refreshed.Header.Get("X-Sitegraph-Cache"); got != "miss" {
		t.Errorf("refresh cache header = %q, want miss", got)
	}

	bad := do(t, http.MethodGet, ts.URL+"/api/structure?refresh=maybe", nil)
	expectError(t, bad, http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/layout?filters=pages", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[struct {
		Filters   []string                      `json:"filters"`
		Positions map[string]map[string]float64 `json:"positions"`
		Converged bool                          `json:"converged"`
	}](t, resp)
	if !slices.Equal(body.Filters, []string{"pages"}) {
		t.Errorf("filters = %v", body.Filters)
	}
	app, ok := body.Positions["node-app"]
	if !ok || app["x"] != 400 || app["y"] != 50 {
		t.Errorf("app position = %v", app)
	}
	if _, ok := body.Positions["node-components/Button.tsx"]; ok {
		t.Error("component laid out with components filtered out")
	}
	if !body.Converged {
		t.Error("layout did not converge")
	}

	bad := do(t, http.MethodGet, ts.URL+"/api/layout?filters=widgets", nil)
	expectError(t, bad, http.StatusBadRequest, errors.ErrCodeInvalidFilter)
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/render.dot", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `"node-app"`) {
		t.Error("DOT missing app node")
	}

	bad := do(t, http.MethodGet, ts.URL+"/api/render.gif", nil)
	expectError(t, bad, http.StatusBadRequest, errors.ErrCodeInvalidFormat)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, Options{})

	created := do(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{"filters": []string{"pages", "files", "components"}})
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", created.StatusCode)
	}
	st := decode[stateBody](t, created)
	if st.ID == "" {
		t.Fatal("no session id")
	}
	if !slices.Contains(st.Expanded, "node-app") {
		t.Errorf("app not auto-expanded: %v", st.Expanded)
	}
	base := ts.URL + "/api/sessions/" + st.ID

	// Collapse app.
	toggled := decode[stateBody](t, do(t, http.MethodPost, base+"/toggle", map[string]string{"id": "node-app"}))
	if toggled.Changed == nil || !*toggled.Changed {
		t.Error("toggle of an expanded directory should report a change")
	}
	if slices.Contains(toggled.Expanded, "node-app") {
		t.Error("app still expanded after toggle")
	}
	if _, _, ok := toggled.node("node-app/page.tsx"); ok {
		t.Error("child of collapsed app still visible")
	}

	// Expand again and drag.
	do(t, http.MethodPost, base+"/toggle", map[string]string{"id": "node-app"})
	dragged := decode[stateBody](t, do(t, http.MethodPost, base+"/drag", map[string]any{"id": "node-app", "dx": 10, "dy": -5}))
	if x, y, _ := dragged.node("node-app"); x != 410 || y != 45 {
		t.Errorf("dragged app = (%v, %v), want (410, 45)", x, y)
	}
	if x, y, _ := dragged.node("node-app/page.tsx"); x != 410 || y != 165 {
		t.Errorf("dragged child = (%v, %v), want (410, 165)", x, y)
	}

	cleared := decode[stateBody](t, do(t, http.MethodPost, base+"/relationships/clear", nil))
	if cleared.Relationships {
		t.Error("relationships still on")
	}
	for _, e := range cleared.Graph.Edges {
		if e.Kind == "imports" {
			t.Error("import edge drawn after clearing relationships")
		}
	}

	filtered := decode[stateBody](t, do(t, http.MethodPut, base+"/filters", map[string]any{"filters": []string{}}))
	if len(filtered.Filters) != 0 {
		t.Errorf("filters = %v, want none", filtered.Filters)
	}
	if _, _, ok := filtered.node("node-app"); !ok {
		t.Error("app must stay visible with no filters")
	}

	got := do(t, http.MethodGet, base, nil)
	if got.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", got.StatusCode)
	}

	if resp := do(t, http.MethodDelete, base, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	expectError(t, do(t, http.MethodGet, base, nil), http.StatusNotFound, errors.ErrCodeSessionNotFound)
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t, Options{})

	expectError(t, do(t, http.MethodGet, ts.URL+"/api/sessions/not-a-uuid", nil), http.StatusNotFound, errors.ErrCodeSessionNotFound)
	expectError(t, do(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{"filters": []string{"widgets"}}), http.StatusBadRequest, errors.ErrCodeInvalidFilter)
	expectError(t, do(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{"bogus": true}), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	st := decode[stateBody](t, do(t, http.MethodPost, ts.URL+"/api/sessions", nil))
	base := ts.URL + "/api/sessions/" + st.ID
	expectError(t, do(t, http.MethodPost, base+"/toggle", map[string]string{"id": "node-missing"}), http.StatusNotFound, errors.ErrCodeNodeNotFound)
	expectError(t, do(t, http.MethodPost, base+"/toggle", map[string]string{}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
	expectError(t, do(t, http.MethodPost, base+"/drag", map[string]any{"id": "node-missing", "dx": 1}), http.StatusNotFound, errors.ErrCodeNodeNotFound)
	expectError(t, do(t, http.MethodPut, base+"/filters", map[string]any{}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestSessionEviction(t *testing.T) {
	ts := newTestServer(t, Options{MaxSessions: 1})

	first := decode[stateBody](t, do(t, http.MethodPost, ts.URL+"/api/sessions", nil))
	second := decode[stateBody](t, do(t, http.MethodPost, ts.URL+"/api/sessions", nil))

	expectError(t, do(t, http.MethodGet, ts.URL+"/api/sessions/"+first.ID, nil), http.StatusNotFound, errors.ErrCodeSessionNotFound)
	if resp := do(t, http.MethodGet, ts.URL+"/api/sessions/"+second.ID, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("newest session status = %d", resp.StatusCode)
	}
}

func TestMetricsMounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "sitegraph_test_total"}))
	ts := newTestServer(t, Options{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "sitegraph_test_total") {
		t.Error("metrics output missing registered counter")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidFilter, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeRootNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeCache, "x"), http.StatusServiceUnavailable},
		{os.ErrPermission, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
