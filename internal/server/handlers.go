package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sitegraph/pkg/buildinfo"
	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/layout"
	"github.com/matzehuels/sitegraph/pkg/pipeline"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// =============================================================================
// Stateless endpoints
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, _, _ := buildinfo.Info()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version,
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	refresh, err := boolQuery(r, "refresh")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.analyze(r, refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeaders(w, res.CacheInfo)
	writeJSON(w, http.StatusOK, res.Structure)
}

// layoutResponse is the body of GET /api/layout.
type layoutResponse struct {
	Filters    category.Set     `json:"filters"`
	Positions  layout.Positions `json:"positions"`
	Iterations int              `json:"iterations"`
	Converged  bool             `json:"converged"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	filters, err := s.filtersQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.analyze(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l := s.runner.Layout(res.Structure.Tree, filters)
	setCacheHeaders(w, res.CacheInfo)
	writeJSON(w, http.StatusOK, layoutResponse{
		Filters:    filters,
		Positions:  l.Positions,
		Iterations: l.Iterations,
		Converged:  l.Converged,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	filters, err := s.filtersQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.analyze(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g := s.runner.NewSession(res.Structure, filters).Graph()
	artifacts, err := pipeline.Render(r.Context(), g, []string{format}, s.opts.Render)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Sessions
// =============================================================================

// sessionState is the body returned by every session endpoint.
type sessionState struct {
	ID            string       `json:"id"`
	Filters       category.Set `json:"filters"`
	Expanded      []string     `json:"expanded"`
	Relationships bool         `json:"relationships"`
	Converged     bool         `json:"converged"`
	Graph         graph.Graph  `json:"graph"`
	Changed       *bool        `json:"changed,omitempty"`
}

func stateOf(id string, sess *view.Session) sessionState {
	return sessionState{
		ID:            id,
		Filters:       sess.Filters(),
		Expanded:      sess.Expanded(),
		Relationships: sess.Relationships(),
		Converged:     sess.Layout().Converged,
		Graph:         sess.Graph(),
	}
}

type filtersRequest struct {
	Filters *category.Set `json:"filters"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	filters := s.opts.Filters
	if req.Filters != nil {
		filters = *req.Filters
	}

	res, err := s.analyze(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := s.runner.NewSession(res.Structure, filters)
	id := s.sessions.add(r.Context(), sess)
	s.logger.Debug("session created", "id", id, "filters", filters.String())
	writeJSON(w, http.StatusCreated, stateOf(id, sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		return stateOf(id, sess), nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(r.Context(), id) {
		s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Filters == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "filters is required"))
		return
	}
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		sess.SetFilters(*req.Filters)
		return stateOf(id, sess), nil
	})
}

type toggleRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "id is required"))
		return
	}
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		changed, err := sess.Toggle(req.ID)
		if err != nil {
			return sessionState{}, err
		}
		st := stateOf(id, sess)
		st.Changed = &changed
		return st, nil
	})
}

type dragRequest struct {
	ID string  `json:"id"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "id is required"))
		return
	}
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		if err := sess.Drag(req.ID, req.DX, req.DY); err != nil {
			return sessionState{}, err
		}
		return stateOf(id, sess), nil
	})
}

func (s *Server) handleClearRelationships(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		sess.ClearRelationships()
		return stateOf(id, sess), nil
	})
}

type relationshipsRequest struct {
	On bool `json:"on"`
}

func (s *Server) handleSetRelationships(w http.ResponseWriter, r *http.Request) {
	var req relationshipsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(id string, sess *view.Session) (sessionState, error) {
		sess.SetRelationships(req.On)
		return stateOf(id, sess), nil
	})
}

// withSession runs fn under the session's lock and writes its result.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, sess *view.Session) (sessionState, error)) {
	id := chi.URLParam(r, "id")
	var st sessionState
	err := s.sessions.with(id, func(sess *view.Session) error {
		var err error
		st, err = fn(id, sess)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) analyze(r *http.Request, refresh bool) (*pipeline.Result, error) {
	opts := s.opts.Analysis
	opts.Refresh = refresh
	return s.runner.Analyze(r.Context(), opts)
}

// filtersQuery reads ?filters=; absent means the server default.
func (s *Server) filtersQuery(r *http.Request) (category.Set, error) {
	if !r.URL.Query().Has("filters") {
		return s.opts.Filters.Clone(), nil
	}
	return category.ParseSet(r.URL.Query().Get("filters"))
}

func boolQuery(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
	}
	return b, nil
}

func setCacheHeaders(w http.ResponseWriter, info pipeline.CacheInfo) {
	status := "miss"
	if info.Hit {
		status = "hit"
	}
	w.Header().Set("X-Sitegraph-Cache", status)
	if !info.StoredAt.IsZero() {
		w.Header().Set("X-Sitegraph-Stored-At", info.StoredAt.UTC().Format(time.RFC3339))
	}
}
