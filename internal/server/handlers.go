package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/varlayout/pkg/buildinfo"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/source/mongo"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
)

// layoutRequest is the body of /v1/layout, session creation and refresh.
// At most one of Payload and Query is set. A refresh without View reuses
// the session's previous view.
type layoutRequest struct {
	Payload   *payload.Payload  `json:"payload,omitempty"`
	Query     *mongo.Query      `json:"query,omitempty"`
	View      pipeline.ViewSpec `json:"view"`
	Change    pipeline.Change   `json:"change"`
	Highlight []string          `json:"highlight,omitempty"`
	Mode      string            `json:"mode,omitempty"`
}

type sessionResponse struct {
	ID     string          `json:"id"`
	Layout *payload.Layout `json:"layout,omitempty"`
}

type stateRequest struct {
	Chr     string  `json:"chr"`
	Pos     int     `json:"pos"`
	Folded  bool    `json:"folded"`
	XOffset float64 `json:"xoffset"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleLayout lays out one payload with a throwaway orchestrator.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Payload == nil && req.Query == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "payload or query is required"))
		return
	}
	orch, err := s.newOrchestrator(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Change = pipeline.ChangeRequery
	layout, err := s.refresh(r.Context(), orch, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeLayout(w, r, http.StatusOK, layout)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	orch, err := s.newOrchestrator(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := sessionResponse{}
	if req.Payload != nil || req.Query != nil {
		req.Change = pipeline.ChangeRequery
		layout, err := s.refresh(r.Context(), orch, req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Layout = &layout
	}

	sess := s.sessions.create(orch, req.View)
	resp.ID = sess.id
	s.logger.Debug("created session", "id", sess.id)
	w.Header().Set("Location", "/v1/sessions/"+sess.id)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req layoutRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(req.View.Regions) == 0 {
		req.View = sess.view
	}
	if req.Mode != "" {
		m, err := viewmode.Parse(req.Mode)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := sess.orch.SetMode(m); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	layout, err := s.refresh(r.Context(), sess.orch, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.view = req.View
	s.writeLayout(w, r, http.StatusOK, layout)
}

func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req stateRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateChromosome(req.Chr); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	sess.orch.SetState(track.Key{Chr: req.Chr, Pos: req.Pos}, track.UIState{Folded: req.Folded, XOffset: req.XOffset})
	sess.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req modeRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := viewmode.Parse(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.orch.SetMode(m); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.orch.Modes())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.delete(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) newOrchestrator(mode string) (*pipeline.Orchestrator, error) {
	opts := s.cfg.Pipeline
	if mode != "" {
		m, err := viewmode.Parse(mode)
		if err != nil {
			return nil, err
		}
		opts.DefaultMode = m
	}
	return pipeline.New(opts)
}

// refresh resolves the request payload and runs one refresh on orch.
func (s *Server) refresh(ctx context.Context, orch *pipeline.Orchestrator, req layoutRequest) (payload.Layout, error) {
	p, err := s.resolvePayload(ctx, req)
	if err != nil {
		return payload.Layout{}, err
	}
	res, err := orch.Refresh(ctx, pipeline.Request{
		Payload:   p,
		View:      req.View.View(),
		Change:    req.Change,
		Highlight: req.Highlight,
	})
	if err != nil {
		return payload.Layout{}, err
	}
	width := req.View.Width
	if width <= 0 {
		width = pipeline.DefaultWidth
	}
	return res.Export(width), nil
}

func (s *Server) resolvePayload(ctx context.Context, req layoutRequest) (*payload.Payload, error) {
	switch {
	case req.Payload != nil && req.Query != nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "payload and query are mutually exclusive")
	case req.Query != nil:
		if s.cfg.Loader == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no payload source configured")
		}
		return s.cfg.Loader.Load(ctx, *req.Query)
	}
	return req.Payload, nil
}

// writeLayout writes l with its fingerprint as ETag, honouring If-None-Match.
func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request, status int, l payload.Layout) {
	if l.Fingerprint != "" {
		etag := `"` + l.Fingerprint + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, status, l)
}
