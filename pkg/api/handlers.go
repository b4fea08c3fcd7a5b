package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/graph"
	"github.com/cophylo/phylotime/pkg/pipeline"
	"github.com/cophylo/phylotime/pkg/store"
)

// CheckResponse is the body returned by POST /api/v1/check.
type CheckResponse struct {
	// ID identifies the archived record; empty when archival is disabled
	// or the result came from cache.
	ID string `json:"id,omitempty"`

	Result graph.Result `json:"result"`
	Cached bool         `json:"cached"`
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	in, err := graph.ReadInput(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	opts := pipeline.Options{
		Input:   &in,
		Refresh: r.URL.Query().Get("refresh") == "true",
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := CheckResponse{
		Result: res.Check,
		Cached: res.CacheInfo.Hit,
	}

	// Archive freshly computed checks; cached ones were archived when
	// first computed.
	if s.store != nil && !res.CacheInfo.Hit {
		rec := store.NewRecord(res.Input, res.Check)
		if err := s.store.Save(r.Context(), rec); err != nil {
			s.logger.Warn("archive failed", "err", err)
		} else {
			resp.ID = rec.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "check archive is not configured"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "check archive is not configured"))
		return
	}
	recs, err := s.store.List(r.Context(), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// writeError maps an error code to an HTTP status and writes the envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTree,
		errors.ErrCodeInvalidReconciliation, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeCheckNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
