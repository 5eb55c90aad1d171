package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
	"github.com/NishanthRao01/bankguard/pkg/buildinfo"
	"github.com/NishanthRao01/bankguard/pkg/errors"
	"github.com/NishanthRao01/bankguard/pkg/observability"
	"github.com/NishanthRao01/bankguard/pkg/scenario"
)

//go:embed index.html
var indexHTML []byte

//go:embed scenarios
var scenarioFS embed.FS

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleAnalyze evaluates the snapshot in the request body and responds
// with the report. The body uses the scenario document format; the optional
// trace, graph and refresh query parameters map to the analysis options.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts := analysis.Options{Logger: s.logger}

	var err error
	if opts.IncludeTrace, err = boolParam(r, "trace"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.IncludeGraph, err = boolParam(r, "graph"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Refresh, err = boolParam(r, "refresh"); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := scenario.Read(r.Body, scenario.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.runner.Analyze(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScenarioList(w http.ResponseWriter, r *http.Request) {
	entries, err := fs.ReadDir(scenarioFS, "scenarios")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"scenarios": names})
}

// handleScenario serves one bundled example, normalized to the JSON
// document shape regardless of the format it is stored in.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateScenarioFilename(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := scenarioFS.ReadFile("scenarios/" + name)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "unknown scenario %q", name))
		return
	}

	format, err := scenario.DetectFormat(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := scenario.Read(bytes.NewReader(data), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := scenario.Write(snap, w, scenario.FormatJSON); err != nil {
		s.logger.Error("encode scenario", "name", name, "error", err)
	}
}

// errorResponse mirrors the report's top-level fields so error and success
// payloads share one client-side shape. The list fields encode as [] rather
// than null.
type errorResponse struct {
	Error            string               `json:"error"`
	SafeState        bool                 `json:"safe_state"`
	SafeSequence     []string             `json:"safe_sequence"`
	DeadlockDetected bool                 `json:"deadlock_detected"`
	DeadlockCycle    []analysis.CycleEdge `json:"deadlock_cycle"`
}

func newErrorResponse(msg string) errorResponse {
	return errorResponse{
		Error:         msg,
		SafeSequence:  []string{},
		DeadlockCycle: []analysis.CycleEdge{},
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps domain errors to status codes: validation failures are
// the client's fault (400), unknown names are 404, everything else is a
// 500 with the message behind a generic prefix.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.Server().OnError(r.Context(), r.Method, r.URL.Path, err)

	switch {
	case errors.IsValidation(err):
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse(errors.UserMessage(err)))
	case errors.Is(err, errors.ErrCodeNotFound) || errors.Is(err, errors.ErrCodeFileNotFound):
		s.writeJSON(w, http.StatusNotFound, newErrorResponse(errors.UserMessage(err)))
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, newErrorResponse("Server error: "+errors.UserMessage(err)))
	}
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput,
			"query parameter %q must be a boolean, got %q", name, raw)
	}
	return v, nil
}
