package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/importer"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
	"github.com/mcncl/casegen/internal/runner"
	"github.com/mcncl/casegen/internal/schema"
)

// readJSON reads the request body into an order-preserving value.
func readJSON(w http.ResponseWriter, r *http.Request) (models.Value, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewInputError("failed to read request body", err)
	}
	ir, err := parser.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return ir.Root, nil
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// GenerateCases handles POST /api/testcases/generate. The body is the sample
// request body to mutate.
func (s *Server) GenerateCases(w http.ResponseWriter, r *http.Request) {
	root, err := readJSON(w, r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_json", errors.UserFriendlyError(err))
		return
	}

	cases := s.generator.Generate(root)
	s.Logger.Debug("generated test cases", "count", len(cases))
	JSON(w, http.StatusOK, map[string]any{"testCases": cases})
}

// SampleBody handles POST /api/testcases/sample. The body is a JSON Schema;
// ?requiredOnly=true leaves out optional properties.
func (s *Server) SampleBody(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return
	}

	var opts []schema.Option
	if requiredOnly, _ := strconv.ParseBool(r.URL.Query().Get("requiredOnly")); requiredOnly {
		opts = append(opts, schema.RequiredOnly())
	}

	body, err := schema.SampleBody(data, opts...)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_schema", err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]any{"body": body})
}

// ImportCases handles POST /api/testcases/import with a body of
// {"base": {...}, "cases": [...]}.
func (s *Server) ImportCases(w http.ResponseWriter, r *http.Request) {
	root, err := readJSON(w, r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_json", errors.UserFriendlyError(err))
		return
	}
	req, ok := root.(*models.Object)
	if !ok {
		Error(w, http.StatusBadRequest, "invalid_request", "request must be an object with \"base\" and \"cases\"")
		return
	}

	base, _ := req.Get("base")
	entries, found := req.Get("cases")
	if !found {
		entries = models.Null{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cases, err := importer.Import(raw, base)
	if err != nil {
		code := "import_failed"
		switch {
		case stderrors.Is(err, errors.ErrNotArray):
			code = "not_array"
		case stderrors.Is(err, errors.ErrBaseNotObject):
			code = "base_not_object"
		}
		Error(w, http.StatusBadRequest, code, errors.UserFriendlyError(err))
		return
	}
	JSON(w, http.StatusOK, map[string]any{"testCases": cases})
}

// runRequest is the body of POST /api/runs.
type runRequest struct {
	URL         string
	Method      string
	Token       string
	Headers     map[string]string
	Concurrency int
	Cases       []models.TestCase
}

func decodeRunRequest(root models.Value) (runRequest, error) {
	obj, ok := root.(*models.Object)
	if !ok {
		return runRequest{}, fmt.Errorf("request must be an object")
	}

	req := runRequest{
		URL:    parser.StringField(obj, "url"),
		Method: parser.StringField(obj, "method"),
		Token:  parser.StringField(obj, "token"),
	}
	if n, ok := parser.IntField(obj, "concurrency"); ok {
		req.Concurrency = n
	}
	if h, ok := obj.Get("headers"); ok {
		if hObj, ok := h.(*models.Object); ok {
			req.Headers = make(map[string]string, hObj.Len())
			for k := range hObj.All() {
				req.Headers[k] = parser.StringField(hObj, k)
			}
		}
	}

	cases, found := obj.Get("testCases")
	if !found {
		return runRequest{}, fmt.Errorf("missing \"testCases\"")
	}
	tcs, err := parser.TestCasesFromValue(cases)
	if err != nil {
		return runRequest{}, err
	}
	req.Cases = tcs
	return req, nil
}

// CreateRun handles POST /api/runs. The cases are sent to the target, and
// the run is stored when history is enabled.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	root, err := readJSON(w, r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_json", errors.UserFriendlyError(err))
		return
	}
	req, err := decodeRunRequest(root)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.URL == "" {
		req.URL = s.cfg.Runner.URL
	}
	if req.URL == "" {
		Error(w, http.StatusBadRequest, "no_target", errors.ErrNoTarget.Error())
		return
	}

	rn := &runner.Runner{
		URL:         req.URL,
		Method:      firstNonEmpty(req.Method, s.cfg.Runner.Method),
		Token:       firstNonEmpty(req.Token, s.cfg.Runner.Token),
		Headers:     mergeHeaders(s.cfg.Runner.Headers, req.Headers),
		Timeout:     s.cfg.Runner.Timeout,
		Concurrency: runConcurrency(req.Concurrency, s.cfg.Runner.Concurrency),
		Logger:      s.Logger,
	}
	results := rn.RunAll(r.Context(), req.Cases)
	run := rn.NewRun(results)

	if s.store != nil {
		id, err := s.store.SaveRun(r.Context(), run)
		if err != nil {
			s.Logger.Error("failed to save run", "error", err)
			Error(w, http.StatusInternalServerError, "store_failed", errors.UserFriendlyError(err))
			return
		}
		run.ID = id
	}

	JSON(w, http.StatusCreated, map[string]any{
		"run":     run,
		"summary": runner.Summarize(results),
	})
}

// ListRuns handles GET /api/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "store_failed", errors.UserFriendlyError(err))
		return
	}
	JSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GetRun handles GET /api/runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"run":     run,
		"summary": runner.Summarize(run.Results),
	})
}

// DeleteRun handles DELETE /api/runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		Error(w, http.StatusServiceUnavailable, "history_disabled", "run history is not enabled")
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, errors.ErrNotFound) {
		Error(w, http.StatusNotFound, "not_found", "run not found")
		return
	}
	s.Logger.Error("history store failed", "error", err)
	Error(w, http.StatusInternalServerError, "store_failed", errors.UserFriendlyError(err))
}

// runConcurrency uses the request's value when it is positive, else the
// configured one, capped at MaxRunConcurrency.
func runConcurrency(requested, configured int) int {
	n := configured
	if requested > 0 {
		n = requested
	}
	return min(max(n, 1), MaxRunConcurrency)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeHeaders lays request headers over configured ones.
func mergeHeaders(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
