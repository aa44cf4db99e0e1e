// Package runner sends test cases to a target endpoint and records how the
// endpoint answered.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
)

// Defaults applied to zero-valued Runner fields.
const (
	DefaultMethod  = http.MethodPost
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is kept.
	maxResponseBytes = 1 << 20
)

// Runner executes test cases against one target URL.
type Runner struct {
	URL         string
	Method      string
	Token       string // sent as "Authorization: Bearer <token>" when set
	Headers     map[string]string
	Timeout     time.Duration
	Concurrency int
	Logger      *slog.Logger

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client

	once   sync.Once
	client *http.Client
}

func (r *Runner) init() {
	r.once.Do(func() {
		if r.Method == "" {
			r.Method = DefaultMethod
		}
		if r.Timeout <= 0 {
			r.Timeout = DefaultTimeout
		}
		if r.Concurrency < 1 {
			r.Concurrency = 1
		}
		if r.Logger == nil {
			r.Logger = slog.Default()
		}
		r.client = r.Client
		if r.client == nil {
			r.client = &http.Client{Timeout: r.Timeout}
		}
	})
}

// Run sends one test case. Failures to reach the target are reported in the
// result with Status 0 and Error set; Run itself never fails.
func (r *Runner) Run(ctx context.Context, tc models.TestCase) (result models.RunResult) {
	r.init()

	result = models.RunResult{
		Name:           tc.Name,
		ExpectedStatus: tc.ExpectedStatus,
		Response:       models.Null{},
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	body := tc.Body
	if body == nil {
		body = models.Null{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return r.failed(result, fmt.Errorf("encode body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(r.Method), r.URL, bytes.NewReader(payload))
	if err != nil {
		return r.failed(result, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return r.failed(result, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		r.Logger.Warn("failed to read response body", "case", tc.Name, "error", err)
	}

	result.Status = resp.StatusCode
	result.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	result.Response = decodeResponse(raw)
	result.Passed = passed(result)

	r.Logger.Debug("test case finished",
		"case", tc.Name,
		"status", result.Status,
		"expected", result.ExpectedStatus,
		"passed", result.Passed,
	)
	return result
}

func (r *Runner) failed(result models.RunResult, err error) models.RunResult {
	result.Error = err.Error()
	result.Response = models.String(err.Error())
	r.Logger.Warn("test case request failed", "case", result.Name, "error", err)
	return result
}

// passed compares against the expected status, or accepts any 2xx when the
// case asserts no status.
func passed(result models.RunResult) bool {
	if result.Status == 0 {
		return false
	}
	if result.ExpectedStatus == 0 {
		return result.OK
	}
	return result.Status == result.ExpectedStatus
}

// decodeResponse keeps JSON responses structured and anything else as text.
func decodeResponse(raw []byte) models.Value {
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.Null{}
	}
	ir, err := parser.ParseBytes(raw)
	if err != nil {
		return models.String(string(raw))
	}
	return ir.Root
}

// RunAll runs cases with at most Concurrency requests in flight and returns
// the results in the order of cases. Cases not started before ctx is done
// are reported as errors.
func (r *Runner) RunAll(ctx context.Context, cases []models.TestCase) []models.RunResult {
	r.init()

	results := make([]models.RunResult, len(cases))
	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for i, tc := range cases {
		select {
		case <-ctx.Done():
			results[i] = r.failed(models.RunResult{
				Name:           tc.Name,
				ExpectedStatus: tc.ExpectedStatus,
			}, ctx.Err())
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, tc models.TestCase) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.Run(ctx, tc)
		}(i, tc)
	}
	wg.Wait()

	s := Summarize(results)
	r.Logger.Info("run finished",
		"target", r.URL,
		"total", s.Total,
		"passed", s.Passed,
		"failed", s.Failed,
		"errored", s.Errored,
	)
	return results
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
}

// Summarize tallies results. Errored cases never reached the target and are
// not counted as failed.
func Summarize(results []models.RunResult) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Status == 0:
			s.Errored++
		case res.Passed:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

// NewRun packages results as a run record for the history store.
func (r *Runner) NewRun(results []models.RunResult) models.Run {
	r.init()
	return models.Run{
		Target:    r.URL,
		Method:    strings.ToUpper(r.Method),
		CreatedAt: time.Now().UTC(),
		Total:     len(results),
		Passed:    Summarize(results).Passed,
		Results:   results,
	}
}
