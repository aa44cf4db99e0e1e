package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultExpectedStatus is the status every generated negative case expects.
const DefaultExpectedStatus = 400

// TestCase pairs a request body with the status the target API should answer.
type TestCase struct {
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	Body           Value  `json:"body" yaml:"body"`
	ExpectedStatus int    `json:"expectedStatus" yaml:"expectedStatus"`
}

// MarshalJSON keeps a nil Body encoding as null.
func (tc TestCase) MarshalJSON() ([]byte, error) {
	body := tc.Body
	if body == nil {
		body = Null{}
	}
	type wire struct {
		Name           string `json:"name"`
		Description    string `json:"description"`
		Body           Value  `json:"body"`
		ExpectedStatus int    `json:"expectedStatus"`
	}
	return json.Marshal(wire{
		Name:           tc.Name,
		Description:    tc.Description,
		Body:           body,
		ExpectedStatus: tc.ExpectedStatus,
	})
}

// RunResult is the outcome of sending one TestCase to a target.
type RunResult struct {
	Name           string        `json:"name"`
	ExpectedStatus int           `json:"expectedStatus"`
	Status         int           `json:"status"`
	OK             bool          `json:"ok"`
	Passed         bool          `json:"passed"`
	Error          string        `json:"error,omitempty"`
	Response       Value         `json:"response"`
	Duration       time.Duration `json:"duration"`
}

// MarshalJSON keeps a nil Response encoding as null.
func (r RunResult) MarshalJSON() ([]byte, error) {
	type alias RunResult
	a := alias(r)
	if a.Response == nil {
		a.Response = Null{}
	}
	return json.Marshal(a)
}

// StatusText renders the status, or "error" for transport failures.
func (r RunResult) StatusText() string {
	if r.Status == 0 {
		return "error"
	}
	return fmt.Sprintf("%d", r.Status)
}

// Run is one execution of a set of test cases against a target URL.
type Run struct {
	ID        string      `json:"id"`
	Target    string      `json:"target"`
	Method    string      `json:"method"`
	CreatedAt time.Time   `json:"createdAt"`
	Total     int         `json:"total"`
	Passed    int         `json:"passed"`
	Results   []RunResult `json:"results,omitempty"`
}
