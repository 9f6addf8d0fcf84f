package probe

import (
	"fmt"
	"time"

	"github.com/agentstation/smoketest/pkg/errors"
)

// Result is the outcome of one GET.
type Result struct {
	URL         string        `json:"url" yaml:"url"`
	Service     string        `json:"service" yaml:"service"`
	Path        string        `json:"path" yaml:"path"`
	OperationID string        `json:"operationId" yaml:"operationId"`
	Success     bool          `json:"success" yaml:"success"`
	Status      int           `json:"status" yaml:"status"`         // 0 on transport failure or timeout
	StatusText  string        `json:"statusText" yaml:"statusText"` // reason phrase or error text
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Report is the outcome of a full run.
type Report struct {
	RunID      string        `json:"runId" yaml:"runId"`
	SpecFiles  int           `json:"specFiles" yaml:"specFiles"`
	Discovered int           `json:"discovered" yaml:"discovered"` // testable endpoints across all services
	Tested     int           `json:"tested" yaml:"tested"`
	Results    []Result      `json:"results" yaml:"results"`
	Failed     *Result       `json:"failed,omitempty" yaml:"failed,omitempty"`
	StartedAt  time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Passed returns true if no probe failed.
func (r *Report) Passed() bool {
	return r.Failed == nil
}

// PassedCount returns the number of successful probes.
func (r *Report) PassedCount() int {
	if r.Failed != nil {
		return r.Tested - 1
	}
	return r.Tested
}

// Err returns a *errors.ProbeError describing the failure, or nil.
func (r *Report) Err() error {
	if r.Failed == nil {
		return nil
	}
	return errors.NewProbeError(r.Failed.Service, r.Failed.URL, r.Failed.Status, r.Failed.StatusText, r.Tested, r.Discovered)
}

// Summary returns a one-line description of the run.
func (r *Report) Summary() string {
	if r.Failed != nil {
		return fmt.Sprintf("%d/%d passed, stopped at first failure", r.PassedCount(), r.Discovered)
	}
	return fmt.Sprintf("All %d endpoints returned 2xx responses", r.Discovered)
}
