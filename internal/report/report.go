package report

import "time"

// Step status values.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StepResult captures the outcome of a single pipeline step.
type StepResult struct {
	StepName   string        `json:"step_name"`
	Action     string        `json:"action,omitempty"`
	Status     string        `json:"status"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	ExitCode   int           `json:"exit_code"`
	OnError    string        `json:"on_error"`
	Condition  string        `json:"run_condition"`
	DryRun     bool          `json:"dry_run"`
}

// Summary aggregates pipeline execution results.
type Summary struct {
	RunID      string        `json:"run_id,omitempty"`
	TotalSteps int           `json:"total_steps"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	ExitCode   int           `json:"exit_code"`
}
