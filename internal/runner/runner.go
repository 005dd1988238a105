package runner

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
	"github.com/gururajhm-neo/flightcheck/internal/report"
	"github.com/gururajhm-neo/flightcheck/internal/step"
)

// Options configure how the runner executes a pipeline.
type Options struct {
	Root      string
	Stdout    io.Writer
	Stderr    io.Writer
	Verbose   bool
	DryRun    bool
	TailLines int
	Env       []string
	Now       func() time.Time
	Store     *artifact.Store
	RunID     string
	Timeout   time.Duration
}

// Runner executes pipeline steps sequentially. Steps run exactly once, in
// order; there are no retries and no parallelism.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Runner{opts: opts}
}

// Run executes the pipeline and returns per-step results and a summary. A
// halting failure stops subsequent on_success steps but not always steps; a
// continue failure is recorded without gating. The summary's exit code
// reflects halting failures and timeout only.
func (r *Runner) Run(ctx context.Context, p pipeline.Pipeline) ([]report.StepResult, report.Summary, error) {
	timeout := r.opts.Timeout
	if timeout == 0 {
		timeout = p.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sc := &step.Context{
		Root:    r.opts.Root,
		Env:     step.EnvMap(r.opts.Env),
		Stdout:  r.opts.Stdout,
		Stderr:  r.opts.Stderr,
		Verbose: r.opts.Verbose,
		Store:   r.opts.Store,
		RunID:   r.opts.RunID,
	}

	summary := report.Summary{RunID: r.opts.RunID, TotalSteps: len(p.Steps)}
	results := make([]report.StepResult, 0, len(p.Steps))
	halted := false

	for _, spec := range p.Steps {
		result := report.StepResult{
			StepName:  spec.Name,
			Action:    spec.Action,
			OnError:   string(spec.OnError),
			Condition: string(spec.Condition),
			DryRun:    r.opts.DryRun,
		}

		if ctx.Err() != nil && !halted {
			halted = true
			summary.ExitCode = 1
		}

		if halted && spec.Condition != pipeline.RunAlways {
			result.Status = report.StatusSkipped
			result.Stderr = "skipped after halting failure"
			if ctx.Err() != nil {
				result.Stderr = "pipeline timeout exceeded"
			}
			summary.Skipped++
			results = append(results, result)
			continue
		}

		if r.opts.DryRun {
			result.Status = report.StatusSkipped
			summary.Skipped++
			results = append(results, result)
			continue
		}

		impl, err := step.Build(spec)
		if err != nil {
			result.Status = report.StatusFailed
			result.Stderr = err.Error()
			result.ExitCode = 127
		} else {
			start := r.opts.Now()
			outcome := impl.Execute(ctx, sc)
			result.Duration = r.opts.Now().Sub(start)
			result.DurationMS = result.Duration.Milliseconds()
			result.Status = outcome.Status
			result.ExitCode = outcome.ExitCode
			result.Stdout = outcome.Stdout
			result.Stderr = outcome.Stderr
		}

		if result.Status == report.StatusFailed {
			result.Stdout = tailLines(result.Stdout, r.opts.TailLines)
			result.Stderr = tailLines(result.Stderr, r.opts.TailLines)
			summary.Failed++
			if spec.OnError == pipeline.OnErrorHalt {
				halted = true
				summary.ExitCode = 1
			}
		} else {
			summary.Passed++
		}

		summary.Duration += result.Duration
		results = append(results, result)
	}

	summary.DurationMS = summary.Duration.Milliseconds()
	return results, summary, nil
}

func tailLines(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
