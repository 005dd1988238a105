package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
	"github.com/gururajhm-neo/flightcheck/internal/report"
)

// PrettyRenderer renders execution results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderList renders the resolved steps with their policies without running
// them.
func (p *PrettyRenderer) RenderList(pl pipeline.Pipeline) error {
	if _, err := fmt.Fprintf(p.out, "Pipeline %s\n", pl.Name); err != nil {
		return err
	}
	for _, step := range pl.Steps {
		kind := step.Action
		if step.IsShell() {
			kind = "shell"
		}
		if _, err := fmt.Fprintf(p.out, "  • %s (%s)%s\n", step.Name, kind, policySuffix(step)); err != nil {
			return err
		}
	}
	return nil
}

// RenderResults shows execution outcomes for steps with a summary.
func (p *PrettyRenderer) RenderResults(pl pipeline.Pipeline, results []report.StepResult, summary report.Summary) error {
	if _, err := fmt.Fprintf(p.out, "Pipeline %s (run %s)\n", pl.Name, summary.RunID); err != nil {
		return err
	}
	for _, result := range results {
		line := fmt.Sprintf("  %s %s", statusGlyph(result.Status), result.StepName)
		if result.Duration > 0 {
			line += fmt.Sprintf(" (%s)", formatDuration(result.Duration))
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
		if result.Status == report.StatusFailed && result.Stderr != "" {
			if _, err := fmt.Fprintln(p.out, indent(result.Stderr, "      ")); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(p.out, "\n%d steps: %d passed, %d failed, %d skipped in %s\n",
		summary.TotalSteps, summary.Passed, summary.Failed, summary.Skipped,
		formatDuration(summary.Duration)); err != nil {
		return err
	}
	return nil
}

func policySuffix(step pipeline.Step) string {
	var tags []string
	if step.OnError == pipeline.OnErrorContinue {
		tags = append(tags, "continue-on-error")
	}
	if step.Condition == pipeline.RunAlways {
		tags = append(tags, "always")
	}
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(tags, ", "))
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
