package step

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gururajhm-neo/flightcheck/internal/discovery"
)

// RunTests invokes the test suite. In entry mode a single runner executable
// is launched; in scripts mode each discovered script runs as its own
// subprocess and an aggregate results file is written, matching the behavior
// of the runner this tool replaces. The step's exit status only fails the
// pipeline when its policy says so.
type RunTests struct {
	runtime []string
	entry   string
	scripts string
	results string
}

// ScriptResult records one test script's outcome in the results file.
type ScriptResult struct {
	Script    string  `json:"script"`
	Status    string  `json:"status"`
	ExitCode  int     `json:"exit_code"`
	DurationS float64 `json:"duration"`
}

// TestResults is the aggregate schema written to the results file.
type TestResults struct {
	Summary struct {
		TotalTests int     `json:"total_tests"`
		Passed     int     `json:"passed"`
		Failed     int     `json:"failed"`
		DurationS  float64 `json:"duration"`
		StartTime  string  `json:"start_time"`
		EndTime    string  `json:"end_time"`
	} `json:"summary"`
	Results []ScriptResult `json:"results"`
	Status  string         `json:"status"`
}

// NewRunTests builds the action. Recognized keys: "runtime" (default
// "python3"), "entry" (runner executable), "scripts" (discovery glob; takes
// precedence over entry), "results" (aggregate file, default
// "test_results.json").
func NewRunTests(with map[string]string) *RunTests {
	a := &RunTests{
		runtime: splitCommand(with["runtime"], "python3"),
		entry:   with["entry"],
		scripts: with["scripts"],
		results: with["results"],
	}
	if a.entry == "" && a.scripts == "" {
		a.entry = "runner.py"
	}
	if a.results == "" {
		a.results = "test_results.json"
	}
	return a
}

// Execute runs the suite.
func (a *RunTests) Execute(ctx context.Context, sc *Context) Result {
	if a.scripts != "" {
		return a.runScripts(ctx, sc)
	}

	args := append(append([]string{}, a.runtime[1:]...), a.entry)
	stdout, stderr, exit, err := runCommand(ctx, sc, sc.Env, a.runtime[0], args...)
	if err != nil {
		return failed(exit, stdout, stderr)
	}
	return passed(stdout)
}

func (a *RunTests) runScripts(ctx context.Context, sc *Context) Result {
	scripts, err := discovery.Scripts(sc.Root, a.scripts)
	if err != nil {
		return failed(1, "", err.Error())
	}

	var out strings.Builder
	results := TestResults{Results: make([]ScriptResult, 0, len(scripts))}
	start := time.Now()
	failures := 0

	for _, script := range scripts {
		args := append(append([]string{}, a.runtime[1:]...), script)
		scriptStart := time.Now()
		_, stderr, exit, runErr := runCommand(ctx, sc, sc.Env, a.runtime[0], args...)
		elapsed := time.Since(scriptStart)

		sr := ScriptResult{
			Script:    script,
			Status:    "success",
			ExitCode:  exit,
			DurationS: elapsed.Seconds(),
		}
		if runErr != nil {
			sr.Status = "failed"
			failures++
			fmt.Fprintf(&out, "FAIL %s (%s)\n", script, firstLine(stderr, runErr.Error()))
		} else {
			fmt.Fprintf(&out, "PASS %s\n", script)
		}
		results.Results = append(results.Results, sr)
	}

	end := time.Now()
	results.Summary.TotalTests = len(scripts)
	results.Summary.Passed = len(scripts) - failures
	results.Summary.Failed = failures
	results.Summary.DurationS = end.Sub(start).Seconds()
	results.Summary.StartTime = start.UTC().Format(time.RFC3339)
	results.Summary.EndTime = end.UTC().Format(time.RFC3339)
	results.Status = "success"
	if failures > 0 {
		results.Status = "failed"
	}

	if err := a.writeResults(sc.Root, results); err != nil {
		return failed(1, out.String(), err.Error())
	}
	fmt.Fprintf(&out, "%d/%d scripts passed, results written to %s\n",
		results.Summary.Passed, results.Summary.TotalTests, a.results)

	if failures > 0 {
		return failed(1, out.String(), fmt.Sprintf("%d test script(s) failed", failures))
	}
	return passed(out.String())
}

func (a *RunTests) writeResults(root string, results TestResults) error {
	path := a.results
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results %q: %w", a.results, err)
	}
	return nil
}
