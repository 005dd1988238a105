package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
	"github.com/gururajhm-neo/flightcheck/internal/report"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require a POSIX shell")
	}
}

func shellStep(name, script string, onError pipeline.OnError, cond pipeline.RunCondition) pipeline.Step {
	return pipeline.Step{
		Name:      name,
		Commands:  []string{script},
		OnError:   onError,
		Condition: cond,
	}
}

func TestRunAllPass(t *testing.T) {
	skipOnWindows(t)
	r := New(Options{Root: t.TempDir()})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		shellStep("one", "echo one", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
		shellStep("two", "echo two", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Passed)
	assert.Zero(t, summary.ExitCode)
	assert.NotEmpty(t, summary.RunID)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Stdout, "one")
}

func TestHaltingFailureSkipsOnSuccessButNotAlways(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	r := New(Options{Root: root})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		shellStep("install", "exit 2", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
		shellStep("browsers", "touch browsers", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
		shellStep("collect", "touch collected", pipeline.OnErrorContinue, pipeline.RunAlways),
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, report.StatusFailed, results[0].Status)
	assert.Equal(t, 2, results[0].ExitCode)
	assert.Equal(t, report.StatusSkipped, results[1].Status)
	assert.Equal(t, report.StatusPassed, results[2].Status)

	assert.NoFileExists(t, filepath.Join(root, "browsers"))
	assert.FileExists(t, filepath.Join(root, "collected"))
	assert.Equal(t, 1, summary.ExitCode)
	assert.Equal(t, 1, summary.Skipped)
}

func TestContinueFailureDoesNotGate(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	r := New(Options{Root: root})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		shellStep("tests", "exit 1", pipeline.OnErrorContinue, pipeline.RunOnSuccess),
		shellStep("after", "touch after", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, report.StatusFailed, results[0].Status)
	assert.Equal(t, report.StatusPassed, results[1].Status)
	assert.FileExists(t, filepath.Join(root, "after"))

	// A continue failure alone never fails the pipeline.
	assert.Zero(t, summary.ExitCode)
	assert.Equal(t, 1, summary.Failed)
}

func TestDryRunSkipsEverything(t *testing.T) {
	r := New(Options{Root: t.TempDir(), DryRun: true})
	p := pipeline.Default()

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, len(p.Steps), summary.Skipped)
	for _, result := range results {
		assert.Equal(t, report.StatusSkipped, result.Status)
		assert.True(t, result.DryRun)
	}
}

func TestUnknownActionFailsPerPolicy(t *testing.T) {
	r := New(Options{Root: t.TempDir()})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		{Name: "bad", Action: "teleport", OnError: pipeline.OnErrorHalt, Condition: pipeline.RunOnSuccess},
		shellStep("next", "echo hi", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, report.StatusFailed, results[0].Status)
	assert.Equal(t, 127, results[0].ExitCode)
	assert.Equal(t, report.StatusSkipped, results[1].Status)
	assert.Equal(t, 1, summary.ExitCode)
}

func TestTimeoutMarksRunFailed(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	r := New(Options{Root: root, Timeout: 50 * time.Millisecond})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		shellStep("slow", "sleep 5", pipeline.OnErrorContinue, pipeline.RunOnSuccess),
		shellStep("later", "touch later", pipeline.OnErrorHalt, pipeline.RunOnSuccess),
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, report.StatusFailed, results[0].Status)
	assert.Equal(t, report.StatusSkipped, results[1].Status)
	assert.Equal(t, "pipeline timeout exceeded", results[1].Stderr)
	assert.NoFileExists(t, filepath.Join(root, "later"))
	assert.Equal(t, 1, summary.ExitCode)
}

func TestTailTruncation(t *testing.T) {
	skipOnWindows(t)
	r := New(Options{Root: t.TempDir(), TailLines: 2})
	p := pipeline.Pipeline{Steps: []pipeline.Step{
		shellStep("noisy", "printf '1\\n2\\n3\\n'; exit 1", pipeline.OnErrorContinue, pipeline.RunOnSuccess),
	}}

	results, _, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "2\n3", results[0].Stdout)
}

func TestEndToEndTestFailureStillStoresArtifacts(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()

	scriptsDir := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scriptsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scriptsDir, "fail.sh"), []byte("exit 1\n"), 0o755))

	store := artifact.NewStore(filepath.Join(t.TempDir(), "store"))
	r := New(Options{Root: root, Store: store})

	p := pipeline.Pipeline{Steps: []pipeline.Step{
		{Name: "Prepare workspace", Action: "prepare-workspace", OnError: pipeline.OnErrorHalt, Condition: pipeline.RunOnSuccess},
		{
			Name:      "Run tests",
			Action:    "run-tests",
			With:      map[string]string{"runtime": "sh", "scripts": "scripts/*.sh"},
			OnError:   pipeline.OnErrorContinue,
			Condition: pipeline.RunOnSuccess,
		},
		{Name: "Upload artifacts", Action: "upload-artifacts", OnError: pipeline.OnErrorContinue, Condition: pipeline.RunAlways},
	}}

	results, summary, err := r.Run(context.Background(), p)
	require.NoError(t, err)

	// Test failure alone does not fail the run.
	assert.Zero(t, summary.ExitCode)
	assert.Equal(t, report.StatusFailed, results[1].Status)
	assert.Equal(t, report.StatusPassed, results[2].Status)

	// The aggregate results file made it into the stored bundle.
	bundle := filepath.Join(store.Dir(), "test-artifacts-"+summary.RunID)
	assert.FileExists(t, filepath.Join(bundle, "test_results.json"))
}
