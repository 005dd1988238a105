package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
name: browser-tests
on:
  push:
    branches: ["main", "feature/*"]
  pull_request:
    branches: ["main"]
timeout: 20m
steps:
  - name: Install dependencies
    action: install-deps
    with:
      requirements: requirements.txt
  - name: Smoke check
    run: echo ok
  - name: Run tests
    action: run-tests
    on_error: continue
  - name: Upload artifacts
    action: upload-artifacts
    if: always
`

func TestDecodeManifest(t *testing.T) {
	p, err := Decode(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "browser-tests", p.Name)
	assert.Equal(t, 20*time.Minute, p.Timeout)
	assert.Equal(t, []string{"main", "feature/*"}, p.Triggers.PushBranches)
	require.Len(t, p.Steps, 4)

	install := p.Steps[0]
	assert.Equal(t, "install-deps", install.Action)
	assert.Equal(t, "requirements.txt", install.With["requirements"])
	assert.Equal(t, OnErrorHalt, install.OnError)
	assert.Equal(t, RunOnSuccess, install.Condition)

	smoke := p.Steps[1]
	assert.True(t, smoke.IsShell())
	assert.Equal(t, []string{"echo ok"}, smoke.Commands)

	assert.Equal(t, OnErrorContinue, p.Steps[2].OnError)
	assert.Equal(t, RunAlways, p.Steps[3].Condition)
}

func TestDecodeDefaultsStepName(t *testing.T) {
	p, err := Decode(strings.NewReader("steps:\n  - run: echo hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "step 1", p.Steps[0].Name)
}

func TestDecodeAlwaysFunctionForm(t *testing.T) {
	p, err := Decode(strings.NewReader("steps:\n  - run: echo hi\n    if: always()\n"))
	require.NoError(t, err)
	assert.Equal(t, RunAlways, p.Steps[0].Condition)
}

func TestDecodeRejectsRunAndAction(t *testing.T) {
	_, err := Decode(strings.NewReader("steps:\n  - name: bad\n    run: echo hi\n    action: verify\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestDecodeRejectsWithOnShellStep(t *testing.T) {
	_, err := Decode(strings.NewReader("steps:\n  - name: bad\n    run: echo hi\n    with:\n      pip: pip3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "with is only valid on action steps")
}

func TestDecodeRejectsEmptyStep(t *testing.T) {
	_, err := Decode(strings.NewReader("steps:\n  - name: empty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of run or action")
}

func TestDecodeRejectsUnknownPolicies(t *testing.T) {
	_, err := Decode(strings.NewReader("steps:\n  - run: echo hi\n    on_error: retry\n"))
	require.Error(t, err)

	_, err = Decode(strings.NewReader("steps:\n  - run: echo hi\n    if: failure\n"))
	require.Error(t, err)
}

func TestDecodeRejectsNoSteps(t *testing.T) {
	_, err := Decode(strings.NewReader("name: empty\n"))
	require.Error(t, err)
}

func TestDecodeRejectsBadTimeout(t *testing.T) {
	_, err := Decode(strings.NewReader("timeout: soon\nsteps:\n  - run: echo hi\n"))
	require.Error(t, err)

	_, err = Decode(strings.NewReader("timeout: -5m\nsteps:\n  - run: echo hi\n"))
	require.Error(t, err)
}

func TestTriggerMatching(t *testing.T) {
	trig := Triggers{
		PushBranches:        []string{"main", "feature/*"},
		PullRequestBranches: []string{"main"},
	}

	assert.True(t, trig.Matches(EventPush, "main"))
	assert.True(t, trig.Matches(EventPush, "feature/login"))
	assert.False(t, trig.Matches(EventPush, "release/1.0"))
	assert.True(t, trig.Matches(EventPullRequest, "main"))
	assert.False(t, trig.Matches(EventPullRequest, "develop"))
	assert.False(t, trig.Matches("schedule", "main"))
}

func TestFilterSteps(t *testing.T) {
	p := Default()

	only, err := CompilePatterns([]string{"/^Install/"})
	require.NoError(t, err)
	filtered := Filter(p, only, nil)
	require.Len(t, filtered.Steps, 2)
	assert.Equal(t, "Install dependencies", filtered.Steps[0].Name)

	skip, err := CompilePatterns([]string{"/^Upload/"})
	require.NoError(t, err)
	filtered = Filter(p, nil, skip)
	for _, step := range filtered.Steps {
		assert.NotEqual(t, "Upload artifacts", step.Name)
	}
	assert.Len(t, filtered.Steps, len(p.Steps)-1)
}

func TestCompilePatternsRejectsBadRegexp(t *testing.T) {
	_, err := CompilePatterns([]string{"/[/"})
	require.Error(t, err)
}

func TestDefaultPipelineShape(t *testing.T) {
	p := Default()
	require.NotEmpty(t, p.Steps)

	// Artifact collection must survive earlier failures.
	last := p.Steps[len(p.Steps)-1]
	assert.Equal(t, "upload-artifacts", last.Action)
	assert.Equal(t, RunAlways, last.Condition)

	// Test failures must not gate the pipeline by default.
	var tests *Step
	for i := range p.Steps {
		if p.Steps[i].Action == "run-tests" {
			tests = &p.Steps[i]
		}
	}
	require.NotNil(t, tests)
	assert.Equal(t, OnErrorContinue, tests.OnError)
}
