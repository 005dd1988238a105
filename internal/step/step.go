// Package step implements the typed steps a pipeline executes. Each variant
// receives an explicit Context rather than mutating process-wide state, so
// the environment loaded by one step reaches later steps only through the
// executor.
package step

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
	"github.com/gururajhm-neo/flightcheck/internal/report"
)

// Context carries the mutable run state threaded through step execution.
type Context struct {
	Root    string
	Env     map[string]string
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
	Store   *artifact.Store
	RunID   string
}

// Result is the outcome of executing one step.
type Result struct {
	Status   string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Step executes one unit of pipeline work.
type Step interface {
	Execute(ctx context.Context, sc *Context) Result
}

// Build constructs the typed implementation for a step spec.
func Build(spec pipeline.Step) (Step, error) {
	if spec.IsShell() {
		return NewShell(spec), nil
	}
	switch spec.Action {
	case "install-deps":
		return NewInstallDeps(spec.With), nil
	case "install-browsers":
		return NewInstallBrowsers(spec.With), nil
	case "prepare-workspace":
		return NewPrepareWorkspace(spec.With), nil
	case "load-env":
		return NewLoadEnv(spec.With), nil
	case "verify":
		return NewVerify(spec.With), nil
	case "run-tests":
		return NewRunTests(spec.With), nil
	case "upload-artifacts":
		return NewUploadArtifacts(spec.With), nil
	default:
		return nil, fmt.Errorf("unknown action %q", spec.Action)
	}
}

// Environ flattens env into the sorted KEY=VALUE form exec expects.
func Environ(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}

// EnvMap converts KEY=VALUE pairs into a map, later entries winning.
func EnvMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if idx := strings.Index(kv, "="); idx > 0 {
			out[kv[:idx]] = kv[idx+1:]
		}
	}
	return out
}

// mergeEnv layers overlays over base without mutating either.
func mergeEnv(base map[string]string, overlays ...map[string]string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			out[k] = v
		}
	}
	return out
}

// runCommand executes one subprocess with the context environment, capturing
// output and streaming it when verbose.
func runCommand(ctx context.Context, sc *Context, env map[string]string, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = sc.Root
	cmd.Env = Environ(env)

	var stdoutBuf, stderrBuf strings.Builder
	if sc.Verbose {
		cmd.Stdout = io.MultiWriter(sc.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(sc.Stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return stdoutBuf.String(), stderrBuf.String(), exitCode(err), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func passed(stdout string) Result {
	return Result{Status: report.StatusPassed, Stdout: stdout}
}

func failed(exit int, stdout, stderr string) Result {
	if exit == 0 {
		exit = 1
	}
	return Result{Status: report.StatusFailed, ExitCode: exit, Stdout: stdout, Stderr: stderr}
}

// splitCommand breaks a With parameter like "python3 -m pip" into argv form.
func splitCommand(raw, fallback string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	return strings.Fields(raw)
}

// splitList parses a comma-separated With parameter.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
