package step

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
)

// Shell runs a sequence of shell commands. The first non-zero exit marks the
// step failed and remaining commands do not run.
type Shell struct {
	commands []string
	overlay  map[string]string
}

// NewShell builds a shell step from its spec.
func NewShell(spec pipeline.Step) *Shell {
	return &Shell{
		commands: append([]string{}, spec.Commands...),
		overlay:  spec.Env,
	}
}

// Execute runs each command via the platform shell.
func (s *Shell) Execute(ctx context.Context, sc *Context) Result {
	env := mergeEnv(sc.Env, s.overlay)

	var stdoutAll, stderrAll strings.Builder
	for _, script := range s.commands {
		name, args := shellCommand(script)
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
		stdoutAll.WriteString(stdoutBuf.String())
		stderrAll.WriteString(stderrBuf.String())
		if err != nil {
			stderr := stderrAll.String()
			if stderr == "" {
				stderr = fmt.Sprintf("command %q: %v", script, err)
			}
			return failed(exitCode(err), stdoutAll.String(), stderr)
		}
	}
	return passed(stdoutAll.String())
}

func shellCommand(script string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", script}
	}
	return "sh", []string{"-c", script}
}
