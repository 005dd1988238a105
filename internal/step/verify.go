package step

import (
	"context"
	"fmt"
	"strings"
)

// Verify sanity-checks that the runtime and the required modules are
// importable. It is diagnostic: the default pipeline gives it a continue
// policy so a failing check never halts the run.
type Verify struct {
	runtime []string
	modules []string
}

// NewVerify builds the action. Recognized keys: "runtime" (interpreter
// command, default "python3") and "modules" (comma-separated import names).
func NewVerify(with map[string]string) *Verify {
	modules := []string{"playwright", "requests"}
	if raw := with["modules"]; raw != "" {
		modules = splitList(raw)
	}
	return &Verify{
		runtime: splitCommand(with["runtime"], "python3"),
		modules: modules,
	}
}

// Execute probes the runtime version and imports each module, reporting
// pass/fail per check.
func (a *Verify) Execute(ctx context.Context, sc *Context) Result {
	var out strings.Builder
	failures := 0

	versionArgs := append(append([]string{}, a.runtime[1:]...), "--version")
	stdout, stderr, _, err := runCommand(ctx, sc, sc.Env, a.runtime[0], versionArgs...)
	if err != nil {
		failures++
		fmt.Fprintf(&out, "runtime: FAIL (%s)\n", firstLine(stderr, err.Error()))
	} else {
		fmt.Fprintf(&out, "runtime: ok (%s)\n", firstLine(stdout, strings.TrimSpace(stderr)))
	}

	for _, module := range a.modules {
		importArgs := append(append([]string{}, a.runtime[1:]...), "-c", fmt.Sprintf("import %s", module))
		_, stderr, _, err := runCommand(ctx, sc, sc.Env, a.runtime[0], importArgs...)
		if err != nil {
			failures++
			fmt.Fprintf(&out, "module %s: FAIL (%s)\n", module, firstLine(stderr, err.Error()))
			continue
		}
		fmt.Fprintf(&out, "module %s: ok\n", module)
	}

	if failures > 0 {
		return failed(1, out.String(), fmt.Sprintf("%d verification check(s) failed", failures))
	}
	return passed(out.String())
}

func firstLine(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
