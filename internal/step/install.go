package step

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallbackPackages are installed when no requirements manifest exists.
var fallbackPackages = []string{"playwright", "requests"}

// InstallDeps resolves language-level packages: exactly what the requirements
// manifest lists when present, otherwise the fixed fallback set.
type InstallDeps struct {
	pip          []string
	requirements string
	fallback     []string
}

// NewInstallDeps builds the action from its With parameters. Recognized keys:
// "pip" (installer command, default "python3 -m pip"), "requirements"
// (manifest path, default "requirements.txt"), "packages" (comma-separated
// fallback set).
func NewInstallDeps(with map[string]string) *InstallDeps {
	a := &InstallDeps{
		pip:          splitCommand(with["pip"], "python3 -m pip"),
		requirements: with["requirements"],
		fallback:     fallbackPackages,
	}
	if a.requirements == "" {
		a.requirements = "requirements.txt"
	}
	if raw := with["packages"]; raw != "" {
		a.fallback = splitList(raw)
	}
	return a
}

// Execute installs packages via the configured installer.
func (a *InstallDeps) Execute(ctx context.Context, sc *Context) Result {
	specs, fromManifest, err := a.resolve(sc.Root)
	if err != nil {
		return failed(1, "", err.Error())
	}

	var header string
	if fromManifest {
		if len(specs) == 0 {
			return passed(fmt.Sprintf("%s lists no packages, nothing to install\n", a.requirements))
		}
		header = fmt.Sprintf("installing %d packages from %s\n", len(specs), a.requirements)
	} else {
		header = fmt.Sprintf("no %s found, installing fallback set: %s\n", a.requirements, strings.Join(specs, " "))
	}

	args := append(append([]string{}, a.pip[1:]...), "install")
	args = append(args, specs...)
	stdout, stderr, exit, err := runCommand(ctx, sc, sc.Env, a.pip[0], args...)
	if err != nil {
		return failed(exit, header+stdout, stderr)
	}
	return passed(header + stdout)
}

func (a *InstallDeps) resolve(root string) ([]string, bool, error) {
	path := a.requirements
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return append([]string{}, a.fallback...), false, nil
		}
		return nil, false, fmt.Errorf("open requirements %q: %w", a.requirements, err)
	}
	defer f.Close()

	var specs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("read requirements %q: %w", a.requirements, err)
	}
	// A manifest that lists nothing means install nothing; only a missing
	// manifest triggers the fallback set.
	return specs, true, nil
}

// InstallBrowsers fetches browser binaries and their native dependencies via
// the automation library's own installer. Must run after InstallDeps so the
// installer module exists.
type InstallBrowsers struct {
	playwright []string
	withDeps   bool
}

// NewInstallBrowsers builds the action. Recognized keys: "playwright"
// (installer command, default "python3 -m playwright"), "install_deps"
// ("false" skips the OS-dependency pass).
func NewInstallBrowsers(with map[string]string) *InstallBrowsers {
	return &InstallBrowsers{
		playwright: splitCommand(with["playwright"], "python3 -m playwright"),
		withDeps:   with["install_deps"] != "false",
	}
}

// Execute runs the install subcommands in order.
func (a *InstallBrowsers) Execute(ctx context.Context, sc *Context) Result {
	subcommands := [][]string{{"install"}}
	if a.withDeps {
		subcommands = append(subcommands, []string{"install-deps"})
	}

	var all strings.Builder
	for _, sub := range subcommands {
		args := append(append([]string{}, a.playwright[1:]...), sub...)
		stdout, stderr, exit, err := runCommand(ctx, sc, sc.Env, a.playwright[0], args...)
		all.WriteString(stdout)
		if err != nil {
			return failed(exit, all.String(), stderr)
		}
	}
	return passed(all.String())
}
