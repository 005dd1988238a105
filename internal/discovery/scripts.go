package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoScripts indicates that no test scripts matched the discovery glob.
var ErrNoScripts = errors.New("no test scripts discovered")

// DefaultGlob matches the scripts directory the backend pushes tests into.
const DefaultGlob = "scripts/*.py"

// Scripts returns workspace-relative test script paths matching glob under
// root, sorted lexicographically. Helper scripts prefixed "enhanced_" and the
// runner entry point itself are excluded.
func Scripts(root, glob string) ([]string, error) {
	if glob == "" {
		glob = DefaultGlob
	}
	found, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(glob)))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", glob, err)
	}

	scripts := make([]string, 0, len(found))
	for _, path := range found {
		base := filepath.Base(path)
		if strings.HasPrefix(base, "enhanced_") || base == "runner.py" {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Clean(path)
		}
		scripts = append(scripts, rel)
	}
	if len(scripts) == 0 {
		return nil, ErrNoScripts
	}
	sort.Strings(scripts)
	return scripts, nil
}
