package step

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultOutputDirs are where test runs write their artifacts.
var defaultOutputDirs = []string{"test-results", "screenshots", "videos"}

// PrepareWorkspace idempotently creates the output directories. A directory
// that already exists is not an error.
type PrepareWorkspace struct {
	dirs []string
}

// NewPrepareWorkspace builds the action. The "dirs" key overrides the default
// directory set with a comma-separated list.
func NewPrepareWorkspace(with map[string]string) *PrepareWorkspace {
	dirs := defaultOutputDirs
	if raw := with["dirs"]; raw != "" {
		dirs = splitList(raw)
	}
	return &PrepareWorkspace{dirs: dirs}
}

// Execute creates each directory under the workspace root.
func (a *PrepareWorkspace) Execute(_ context.Context, sc *Context) Result {
	for _, dir := range a.dirs {
		full := filepath.Join(sc.Root, filepath.FromSlash(dir))
		if err := os.MkdirAll(full, 0o755); err != nil {
			return failed(1, "", fmt.Sprintf("create directory %q: %v", dir, err))
		}
	}
	return passed(fmt.Sprintf("prepared directories: %s\n", strings.Join(a.dirs, " ")))
}
