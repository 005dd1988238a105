package artifact

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPatterns cover the files browser test runs produce: screenshots,
// JSON reports, and videos.
func DefaultPatterns() []string {
	return []string{"*.png", "*.jpg", "*.jpeg", "*.json", "*.webm"}
}

// Scan returns workspace-relative paths of files matching the supplied
// patterns. Patterns containing a path separator glob relative to root;
// bare patterns ("*.png") match file names anywhere under root. Directories
// listed in skipDirs are not descended into, so a store rooted inside the
// workspace never feeds its own bundles back into a scan. Results are
// deduplicated and sorted.
func Scan(root string, patterns []string, skipDirs ...string) ([]string, error) {
	skip := make([]string, 0, len(skipDirs))
	for _, dir := range skipDirs {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			skip = append(skip, abs)
		}
	}
	excluded := func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		for _, s := range skip {
			if abs == s || strings.HasPrefix(abs, s+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	matches := make(map[string]struct{})

	bare := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.ContainsRune(pattern, '/') {
			found, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", pattern, err)
			}
			for _, m := range found {
				if excluded(m) {
					continue
				}
				if rel, err := filepath.Rel(root, m); err == nil {
					matches[rel] = struct{}{}
				}
			}
			continue
		}
		bare = append(bare, pattern)
	}

	if len(bare) > 0 {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if excluded(path) {
					return fs.SkipDir
				}
				return nil
			}
			for _, pattern := range bare {
				ok, matchErr := filepath.Match(pattern, d.Name())
				if matchErr != nil {
					return fmt.Errorf("match %q: %w", pattern, matchErr)
				}
				if ok {
					if rel, relErr := filepath.Rel(root, path); relErr == nil {
						matches[rel] = struct{}{}
					}
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", root, err)
		}
	}

	out := make([]string, 0, len(matches))
	for m := range matches {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}
