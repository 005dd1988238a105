package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrEmptyBundle indicates that a bundle spec matched no files.
var ErrEmptyBundle = errors.New("bundle matched no files")

// BundleSpec names a group of artifacts and its retention period.
type BundleSpec struct {
	Name          string   `json:"name"`
	Paths         []string `json:"paths,omitempty"`
	Patterns      []string `json:"patterns,omitempty"`
	RetentionDays int      `json:"retention_days"`
}

// Manifest records what was stored for one bundle upload.
type Manifest struct {
	Bundle        string    `json:"bundle"`
	RunID         string    `json:"run_id"`
	CreatedAt     time.Time `json:"created_at"`
	RetentionDays int       `json:"retention_days"`
	Files         []string  `json:"files"`
	TotalBytes    int64     `json:"total_bytes"`
}

const manifestFile = "manifest.json"

// Store is a filesystem-backed artifact store. Each upload lands in its own
// directory named <bundle>-<runID> alongside a manifest describing retention.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put copies the files named by spec (paths relative to root, directories
// walked recursively, patterns via Scan) into a new bundle directory and
// writes its manifest. Missing paths are skipped; an entirely empty match set
// returns ErrEmptyBundle.
func (s *Store) Put(root, runID string, spec BundleSpec) (Manifest, error) {
	files, err := s.resolve(root, spec)
	if err != nil {
		return Manifest{}, err
	}
	if len(files) == 0 {
		return Manifest{}, fmt.Errorf("bundle %q: %w", spec.Name, ErrEmptyBundle)
	}

	bundleDir := filepath.Join(s.dir, fmt.Sprintf("%s-%s", spec.Name, runID))
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create bundle dir %q: %w", bundleDir, err)
	}

	manifest := Manifest{
		Bundle:        spec.Name,
		RunID:         runID,
		CreatedAt:     s.now().UTC(),
		RetentionDays: spec.RetentionDays,
		Files:         files,
	}

	for _, rel := range files {
		size, err := copyFile(filepath.Join(root, rel), filepath.Join(bundleDir, rel))
		if err != nil {
			return Manifest{}, fmt.Errorf("bundle %q: %w", spec.Name, err)
		}
		manifest.TotalBytes += size
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bundleDir, manifestFile), data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}

// Prune removes bundles whose retention period has elapsed and returns how
// many were deleted. Bundles without a readable manifest are left alone.
func (s *Store) Prune() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read store %q: %w", s.dir, err)
	}

	now := s.now()
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bundleDir := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(filepath.Join(bundleDir, manifestFile))
		if err != nil {
			continue
		}
		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			continue
		}
		if manifest.RetentionDays <= 0 {
			continue
		}
		expiry := manifest.CreatedAt.Add(time.Duration(manifest.RetentionDays) * 24 * time.Hour)
		if now.Before(expiry) {
			continue
		}
		if err := os.RemoveAll(bundleDir); err != nil {
			return removed, fmt.Errorf("remove bundle %q: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) resolve(root string, spec BundleSpec) ([]string, error) {
	seen := make(map[string]struct{})
	absStore, _ := filepath.Abs(s.dir)

	for _, p := range spec.Paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		info, err := os.Stat(full)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %q: %w", p, err)
		}
		if !info.IsDir() {
			if rel, relErr := filepath.Rel(root, full); relErr == nil {
				seen[rel] = struct{}{}
			}
			continue
		}
		err = filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if abs, absErr := filepath.Abs(path); absErr == nil && abs == absStore {
					return fs.SkipDir
				}
				return nil
			}
			if rel, relErr := filepath.Rel(root, path); relErr == nil {
				seen[rel] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", p, err)
		}
	}

	if len(spec.Patterns) > 0 {
		matched, err := Scan(root, spec.Patterns, s.dir)
		if err != nil {
			return nil, err
		}
		for _, m := range matched {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func copyFile(src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create dir for %q: %w", dst, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %q: %w", dst, err)
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, fmt.Errorf("copy %q: %w", src, err)
	}
	return n, nil
}
