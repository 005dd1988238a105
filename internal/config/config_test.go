package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, FormatPretty, cfg.Format)
	assert.Equal(t, DefaultStore, cfg.Store)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	root := t.TempDir()
	contents := "pipeline: ci/browser.yml\nformat: json\nverbose: true\nskip_step:\n  - verify\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".flightcheck.yml"), []byte(contents), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "ci/browser.yml", cfg.Pipeline)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"verify"}, cfg.SkipSteps)
	assert.Equal(t, DefaultStore, cfg.Store)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".flightcheck.yml"), []byte("pipeline: [\n"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := Default()
	cfg.Pipeline = "from-file.yml"
	cfg.Verbose = true

	ApplyFlags(&cfg, FlagValues{
		Pipeline: StringFlag{Value: "from-flag.yml", Set: true},
		Event:    StringFlag{Value: "push", Set: true},
		Branch:   StringFlag{Value: "feature/login", Set: true},
		Timeout:  StringFlag{Value: "10m", Set: true},
		DryRun:   BoolFlag{Value: true, Set: true},
	})

	assert.Equal(t, "from-flag.yml", cfg.Pipeline)
	assert.Equal(t, "push", cfg.Event)
	assert.Equal(t, "feature/login", cfg.Branch)
	assert.Equal(t, "10m", cfg.Timeout)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Verbose) // untouched flags keep config values
}
