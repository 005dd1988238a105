package step

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gururajhm-neo/flightcheck/internal/envfile"
)

// LoadEnv merges a local env file into the run's environment. An absent file
// succeeds trivially. Only key names are reported; the file may hold secrets.
type LoadEnv struct {
	path string
}

// NewLoadEnv builds the action. The "path" key overrides the default ".env".
func NewLoadEnv(with map[string]string) *LoadEnv {
	path := with["path"]
	if path == "" {
		path = ".env"
	}
	return &LoadEnv{path: path}
}

// Execute parses the file and writes the pairs into the step context's
// environment, later entries overriding earlier ones with the same key.
func (a *LoadEnv) Execute(_ context.Context, sc *Context) Result {
	path := a.path
	if !filepath.IsAbs(path) {
		path = filepath.Join(sc.Root, path)
	}

	pairs, err := envfile.Load(path)
	if err != nil {
		return failed(1, "", err.Error())
	}
	if pairs == nil {
		return passed(fmt.Sprintf("no %s file, skipping\n", a.path))
	}

	for k, v := range pairs {
		sc.Env[k] = v
	}
	return passed(fmt.Sprintf("loaded %d keys from %s: %s\n", len(pairs), a.path, strings.Join(envfile.Keys(pairs), " ")))
}
