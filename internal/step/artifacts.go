package step

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
)

// UploadArtifacts scans the workspace for test output and stores two bundles:
// the aggregate test artifacts and every screenshot image. It runs under an
// always condition so forensic evidence survives earlier failures, and a
// store failure is reported without changing the run's already-determined
// exit status.
type UploadArtifacts struct {
	bundles []artifact.BundleSpec
}

// NewUploadArtifacts builds the action. Recognized keys: "results" (aggregate
// file name), "retention_days" and "screenshot_retention_days" (per-bundle
// retention overrides).
func NewUploadArtifacts(with map[string]string) *UploadArtifacts {
	results := with["results"]
	if results == "" {
		results = "test_results.json"
	}
	return &UploadArtifacts{
		bundles: []artifact.BundleSpec{
			{
				Name:          "test-artifacts",
				Paths:         []string{"test-results", "screenshots", "videos", results},
				RetentionDays: retention(with["retention_days"], 30),
			},
			{
				Name:          "screenshots",
				Patterns:      []string{"*.png", "*.jpg", "*.jpeg"},
				RetentionDays: retention(with["screenshot_retention_days"], 90),
			},
		},
	}
}

// Execute lists matching files for the log, then stores each bundle once.
func (a *UploadArtifacts) Execute(_ context.Context, sc *Context) Result {
	var out strings.Builder

	var skip []string
	if sc.Store != nil {
		skip = append(skip, sc.Store.Dir())
	}
	matched, err := artifact.Scan(sc.Root, artifact.DefaultPatterns(), skip...)
	if err != nil {
		return failed(1, "", err.Error())
	}
	fmt.Fprintf(&out, "found %d artifact file(s)\n", len(matched))
	for _, m := range matched {
		fmt.Fprintf(&out, "  %s\n", m)
	}

	if sc.Store == nil {
		return failed(1, out.String(), "no artifact store configured")
	}

	uploadErrs := 0
	for _, bundle := range a.bundles {
		manifest, err := sc.Store.Put(sc.Root, sc.RunID, bundle)
		if err != nil {
			if errors.Is(err, artifact.ErrEmptyBundle) {
				fmt.Fprintf(&out, "bundle %s: nothing to store\n", bundle.Name)
				continue
			}
			uploadErrs++
			fmt.Fprintf(&out, "bundle %s: store failed: %v\n", bundle.Name, err)
			continue
		}
		fmt.Fprintf(&out, "bundle %s: stored %d file(s), %d bytes, retained %d days\n",
			manifest.Bundle, len(manifest.Files), manifest.TotalBytes, manifest.RetentionDays)
	}

	if uploadErrs > 0 {
		return failed(1, out.String(), fmt.Sprintf("%d bundle upload(s) failed", uploadErrs))
	}
	return passed(out.String())
}

func retention(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
