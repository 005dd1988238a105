package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gururajhm-neo/flightcheck/internal/config"
	"github.com/gururajhm-neo/flightcheck/internal/pipeline"
)

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

func loadPipeline(root string, cfg config.Config) (pipeline.Pipeline, error) {
	if cfg.Pipeline == "" {
		return pipeline.Default(), nil
	}
	path := cfg.Pipeline
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return pipeline.Load(path)
}

func applyFilters(p pipeline.Pipeline, cfg config.Config) (pipeline.Pipeline, error) {
	only, err := pipeline.CompilePatterns(cfg.OnlySteps)
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	skip, err := pipeline.CompilePatterns(cfg.SkipSteps)
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	return pipeline.Filter(p, only, skip), nil
}

func resolveTimeout(cfg config.Config) (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: %w", cfg.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", cfg.Timeout)
	}
	return d, nil
}

func resolveEvent(cfg config.Config) (string, string, error) {
	if cfg.Event == "" {
		return "", "", nil
	}
	switch cfg.Event {
	case pipeline.EventPush, pipeline.EventPullRequest:
	default:
		return "", "", fmt.Errorf("unsupported event %q", cfg.Event)
	}
	if cfg.Branch == "" {
		return "", "", fmt.Errorf("--branch is required with --event")
	}
	return cfg.Event, cfg.Branch, nil
}
