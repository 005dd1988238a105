package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
	"github.com/gururajhm-neo/flightcheck/internal/config"
	"github.com/gururajhm-neo/flightcheck/internal/output"
	"github.com/gururajhm-neo/flightcheck/internal/runner"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the pipeline",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := loadPipeline(root, cfg)
	if err != nil {
		return err
	}

	event, branch, err := resolveEvent(cfg)
	if err != nil {
		return err
	}
	if event != "" && !p.Triggers.Matches(event, branch) {
		fmt.Fprintf(cmd.OutOrStdout(), "trigger conditions not met for %s on %q\n", event, branch)
		return nil
	}

	filtered, err := applyFilters(p, cfg)
	if err != nil {
		return err
	}
	if len(filtered.Steps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching steps")
		return nil
	}

	timeout, err := resolveTimeout(cfg)
	if err != nil {
		return err
	}

	storeDir := cfg.Store
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(root, storeDir)
	}

	execRunner := runner.New(runner.Options{
		Root:    root,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		DryRun:  cfg.DryRun,
		Store:   artifact.NewStore(storeDir),
		Timeout: timeout,
	})
	results, summary, err := execRunner.Run(cmd.Context(), filtered)
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderResults(filtered, results, summary); err != nil {
			return err
		}
	case config.FormatJSON:
		r := output.Report{Pipeline: filtered, Steps: results, Summary: summary}
		if err := output.NewJSON(cmd.OutOrStdout()).Render(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if summary.ExitCode != 0 {
		return fmt.Errorf("one or more halting steps failed")
	}

	return nil
}
