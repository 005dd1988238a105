package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gururajhm-neo/flightcheck/internal/config"
	"github.com/gururajhm-neo/flightcheck/internal/output"
	"github.com/gururajhm-neo/flightcheck/internal/report"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pipeline steps and their policies",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := loadPipeline(root, cfg)
	if err != nil {
		return err
	}

	filtered, err := applyFilters(p, cfg)
	if err != nil {
		return err
	}
	if len(filtered.Steps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching steps")
		return nil
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		return output.NewPretty(cmd.OutOrStdout()).RenderList(filtered)
	case config.FormatJSON:
		r := output.Report{
			Pipeline: filtered,
			Summary:  report.Summary{TotalSteps: len(filtered.Steps)},
		}
		return output.NewJSON(cmd.OutOrStdout()).Render(r)
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}
