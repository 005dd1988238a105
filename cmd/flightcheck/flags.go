package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gururajhm-neo/flightcheck/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("pipeline") {
		v, err := flags.GetString("pipeline")
		if err != nil {
			return values, fmt.Errorf("parse --pipeline: %w", err)
		}
		values.Pipeline = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("store") {
		v, err := flags.GetString("store")
		if err != nil {
			return values, fmt.Errorf("parse --store: %w", err)
		}
		values.Store = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("only-step") {
		v, err := flags.GetStringArray("only-step")
		if err != nil {
			return values, fmt.Errorf("parse --only-step: %w", err)
		}
		values.OnlySteps = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("skip-step") {
		v, err := flags.GetStringArray("skip-step")
		if err != nil {
			return values, fmt.Errorf("parse --skip-step: %w", err)
		}
		values.SkipSteps = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("event") {
		v, err := flags.GetString("event")
		if err != nil {
			return values, fmt.Errorf("parse --event: %w", err)
		}
		values.Event = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("branch") {
		v, err := flags.GetString("branch")
		if err != nil {
			return values, fmt.Errorf("parse --branch: %w", err)
		}
		values.Branch = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("timeout") {
		v, err := flags.GetString("timeout")
		if err != nil {
			return values, fmt.Errorf("parse --timeout: %w", err)
		}
		values.Timeout = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
