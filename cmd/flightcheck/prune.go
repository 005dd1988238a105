package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gururajhm-neo/flightcheck/internal/artifact"
)

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete artifact bundles past their retention period",
		RunE:  runPrune,
	}
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	storeDir := cfg.Store
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(root, storeDir)
	}

	removed, err := artifact.NewStore(storeDir).Prune()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired bundle(s)\n", removed)
	return nil
}
