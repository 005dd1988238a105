package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flightcheck",
		Short:         "Flightcheck executes browser-test pipelines with artifact collection",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("pipeline", "", "pipeline manifest to run (default: built-in browser-test pipeline)")
	persistent.String("store", "", "artifact store directory")
	persistent.StringArray("only-step", nil, "include only matching steps")
	persistent.StringArray("skip-step", nil, "exclude matching steps")
	persistent.String("event", "", "trigger event to evaluate (push|pull_request)")
	persistent.String("branch", "", "branch name for trigger evaluation")
	persistent.String("timeout", "", "overall pipeline timeout (e.g. 30m)")
	persistent.Bool("dry-run", false, "print steps without executing them")
	persistent.BoolP("verbose", "v", false, "stream command output in real time")
	persistent.String("format", "pretty", "output format (pretty|json)")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newPruneCmd())

	return cmd
}
