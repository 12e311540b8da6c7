package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Release unmatched holds and surplus matched pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			report, err := co.CancelUnmatched(ctx)
			if err != nil {
				return err
			}
			printSweep(report)
			if !report.OK() {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newCancelAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-all",
		Short: "Release every held slot on both services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			report, err := co.CancelAll(ctx)
			if err != nil {
				return err
			}
			printSweep(report)
			if !report.OK() {
				os.Exit(1)
			}
			return nil
		},
	}
}

func printSweep(report coordinator.SweepReport) {
	for _, a := range report.Released {
		fmt.Fprintf(os.Stdout, "released slot %d (%s)\n", a.Slot, a.Side)
	}
	for _, a := range report.Failed {
		fmt.Fprintf(os.Stdout, "FAILED to release slot %d (%s): %v\n", a.Slot, a.Side, a.Err)
	}
	if report.Inconsistent {
		fmt.Fprintln(os.Stdout, "WARNING: a compensation step failed; held state may be inconsistent")
	}
	if len(report.Released) == 0 && len(report.Failed) == 0 {
		fmt.Fprintln(os.Stdout, "nothing to release")
	}
}
