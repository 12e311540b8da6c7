package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
)

func newSnipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snipe",
		Short: "Find and reserve the earliest slot reachable as a matched pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			res, err := co.ReserveEarliest(ctx)
			if err != nil {
				return err
			}
			printSnipe(res)
			if !res.Success() {
				os.Exit(1)
			}
			return nil
		},
	}
}

func printSnipe(res coordinator.SnipeResult) {
	switch res.Status {
	case coordinator.SnipeReserved:
		fmt.Fprintf(os.Stdout, "reserved matched pair at slot %d (attempt %d)\n", res.Slot, res.Attempts)
	case coordinator.SnipeAlreadyOptimal:
		fmt.Fprintf(os.Stdout, "already holding the earliest matched pair at slot %d\n", res.Slot)
	case coordinator.SnipeNoCandidates:
		fmt.Fprintln(os.Stdout, "no matching slots currently available")
	case coordinator.SnipeExhausted:
		fmt.Fprintf(os.Stdout, "gave up after %d attempts\n", res.Attempts)
	}
	if res.Inconsistent {
		fmt.Fprintln(os.Stdout, "WARNING: a compensation step failed along the way; held state may be inconsistent")
	}
}
