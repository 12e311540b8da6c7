package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

func newHeldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "held",
		Short: "Show currently held slots on both services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			heldA, heldB, err := co.Held(ctx)
			if err != nil {
				return err
			}
			matched := slot.Matched(heldA, heldB)
			fmt.Fprintf(os.Stdout, "hotel: %v\n", heldA.Sorted())
			fmt.Fprintf(os.Stdout, "band:  %v\n", heldB.Sorted())
			fmt.Fprintf(os.Stdout, "matched pairs: %v\n", matched.Sorted())
			return nil
		},
	}
}

func newCandidatesCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "candidates",
		Short: "Show the earliest slots reachable as a matched pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			ids, err := co.Candidates(ctx, limit)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(os.Stdout, "no matching slots currently available")
				return nil
			}
			fmt.Fprintf(os.Stdout, "candidates: %v\n", ids)
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", coordinator.SearchLimit, "maximum candidates to show")
	return c
}

func newBrowseCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "browse",
		Short: "Show available slots per service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			availA, availB, err := co.BrowseAvailable(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "hotel: %v\n", availA)
			fmt.Fprintf(os.Stdout, "band:  %v\n", availB)
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", coordinator.BrowseLimit, "maximum slots to show per service")
	return c
}
