package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/infrastructure/memoryapi"
	"github.com/a38062an/Atomic-Resource-Broker/internal/pacer"
)

// newDemoCmd runs the full coordination flow against two in-memory
// services, no network or config needed.
func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk the reservation flow against in-memory services",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(true)
			if err != nil {
				return err
			}
			defer log.Sync()

			hotel := memoryapi.New("hotel", 30)
			band := memoryapi.New("band", 30)
			// Other clients already took some slots, differently per
			// service, so the earliest matched candidate is not slot 1.
			hotel.Take(1, 2, 5, 8)
			band.Take(1, 3, 4, 8)

			co := coordinator.New(hotel, band, pacer.New(0), log)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Fprintln(os.Stdout, "== candidates ==")
			ids, err := co.Candidates(ctx, coordinator.SearchLimit)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "candidates: %v\n", ids)

			fmt.Fprintln(os.Stdout, "== snipe ==")
			snipe, err := co.ReserveEarliest(ctx)
			if err != nil {
				return err
			}
			printSnipe(snipe)

			fmt.Fprintln(os.Stdout, "== held ==")
			heldA, heldB, err := co.Held(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "hotel: %v\nband:  %v\n", heldA.Sorted(), heldB.Sorted())

			fmt.Fprintln(os.Stdout, "== cancel-all ==")
			report, err := co.CancelAll(ctx)
			if err != nil {
				return err
			}
			printSweep(report)
			return nil
		},
	}
}
