package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

func parseSlotArg(arg string) (slot.ID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid slot number %q", arg)
	}
	return slot.ID(n), nil
}

func parseSide(s string) (booking.Side, error) {
	side := booking.Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("invalid --side %q (want hotel, band or both)", s)
	}
	return side, nil
}

func newReserveCmd() *cobra.Command {
	var sideFlag string
	c := &cobra.Command{
		Use:   "reserve <slot>",
		Short: "Reserve a slot on one or both services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSlotArg(args[0])
			if err != nil {
				return err
			}
			side, err := parseSide(sideFlag)
			if err != nil {
				return err
			}
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			res, err := co.Reserve(ctx, id, side)
			if err != nil {
				return err
			}
			printPair(res, "reserved")
			if !res.OK() {
				os.Exit(1)
			}
			return nil
		},
	}
	c.Flags().StringVar(&sideFlag, "side", string(booking.SideBoth), "hotel, band or both")
	return c
}

func newCancelCmd() *cobra.Command {
	var sideFlag string
	c := &cobra.Command{
		Use:   "cancel <slot>",
		Short: "Release a slot on one or both services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSlotArg(args[0])
			if err != nil {
				return err
			}
			side, err := parseSide(sideFlag)
			if err != nil {
				return err
			}
			ctx, stop, co, log, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			defer log.Sync()

			res, err := co.Cancel(ctx, id, side)
			if err != nil {
				return err
			}
			printPair(res, "cancelled")
			if !res.OK() {
				os.Exit(1)
			}
			return nil
		},
	}
	c.Flags().StringVar(&sideFlag, "side", string(booking.SideBoth), "hotel, band or both")
	return c
}

func printPair(res coordinator.PairResult, verb string) {
	if res.OK() {
		fmt.Fprintf(os.Stdout, "slot %d %s\n", res.Slot, verb)
		if res.Hotel.AlreadyHeld {
			fmt.Fprintln(os.Stdout, "  hotel side was already held")
		}
		if res.Band.AlreadyHeld {
			fmt.Fprintln(os.Stdout, "  band side was already held")
		}
		return
	}
	side, err := res.FailedSide()
	fmt.Fprintf(os.Stdout, "slot %d not %s: %s side failed: %v\n", res.Slot, verb, side, err)
	if res.Inconsistent {
		fmt.Fprintf(os.Stdout, "WARNING: compensation failed, services may hold inconsistent state for slot %d\n", res.Slot)
	}
}
