package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slotbroker",
		Short: "Coordinates matched slot reservations across the hotel and band services",
		Long: "slotbroker reserves the same numbered time slot on two independent\n" +
			"reservation services at once, holding a matched pair on both or a slot\n" +
			"on neither. There is no cross-service transaction: atomicity is\n" +
			"synthesized with compensating releases, and requests are paced to the\n" +
			"rate the services tolerate.",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "path to api.ini")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newHeldCmd())
	root.AddCommand(newCandidatesCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newReserveCmd())
	root.AddCommand(newCancelCmd())
	root.AddCommand(newSnipeCmd())
	root.AddCommand(newCleanupCmd())
	root.AddCommand(newCancelAllCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newServeCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
