package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Offline tools for gemgrid levels, episode indexes and running servers.",
		SilenceUsage: true,
	}
	root.AddCommand(newLevelCmd(), newEpisodesCmd(), newStateCmd(), newMetricsCmd())
	return root
}
