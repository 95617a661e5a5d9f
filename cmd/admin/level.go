package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gemgrid.ai/internal/sim/level"
)

func newLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Validate and inspect levels",
	}

	check := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate level files and report the first violated rule of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			out := cmd.OutOrStdout()
			for _, path := range args {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				lvl, err := level.Parse(path, string(b))
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s: %dx%d agents=%d gems=%d exits=%d\n",
					path, lvl.Width, lvl.Height, lvl.NAgents(), lvl.NGems(), len(lvl.Exits))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d level(s) failed validation", failed, len(args))
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <name|file>",
		Short: "Print a level grid and its initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := level.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%dx%d)\n", lvl.Name, lvl.Width, lvl.Height)
			fmt.Fprint(out, lvl.Render())
			fmt.Fprintln(out, lvl.InitialState())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in levels",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range level.BuiltinNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	cmd.AddCommand(check, show, list)
	return cmd
}
