package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/version"
)

func newVersionCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), info.Full())
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mealguard %s\n", info)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include commit, build date and platform")
	return cmd
}
