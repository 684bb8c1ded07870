package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keshon/dare/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		// skip config loading
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.AppName, info.Short())
		},
	}
}
