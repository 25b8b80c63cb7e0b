package main

import (
	"fmt"

	"github.com/spf13/cobra"

	diamonds "github.com/Dav3whit3/ih-datamadpt0420-project-m2"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "diamonds %s\n", diamonds.Version)
		},
	}
}
