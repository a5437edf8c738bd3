package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slashdevops/hardwareid/internal/version"
)

func newVersionCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if long {
				fmt.Fprintln(cmd.OutOrStdout(), version.Long(applicationName))
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Short(applicationName))
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "show detailed build information")

	return cmd
}
