package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slashdevops/hardwareid/internal/config"
)

func newStrategiesCmd(d deps, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy chain and where each strategy applies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := d.resolver(cmd, *cfg)
			infos := r.Strategies()

			return render(cmd.OutOrStdout(), cfg.Output, infos, func(w io.Writer) error {
				fmt.Fprintf(w, "platform: %s\n\n", r.Platform())

				rows := make([][]string, 0, len(infos))
				for _, s := range infos {
					rows = append(rows, []string{
						strconv.Itoa(s.Rank),
						string(s.Name),
						strings.Join(s.Platforms, ","),
						strconv.FormatBool(s.Applicable),
					})
				}
				renderTable(w, []string{"Rank", "Strategy", "Platforms", "Applicable"}, rows)

				return nil
			})
		},
	}
}
