package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/slashdevops/hardwareid"
	"github.com/slashdevops/hardwareid/internal/config"
	"github.com/slashdevops/hardwareid/internal/report"
)

func newInfoCmd(d deps, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print a system and hardware identity report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := report.NewBuilder(func() *hardwareid.Resolver {
				return d.resolver(cmd, *cfg)
			})
			b.Firmware = report.NewFirmwareReader(hardwareid.NewCommandExecutor(cfg.Timeout))
			if d.configureReport != nil {
				d.configureReport(b)
			}

			fields := b.Build(cmd.Context())

			return render(cmd.OutOrStdout(), cfg.Output, fields, func(w io.Writer) error {
				rows := make([][]string, 0, len(fields))
				for _, f := range fields {
					rows = append(rows, []string{f.Label, f.Value})
				}
				renderTable(w, []string{"Property", "Value"}, rows)

				return nil
			})
		},
	}
}
