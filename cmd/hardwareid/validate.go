package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slashdevops/hardwareid/internal/config"
	"github.com/slashdevops/hardwareid/internal/logger"
)

type validateOutput struct {
	Valid    bool   `json:"valid" yaml:"valid"`
	Expected string `json:"expected" yaml:"expected"`
}

func newValidateCmd(d deps, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <hardware-id>",
		Short: "Check a stored hardware ID against this machine",
		Long:  "Resolve the hardware ID again and exit 0 when it matches the given value, 1 otherwise.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := args[0]

			valid, err := d.resolver(cmd, *cfg).Validate(cmd.Context(), expected)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := validateOutput{Valid: valid, Expected: expected}
			logger.FromContext(cmd.Context()).Debug().
				Bool("valid", out.Valid).
				Msg("hardware ID validated")

			err = render(cmd.OutOrStdout(), cfg.Output, out, func(w io.Writer) error {
				if out.Valid {
					fmt.Fprintln(w, "valid: hardware ID matches")
				} else {
					fmt.Fprintln(w, "invalid: hardware ID does not match")
				}

				return nil
			})
			if err != nil {
				return err
			}

			if !out.Valid {
				return errMismatch
			}

			return nil
		},
	}
}
