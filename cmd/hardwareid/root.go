package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/slashdevops/hardwareid"
	"github.com/slashdevops/hardwareid/internal/config"
	"github.com/slashdevops/hardwareid/internal/logger"
	"github.com/slashdevops/hardwareid/internal/report"
)

// errMismatch signals a failed validation; main exits 1 without logging it.
var errMismatch = errors.New("hardware ID does not match")

// deps holds what the commands take from the host, replaced in tests.
type deps struct {
	newResolver     func(config.Config) *hardwareid.Resolver
	configureReport func(*report.Builder)
}

func defaultDeps() deps {
	return deps{
		newResolver: config.Config.NewResolver,
	}
}

func newRootCmd(d deps) *cobra.Command {
	v := config.New()

	var (
		cfgFile string
		cfg     config.Config
	)

	root := &cobra.Command{
		Use:   applicationName,
		Short: "Print a stable hardware identifier for this machine",
		Long: `hardwareid prints an identifier that binds a software installation to the
physical machine it runs on.

Strategies are tried in priority order: the firmware product UUID (Windows,
macOS), the primary network adapter's MAC address, and finally the
MAC-UNKNOWN sentinel.`,
		Example: `  hardwareid
  hardwareid -o json --diagnostics
  hardwareid --query-fallback
  hardwareid --strategies mac,unknown
  hardwareid validate MAC-AABBCCDDEEFF
  hardwareid info`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if err := config.ReadFile(v, cfgFile); err != nil {
				return err
			}

			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			cfg = loaded

			log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
			cmd.SetContext(logger.AddLoggerToContext(cmd.Context(), log))
			log.Debug().Str("output", cfg.Output).Dur("timeout", cfg.Timeout).Msg("configuration loaded")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, d.resolver(cmd, cfg), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to a YAML config file (default: ./hardwareid.yaml)")
	flags.String(config.KeyLogLevel, "warn", "log level: trace, debug, info, warn, error")
	flags.StringP(config.KeyOutput, "o", config.OutputText, "output format: text, json, yaml")
	flags.Duration(config.KeyTimeout, 5*time.Second, "timeout for each system query")
	flags.Bool(config.KeyQueryFallback, false, "fall through to the MAC strategy when the product UUID query fails")
	flags.StringSlice(config.KeyStrategies, nil, "strategy chain in priority order: uuid, mac, unknown")
	root.Flags().Bool(config.KeyDiagnostics, false, "show every strategy attempt")

	root.AddCommand(
		newValidateCmd(d, &cfg),
		newStrategiesCmd(d, &cfg),
		newInfoCmd(d, &cfg),
		newVersionCmd(),
	)

	return root
}

// resolver builds a resolver for cfg that logs through the command's logger.
func (d deps) resolver(cmd *cobra.Command, cfg config.Config) *hardwareid.Resolver {
	log := logger.FromContext(cmd.Context())

	return d.newResolver(cfg).WithLogger(logger.Slog(*log))
}

type attemptOutput struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

type resolveOutput struct {
	ID       string          `json:"id" yaml:"id"`
	Strategy string          `json:"strategy" yaml:"strategy"`
	Platform string          `json:"platform" yaml:"platform"`
	Degraded bool            `json:"degraded" yaml:"degraded"`
	Attempts []attemptOutput `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

func runResolve(cmd *cobra.Command, r *hardwareid.Resolver, cfg config.Config) error {
	res, err := r.Resolve(cmd.Context())
	if err != nil {
		if cfg.Diagnostics {
			printAttempts(cmd.ErrOrStderr(), res.Attempts)
		}

		return fmt.Errorf("resolving hardware ID: %w", err)
	}

	out := resolveOutput{
		ID:       res.ID,
		Strategy: string(res.Strategy),
		Platform: res.Platform,
		Degraded: res.Degraded(),
	}
	if cfg.Diagnostics {
		out.Attempts = attemptOutputs(res.Attempts)
	}

	return render(cmd.OutOrStdout(), cfg.Output, out, func(w io.Writer) error {
		fmt.Fprintln(w, res.ID)
		if cfg.Diagnostics {
			printAttempts(cmd.ErrOrStderr(), res.Attempts)
		}

		return nil
	})
}

func attemptOutputs(attempts []hardwareid.Attempt) []attemptOutput {
	out := make([]attemptOutput, 0, len(attempts))
	for _, a := range attempts {
		ao := attemptOutput{Strategy: string(a.Strategy)}
		switch {
		case a.Skipped:
			ao.Status = "skipped"
		case a.Err != nil:
			ao.Status = "failed"
			ao.Error = a.Err.Error()
		default:
			ao.Status = "ok"
		}
		if !a.Skipped {
			ao.Duration = a.Duration.Round(time.Microsecond).String()
		}
		out = append(out, ao)
	}

	return out
}

func printAttempts(w io.Writer, attempts []hardwareid.Attempt) {
	fmt.Fprintln(w, "\nDiagnostics:")

	rows := make([][]string, 0, len(attempts))
	for _, a := range attemptOutputs(attempts) {
		rows = append(rows, []string{a.Strategy, a.Status, a.Duration, a.Error})
	}

	renderTable(w, []string{"Strategy", "Status", "Duration", "Error"}, rows)
}
