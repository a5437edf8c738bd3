package hardwareid

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Attempt records what happened to one strategy during a resolution.
type Attempt struct {
	Strategy StrategyName
	Skipped  bool          // strategy not applicable on the platform
	Err      error         // nil on success
	Duration time.Duration // zero when skipped
}

// Resolution is the outcome of a successful [Resolver.Resolve] call. A new
// value is built on every call; nothing is cached.
type Resolution struct {
	ID       string
	Strategy StrategyName
	Platform string
	Attempts []Attempt
}

// Degraded reports whether the identifier is the sentinel rather than a real
// hardware signal.
func (r Resolution) Degraded() bool {
	return r.ID == SentinelID
}

// Resolver selects and runs the highest-priority applicable strategy.
// A configured Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	executor      CommandExecutor
	lister        InterfaceLister
	logger        *slog.Logger
	platform      string
	chain         []StrategyName
	queryFallback bool
}

// New creates a Resolver for the running platform with the default chain
// [PlatformProductUUID, PrimaryNetworkMAC, UnknownSentinel].
func New() *Resolver {
	return &Resolver{
		executor: &defaultCommandExecutor{
			Timeout: defaultTimeout,
		},
		lister:   systemInterfaceLister{},
		platform: runtime.GOOS,
		chain:    DefaultChain(),
	}
}

// HardwareID resolves the identifier of the current machine with the default
// configuration.
func HardwareID(ctx context.Context) (string, error) {
	return New().ID(ctx)
}

// WithExecutor sets a custom [CommandExecutor], enabling deterministic testing
// without real system commands.
func (r *Resolver) WithExecutor(executor CommandExecutor) *Resolver {
	r.executor = executor

	return r
}

// WithInterfaceLister sets a custom [InterfaceLister].
func (r *Resolver) WithInterfaceLister(lister InterfaceLister) *Resolver {
	r.lister = lister

	return r
}

// WithPlatform overrides the platform used to gate strategies. It takes
// GOOS values such as "windows", "darwin" or "linux".
func (r *Resolver) WithPlatform(platform string) *Resolver {
	r.platform = platform

	return r
}

// WithTimeout bounds each system query run by the default executor.
// It has no effect once a custom executor is set.
func (r *Resolver) WithTimeout(timeout time.Duration) *Resolver {
	if e, ok := r.executor.(*defaultCommandExecutor); ok {
		e.Timeout = timeout
	}

	return r
}

// WithQueryFallback lets a failing strategy fall through to the next one
// instead of ending the resolution with an error.
func (r *Resolver) WithQueryFallback() *Resolver {
	r.queryFallback = true

	return r
}

// WithStrategies replaces the strategy chain. Order is priority order.
func (r *Resolver) WithStrategies(names ...StrategyName) *Resolver {
	r.chain = append([]StrategyName(nil), names...)

	return r
}

// WithLogger sets an optional [*slog.Logger]. A nil logger (the default)
// disables all logging.
func (r *Resolver) WithLogger(logger *slog.Logger) *Resolver {
	r.logger = logger

	return r
}

// Platform returns the platform strategies are gated on.
func (r *Resolver) Platform() string {
	return r.platform
}

// ID resolves and returns the identifier only.
func (r *Resolver) ID(ctx context.Context) (string, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return "", err
	}

	return res.ID, nil
}

// Resolve runs the strategy chain in priority order. Inapplicable strategies
// are skipped without being executed. The first success is returned. A
// failure ends the resolution with a [*StrategyError] unless
// [Resolver.WithQueryFallback] was set. When the chain is exhausted the error
// wraps [ErrNoIdentifierFound].
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	res := Resolution{Platform: r.platform}

	r.logInfo("resolving hardware ID",
		"platform", r.platform,
		"strategies", r.chain,
		"query_fallback", r.queryFallback,
	)

	var failures *multierror.Error

	for _, name := range r.chain {
		s, ok := registry[name]
		if !ok {
			return res, &StrategyError{Strategy: name, Err: errUnknownStrategy}
		}

		if !applicable(s, r.platform) {
			r.logDebug("strategy skipped", "strategy", name, "platform", r.platform)
			res.Attempts = append(res.Attempts, Attempt{Strategy: name, Skipped: true, Err: ErrNotApplicable})

			continue
		}

		start := time.Now()
		id, err := s.resolve(ctx, r)
		elapsed := time.Since(start)

		if err == nil && id == "" {
			err = fmt.Errorf("%w: empty identifier", ErrMalformedOutput)
		}

		if err != nil {
			serr := &StrategyError{Strategy: name, Err: err}
			res.Attempts = append(res.Attempts, Attempt{Strategy: name, Err: serr, Duration: elapsed})

			if !r.queryFallback {
				r.logWarn("strategy failed", "strategy", name, "error", err)

				return res, serr
			}

			r.logWarn("strategy failed, falling through", "strategy", name, "error", err)
			failures = multierror.Append(failures, serr)

			continue
		}

		res.Attempts = append(res.Attempts, Attempt{Strategy: name, Duration: elapsed})
		res.ID = id
		res.Strategy = name

		r.logInfo("hardware ID resolved", "strategy", name, "degraded", res.Degraded(), "duration", elapsed)

		return res, nil
	}

	r.logWarn("no strategy produced an identifier", "attempts", len(res.Attempts))

	if failures != nil {
		failures.ErrorFormat = joinErrors

		return res, fmt.Errorf("%w: %w", ErrNoIdentifierFound, failures)
	}

	return res, ErrNoIdentifierFound
}

// Validate reports whether id equals the identifier resolved now.
func (r *Resolver) Validate(ctx context.Context, id string) (bool, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return false, err
	}

	if res.Degraded() {
		r.logWarn("validating against sentinel identifier")
	}

	return res.ID == id, nil
}

// Strategies describes the configured chain and which entries apply on the
// resolver's platform.
func (r *Resolver) Strategies() []StrategyInfo {
	infos := make([]StrategyInfo, 0, len(r.chain))
	for i, name := range r.chain {
		info := StrategyInfo{Name: name, Rank: i + 1}
		if s, ok := registry[name]; ok {
			info.Platforms = s.platforms()
			info.Applicable = applicable(s, r.platform)
		}
		infos = append(infos, info)
	}

	return infos
}

// runQuery executes a system command through the configured executor and
// logs its timing.
func (r *Resolver) runQuery(ctx context.Context, name string, args ...string) (string, error) {
	executor := r.executor
	if executor == nil {
		executor = &defaultCommandExecutor{Timeout: defaultTimeout}
	}

	start := time.Now()
	output, err := executor.Execute(ctx, name, args...)
	r.logDebug("system query finished", "command", name, "args", args, "duration", time.Since(start), "error", err)

	return output, err
}

// joinErrors renders aggregated failures on a single line.
func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, "; ")
}

// logDebug logs at debug level if a logger is configured.
func (r *Resolver) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// logInfo logs at info level if a logger is configured.
func (r *Resolver) logInfo(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

// logWarn logs at warn level if a logger is configured.
func (r *Resolver) logWarn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
