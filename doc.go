// Package hardwareid resolves a stable identifier that binds a software
// installation to the physical machine it runs on. The identifier is
// stable across reboots and changes only when the underlying hardware does,
// making it suitable for license binding and device registration.
//
// # Overview
//
// A [Resolver] runs an ordered chain of strategies and returns the first
// identifier produced:
//
//  1. [PlatformProductUUID]: the firmware product UUID, read through an
//     OS-provided query (wmic, then PowerShell, on Windows; ioreg on macOS).
//  2. [PrimaryNetworkMAC]: the MAC address of the primary network adapter,
//     normalized to "MAC-" followed by upper-case hex digits.
//  3. [UnknownSentinel]: the constant [SentinelID] ("MAC-UNKNOWN").
//
// Strategies that do not apply on the platform are skipped without spawning
// any process. On Linux and other platforms without a product UUID query the
// chain starts at the MAC strategy.
//
// # Quick Start
//
//	id, err := hardwareid.HardwareID(ctx)
//
// Or, with explicit configuration:
//
//	res, err := hardwareid.New().
//		WithTimeout(2 * time.Second).
//		WithQueryFallback().
//		Resolve(ctx)
//
// # Failure Policy
//
// A product UUID query that cannot run, produces unparseable output or yields
// a firmware placeholder ends the resolution with a [*StrategyError]. Call
// [Resolver.WithQueryFallback] to fall through to the MAC strategy instead.
// The MAC strategy itself never fails: machines without a usable adapter get
// [SentinelID], and [Resolution.Degraded] reports it.
//
// # Validation
//
// [Resolver.Validate] re-resolves the identifier and compares it with a
// previously stored value:
//
//	ok, err := hardwareid.New().Validate(ctx, storedID)
//
// # Testing
//
// Inject a [CommandExecutor] and an [InterfaceLister], and pin the platform,
// to resolve deterministically without touching the host:
//
//	r := hardwareid.New().
//		WithPlatform("windows").
//		WithExecutor(myMock).
//		WithInterfaceLister(myLister)
//
// # Logging
//
// [Resolver.WithLogger] accepts an optional [*slog.Logger]. Nothing is logged
// when no logger is set.
//
// # Errors
//
// Errors can be matched with [errors.Is] against [ErrQueryUnavailable],
// [ErrMalformedOutput], [ErrPlaceholderValue] and [ErrNoIdentifierFound], and
// inspected with [errors.As] for [*StrategyError], [*CommandError] and
// [*ParseError].
//
// # Command Line
//
// The hardwareid command in cmd/hardwareid prints the identifier, validates a
// stored one and reports the strategy chain and host details.
package hardwareid
