package hardwareid

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [Resolver.Resolve]. Match them with [errors.Is].
var (
	// ErrQueryUnavailable is returned when the platform system-information
	// query could not be started or did not run to completion (binary
	// missing, permission denied, timeout, non-zero exit).
	ErrQueryUnavailable = errors.New("system query unavailable")

	// ErrMalformedOutput is returned when the query ran but its output did
	// not have the expected structure.
	ErrMalformedOutput = errors.New("malformed query output")

	// ErrNoIdentifierFound is returned when every strategy in the chain was
	// skipped or failed and no sentinel strategy was configured.
	ErrNoIdentifierFound = errors.New("no hardware identifier found")

	// ErrPlaceholderValue is returned when the query produced a firmware
	// placeholder such as the all-zero UUID or "To be filled by O.E.M.".
	ErrPlaceholderValue = errors.New("value is firmware placeholder")

	// ErrNotApplicable is recorded for strategies skipped on the current platform.
	ErrNotApplicable = errors.New("strategy not applicable on this platform")
)

// CommandError records a failed system command execution.
// Use [errors.As] to extract the command name from wrapped errors.
type CommandError struct {
	Command string // command name, e.g. "wmic", "ioreg"
	Err     error  // underlying error from exec
}

// Error returns a human-readable description of the command failure.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError records a failure while parsing command output.
type ParseError struct {
	Source string // data source, e.g. "wmic output", "ioreg plist"
	Err    error  // underlying parse error
}

// Error returns a human-readable description of the parse failure.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// StrategyError is the resolution failure surfaced to callers. It names the
// strategy that failed; the wrapped error carries one of the sentinels above.
type StrategyError struct {
	Strategy StrategyName
	Err      error
}

// Error returns the single message a host application presents to the user.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying error.
func (e *StrategyError) Unwrap() error {
	return e.Err
}

func queryUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrQueryUnavailable, err)
}

func malformedOutput(source string, err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedOutput, &ParseError{Source: source, Err: err})
}
