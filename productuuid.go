package hardwareid

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"howett.net/plist"
)

// biosFirmwareMessage is the placeholder many OEM firmwares leave in
// SMBIOS string fields.
const biosFirmwareMessage = "To be filled by O.E.M."

// uuidQuery is one way of asking the OS for the product UUID.
type uuidQuery struct {
	source  string
	command string
	args    []string
	parse   func(output string) (string, error)
}

// productUUIDQueries lists, per platform, the queries tried in order. A later
// query only runs when the previous one could not be executed at all.
var productUUIDQueries = map[string][]uuidQuery{
	"windows": {
		{
			source:  "wmic output",
			command: "wmic",
			args:    []string{"csproduct", "get", "uuid"},
			parse:   parseHeaderedOutput,
		},
		{
			source:  "PowerShell output",
			command: "powershell",
			args: []string{"-NoProfile", "-NonInteractive", "-Command",
				"(Get-CimInstance -ClassName Win32_ComputerSystemProduct).UUID"},
			parse: parseSingleValue,
		},
	},
	"darwin": {
		{
			source:  "ioreg plist",
			command: "ioreg",
			args:    []string{"-rd1", "-c", "IOPlatformExpertDevice", "-a"},
			parse:   parseIORegPlist,
		},
	},
}

type productUUIDStrategy struct{}

func (productUUIDStrategy) name() StrategyName { return PlatformProductUUID }

func (productUUIDStrategy) platforms() []string {
	return slices.Sorted(maps.Keys(productUUIDQueries))
}

func (productUUIDStrategy) resolve(ctx context.Context, r *Resolver) (string, error) {
	queries := productUUIDQueries[r.platform]
	if len(queries) == 0 {
		return "", ErrNotApplicable
	}

	var execErrs []error

	for _, q := range queries {
		output, err := r.runQuery(ctx, q.command, q.args...)
		if err != nil {
			r.logWarn("system query failed", "command", q.command, "error", err)
			execErrs = append(execErrs, err)

			if ctx.Err() != nil {
				break
			}

			continue
		}

		value, err := q.parse(output)
		if err != nil {
			return "", err
		}

		if err := checkPlaceholder(value); err != nil {
			return "", malformedOutput(q.source, err)
		}

		r.logDebug("product UUID collected", "command", q.command, "value", value)

		return value, nil
	}

	return "", queryUnavailable(errors.Join(execErrs...))
}

// nonBlankLines splits output into trimmed lines, dropping blank ones.
// wmic pads its table with trailing spaces and emits \r\r\n line endings.
func nonBlankLines(output string) []string {
	var lines []string
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// parseHeaderedOutput returns the value line of a "header / value" table such
// as the output of `wmic csproduct get uuid`.
func parseHeaderedOutput(output string) (string, error) {
	lines := nonBlankLines(output)
	if len(lines) < 2 {
		return "", malformedOutput("wmic output",
			fmt.Errorf("expected header and value lines, got %d line(s)", len(lines)))
	}

	return lines[1], nil
}

// parseSingleValue returns the first non-blank line of output.
func parseSingleValue(output string) (string, error) {
	lines := nonBlankLines(output)
	if len(lines) == 0 {
		return "", malformedOutput("PowerShell output", errors.New("empty output"))
	}

	return lines[0], nil
}

// ioregEntry is the subset of an IOPlatformExpertDevice node we read.
type ioregEntry struct {
	PlatformUUID string `plist:"IOPlatformUUID"`
}

// parseIORegPlist extracts IOPlatformUUID from `ioreg -a` property-list output.
func parseIORegPlist(output string) (string, error) {
	var entries []ioregEntry
	if _, err := plist.Unmarshal([]byte(output), &entries); err != nil {
		return "", malformedOutput("ioreg plist", err)
	}

	for _, e := range entries {
		if v := strings.TrimSpace(e.PlatformUUID); v != "" {
			return v, nil
		}
	}

	return "", malformedOutput("ioreg plist", errors.New("IOPlatformUUID not present"))
}

// checkPlaceholder rejects values that firmware uses when no real UUID was
// provisioned.
func checkPlaceholder(value string) error {
	if strings.EqualFold(value, biosFirmwareMessage) {
		return fmt.Errorf("%w: %q", ErrPlaceholderValue, value)
	}

	if id, err := uuid.Parse(value); err == nil && (id == uuid.Nil || id == uuid.Max) {
		return fmt.Errorf("%w: %s", ErrPlaceholderValue, value)
	}

	return nil
}
