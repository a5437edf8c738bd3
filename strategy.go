package hardwareid

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// StrategyName identifies one method of deriving a hardware identifier.
type StrategyName string

// Built-in strategies, listed in default priority order.
const (
	// PlatformProductUUID reads the firmware product UUID through an
	// OS-provided system query (wmic/PowerShell on Windows, ioreg on macOS).
	PlatformProductUUID StrategyName = "PlatformProductUUID"
	// PrimaryNetworkMAC derives the identifier from the primary network
	// interface's MAC address: the first up, non-virtual adapter, or the
	// first usable one in enumeration order when there is none. It never
	// fails outward.
	PrimaryNetworkMAC StrategyName = "PrimaryNetworkMAC"
	// UnknownSentinel always yields [SentinelID].
	UnknownSentinel StrategyName = "UnknownSentinel"
)

// SentinelID is returned when no real hardware signal could be obtained.
const SentinelID = macPrefix + "UNKNOWN"

// allPlatforms marks a strategy that applies regardless of GOOS.
const allPlatforms = "*"

var errUnknownStrategy = errors.New("unknown strategy")

// DefaultChain returns the default strategy order.
func DefaultChain() []StrategyName {
	return []StrategyName{PlatformProductUUID, PrimaryNetworkMAC, UnknownSentinel}
}

// ParseStrategyName accepts a strategy name case-insensitively, or one of
// the short aliases "uuid", "mac" and "unknown".
func ParseStrategyName(s string) (StrategyName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uuid", strings.ToLower(string(PlatformProductUUID)):
		return PlatformProductUUID, nil
	case "mac", strings.ToLower(string(PrimaryNetworkMAC)):
		return PrimaryNetworkMAC, nil
	case "unknown", "sentinel", strings.ToLower(string(UnknownSentinel)):
		return UnknownSentinel, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownStrategy, s)
	}
}

// StrategyInfo describes one entry of a resolver's chain.
type StrategyInfo struct {
	Name       StrategyName `json:"name" yaml:"name"`
	Rank       int          `json:"rank" yaml:"rank"`
	Platforms  []string     `json:"platforms" yaml:"platforms"`
	Applicable bool         `json:"applicable" yaml:"applicable"`
}

// strategy is a platform-gated resolution method.
type strategy interface {
	name() StrategyName
	platforms() []string
	resolve(ctx context.Context, r *Resolver) (string, error)
}

// registry holds the built-in strategies by name.
var registry = map[StrategyName]strategy{
	PlatformProductUUID: productUUIDStrategy{},
	PrimaryNetworkMAC:   networkMACStrategy{},
	UnknownSentinel:     sentinelStrategy{},
}

// applicable reports whether s can run on platform. Platform applicability
// is decided at runtime so the gating is testable from any build target.
func applicable(s strategy, platform string) bool {
	p := s.platforms()

	return slices.Contains(p, allPlatforms) || slices.Contains(p, platform)
}

type sentinelStrategy struct{}

func (sentinelStrategy) name() StrategyName  { return UnknownSentinel }
func (sentinelStrategy) platforms() []string { return []string{allPlatforms} }

func (sentinelStrategy) resolve(context.Context, *Resolver) (string, error) {
	return SentinelID, nil
}
