package hardwareid

import (
	"bytes"
	"context"
	"net"
	"strings"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// macPrefix namespaces MAC-derived identifiers against platform UUIDs.
const macPrefix = "MAC-"

// virtualInterfacePrefixes lists interface name prefixes that represent
// virtual, VPN, bridge, or ephemeral interfaces. They are only used when no
// physical interface is available.
var virtualInterfacePrefixes = []string{
	// VPN and tunnel interfaces
	"utun", "tun", "tap", "ipsec", "ppp",
	// Docker and container bridges
	"docker", "br-", "veth",
	// Virtual bridges and switches
	"virbr", "vnet", "vmnet",
	// Thunderbolt bridge (changes with docking state)
	"bridge",
	// Loopback variants
	"lo",
	// WireGuard
	"wg",
	// Parallels / VirtualBox / VMware
	"vnic", "vboxnet",
}

// Interface is the part of a network interface the MAC strategy looks at.
type Interface struct {
	Name         string
	HardwareAddr string
	Up           bool
	Loopback     bool
}

// InterfaceLister enumerates network interfaces in OS order.
type InterfaceLister interface {
	Interfaces(ctx context.Context) ([]Interface, error)
}

// systemInterfaceLister enumerates interfaces through gopsutil.
type systemInterfaceLister struct{}

func (systemInterfaceLister) Interfaces(ctx context.Context) ([]Interface, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	return interfacesFromStats(stats), nil
}

// interfacesFromStats converts gopsutil interface stats, reading the "up"
// and "loopback" entries of their flag lists.
func interfacesFromStats(stats []psnet.InterfaceStat) []Interface {
	ifaces := make([]Interface, 0, len(stats))
	for _, s := range stats {
		iface := Interface{Name: s.Name, HardwareAddr: s.HardwareAddr}
		for _, flag := range s.Flags {
			switch flag {
			case "up":
				iface.Up = true
			case "loopback":
				iface.Loopback = true
			}
		}
		ifaces = append(ifaces, iface)
	}

	return ifaces
}

type networkMACStrategy struct{}

func (networkMACStrategy) name() StrategyName  { return PrimaryNetworkMAC }
func (networkMACStrategy) platforms() []string { return []string{allPlatforms} }

// resolve never returns an error: enumeration failures and machines without
// a usable adapter both degrade to SentinelID.
//
// The adapter is not simply the first one the OS enumerates: an up,
// non-virtual interface is preferred so that VPN and container bridges,
// which often sort first, do not change the identifier. Only when no such
// interface exists is enumeration order used.
func (networkMACStrategy) resolve(ctx context.Context, r *Resolver) (string, error) {
	ifaces, err := r.lister.Interfaces(ctx)
	if err != nil {
		r.logWarn("network interface enumeration failed", "error", err)

		return SentinelID, nil
	}

	iface, ok := primaryInterface(ifaces)
	if !ok {
		r.logWarn("no network interface with a MAC address", "interfaces", len(ifaces))

		return SentinelID, nil
	}

	r.logDebug("primary interface selected", "interface", iface.Name, "mac", iface.HardwareAddr)

	return normalizeMAC(iface.HardwareAddr), nil
}

// primaryInterface picks the first up, non-virtual interface with a usable
// MAC address, falling back to the first usable one in enumeration order.
func primaryInterface(ifaces []Interface) (Interface, bool) {
	var candidates []Interface
	for _, i := range ifaces {
		if i.Loopback || !usableMAC(i.HardwareAddr) {
			continue
		}
		candidates = append(candidates, i)
	}

	for _, i := range candidates {
		if i.Up && !isVirtualInterface(i.Name) {
			return i, true
		}
	}

	if len(candidates) > 0 {
		return candidates[0], true
	}

	return Interface{}, false
}

// usableMAC reports whether addr parses and is not all zeros.
func usableMAC(addr string) bool {
	if addr == "" {
		return false
	}

	hw, err := net.ParseMAC(addr)
	if err != nil {
		return false
	}

	return !bytes.Equal(hw, make([]byte, len(hw)))
}

// normalizeMAC strips separators, upper-cases the hex digits and adds the
// MAC- prefix: "aa:bb:cc:dd:ee:ff" becomes "MAC-AABBCCDDEEFF".
func normalizeMAC(addr string) string {
	r := strings.NewReplacer(":", "", "-", "", ".", "")

	return macPrefix + strings.ToUpper(r.Replace(strings.TrimSpace(addr)))
}

// isVirtualInterface returns true if the interface name matches a known
// virtual, VPN, or bridge prefix.
func isVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return false
}
