package hardwareid

import (
	"context"
	"errors"
	"testing"

	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfacesFromStats(t *testing.T) {
	tests := []struct {
		name  string
		stats []psnet.InterfaceStat
		want  []Interface
	}{
		{
			name:  "empty",
			stats: nil,
			want:  []Interface{},
		},
		{
			name: "loopback and up flags",
			stats: []psnet.InterfaceStat{
				{Name: "lo", Flags: []string{"up", "loopback", "running"}},
				{Name: "eth0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Flags: []string{"up", "broadcast", "multicast"}},
				{Name: "wlan0", HardwareAddr: "11:22:33:44:55:66", Flags: []string{"broadcast"}},
			},
			want: []Interface{
				{Name: "lo", Up: true, Loopback: true},
				{Name: "eth0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: true},
				{Name: "wlan0", HardwareAddr: "11:22:33:44:55:66"},
			},
		},
		{
			name: "no flags",
			stats: []psnet.InterfaceStat{
				{Name: "en0", HardwareAddr: "aa:bb:cc:dd:ee:ff"},
			},
			want: []Interface{
				{Name: "en0", HardwareAddr: "aa:bb:cc:dd:ee:ff"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interfacesFromStats(tt.stats))
		})
	}
}

func TestIsVirtualInterface(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"utun0", true},
		{"docker0", true},
		{"br-abc123", true},
		{"veth1234", true},
		{"bridge0", true},
		{"vmnet1", true},
		{"lo0", true},
		{"wg0", true},
		{"vnic0", true},
		{"en0", false},
		{"eth0", false},
		{"wlan0", false},
		{"Wi-Fi", false},
		{"Ethernet", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isVirtualInterface(tt.name))
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AA:BB:CC:DD:EE:FF", "MAC-AABBCCDDEEFF"},
		{"aa:bb:cc:dd:ee:ff", "MAC-AABBCCDDEEFF"},
		{"00-1A-2b-3C-4d-5E", "MAC-001A2B3C4D5E"},
		{"02:42:ac:11:00:02:ff:fe", "MAC-0242AC110002FFFE"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMAC(tt.in))
		})
	}
}

func TestPrimaryInterface(t *testing.T) {
	tests := []struct {
		name   string
		ifaces []Interface
		want   string
		found  bool
	}{
		{
			name: "first physical up interface wins",
			ifaces: []Interface{
				{Name: "lo", HardwareAddr: "", Up: true, Loopback: true},
				{Name: "docker0", HardwareAddr: "02:42:ac:11:00:02", Up: true},
				{Name: "eth0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: true},
				{Name: "eth1", HardwareAddr: "11:22:33:44:55:66", Up: true},
			},
			want:  "eth0",
			found: true,
		},
		{
			name: "tunnel enumerated first does not win",
			ifaces: []Interface{
				{Name: "utun0", HardwareAddr: "0a:00:27:00:00:00", Up: true},
				{Name: "en0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: true},
			},
			want:  "en0",
			found: true,
		},
		{
			name: "falls back to first usable interface",
			ifaces: []Interface{
				{Name: "docker0", HardwareAddr: "02:42:ac:11:00:02", Up: true},
				{Name: "eth0", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: false},
			},
			want:  "docker0",
			found: true,
		},
		{
			name: "all-zero and malformed addresses ignored",
			ifaces: []Interface{
				{Name: "eth0", HardwareAddr: "00:00:00:00:00:00", Up: true},
				{Name: "eth1", HardwareAddr: "not-a-mac", Up: true},
				{Name: "eth2", HardwareAddr: "aa:bb:cc:dd:ee:ff", Up: true},
			},
			want:  "eth2",
			found: true,
		},
		{
			name: "loopback only",
			ifaces: []Interface{
				{Name: "lo", HardwareAddr: "00:00:00:00:00:00", Up: true, Loopback: true},
			},
			found: false,
		},
		{
			name:  "no interfaces",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := primaryInterface(tt.ifaces)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestNetworkMACStrategy(t *testing.T) {
	tests := []struct {
		name   string
		lister *staticLister
		want   string
	}{
		{
			name:   "normalized MAC",
			lister: &staticLister{ifaces: []Interface{{Name: "en0", HardwareAddr: "AA:BB:CC:DD:EE:FF", Up: true}}},
			want:   "MAC-AABBCCDDEEFF",
		},
		{
			name:   "no interfaces yields sentinel",
			lister: &staticLister{},
			want:   SentinelID,
		},
		{
			name:   "enumeration error yields sentinel",
			lister: &staticLister{err: errors.New("permission denied")},
			want:   SentinelID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().WithInterfaceLister(tt.lister)

			got, err := networkMACStrategy{}.resolve(context.Background(), r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.lister.calls)
		})
	}
}
