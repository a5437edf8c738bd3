package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/slashdevops/hardwareid"
)

// oemPlaceholder is what many firmwares leave in unset SMBIOS strings.
const oemPlaceholder = "To be filled by O.E.M."

// Firmware holds board-level details read from the OS. Empty fields were
// not available.
type Firmware struct {
	BIOSSerial  string
	BoardVendor string
	BoardModel  string
	BoardSerial string
	DiskSerials []string
}

// FirmwareReader collects Firmware for a platform. Commands run through
// Executor; Linux sysfs paths are resolved under Root.
type FirmwareReader struct {
	Executor hardwareid.CommandExecutor
	Root     string
}

// NewFirmwareReader returns a reader for the live system.
func NewFirmwareReader(executor hardwareid.CommandExecutor) *FirmwareReader {
	return &FirmwareReader{Executor: executor, Root: "/"}
}

// Read returns what could be collected. Missing values are left empty.
func (f *FirmwareReader) Read(ctx context.Context, platform string) Firmware {
	switch platform {
	case "windows":
		return f.readWindows(ctx)
	case "darwin":
		return f.readDarwin(ctx)
	case "linux":
		return f.readLinux(ctx)
	default:
		return Firmware{}
	}
}

func (f *FirmwareReader) run(ctx context.Context, name string, args ...string) (string, error) {
	if f.Executor == nil {
		return "", errors.New("no command executor")
	}

	return f.Executor.Execute(ctx, name, args...)
}

func (f *FirmwareReader) readWindows(ctx context.Context) Firmware {
	var fw Firmware

	if out, err := f.run(ctx, "wmic", "bios", "get", "SerialNumber", "/value"); err == nil {
		fw.BIOSSerial = first(wmicValues(out, "SerialNumber"))
	}

	if out, err := f.run(ctx, "wmic", "baseboard", "get", "Manufacturer,Product,SerialNumber", "/value"); err == nil {
		fw.BoardVendor = first(wmicValues(out, "Manufacturer"))
		fw.BoardModel = first(wmicValues(out, "Product"))
		fw.BoardSerial = first(wmicValues(out, "SerialNumber"))
	}

	if out, err := f.run(ctx, "wmic", "diskdrive", "get", "SerialNumber", "/value"); err == nil {
		fw.DiskSerials = dedupe(wmicValues(out, "SerialNumber"))
	}

	return fw
}

// wmicValues returns every usable value of key in `wmic ... /value` output,
// which has one "Key=Value" pair per line.
func wmicValues(output, key string) []string {
	prefix := key + "="

	var values []string
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if v := strings.TrimSpace(strings.TrimPrefix(line, prefix)); usable(v) {
			values = append(values, v)
		}
	}

	return values
}

// ioregPlatform is the subset of an IOPlatformExpertDevice node the report
// reads. manufacturer and model are NUL-terminated data blobs.
type ioregPlatform struct {
	SerialNumber string `plist:"IOPlatformSerialNumber"`
	Manufacturer []byte `plist:"manufacturer"`
	Model        []byte `plist:"model"`
}

func (f *FirmwareReader) readDarwin(ctx context.Context) Firmware {
	out, err := f.run(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice", "-a")
	if err != nil {
		return Firmware{}
	}

	var nodes []ioregPlatform
	if _, err := plist.Unmarshal([]byte(out), &nodes); err != nil || len(nodes) == 0 {
		return Firmware{}
	}

	n := nodes[0]

	return Firmware{
		BIOSSerial:  clean(n.SerialNumber),
		BoardVendor: clean(string(n.Manufacturer)),
		BoardModel:  clean(string(n.Model)),
	}
}

func (f *FirmwareReader) readLinux(ctx context.Context) Firmware {
	return Firmware{
		BIOSSerial:  f.readFirstValid(dmiLocations("product_serial")),
		BoardVendor: f.readFirstValid(dmiLocations("board_vendor")),
		BoardModel:  f.readFirstValid(dmiLocations("board_name")),
		BoardSerial: f.readFirstValid(dmiLocations("board_serial")),
		DiskSerials: f.linuxDiskSerials(ctx),
	}
}

func dmiLocations(name string) []string {
	return []string{
		filepath.Join("sys", "class", "dmi", "id", name),
		filepath.Join("sys", "devices", "virtual", "dmi", "id", name),
	}
}

// readFirstValid returns the first usable value among locations, relative
// to Root. Most serial files are root-only; unreadable files are skipped.
func (f *FirmwareReader) readFirstValid(locations []string) string {
	for _, loc := range locations {
		data, err := os.ReadFile(filepath.Join(f.root(), loc))
		if err != nil {
			continue
		}
		if v := clean(string(data)); v != "" {
			return v
		}
	}

	return ""
}

// linuxDiskSerials merges `lsblk` output with /sys/block serial files,
// skipping loop devices and duplicates.
func (f *FirmwareReader) linuxDiskSerials(ctx context.Context) []string {
	var serials []string

	if out, err := f.run(ctx, "lsblk", "-d", "-n", "-o", "SERIAL"); err == nil {
		for line := range strings.SplitSeq(out, "\n") {
			if v := clean(line); v != "" {
				serials = append(serials, v)
			}
		}
	}

	blockDir := filepath.Join(f.root(), "sys", "block")
	if entries, err := os.ReadDir(blockDir); err == nil {
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), "loop") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(blockDir, e.Name(), "device", "serial"))
			if err != nil {
				continue
			}
			if v := clean(string(data)); v != "" {
				serials = append(serials, v)
			}
		}
	}

	return dedupe(serials)
}

func (f *FirmwareReader) root() string {
	if f.Root == "" {
		return "/"
	}

	return f.Root
}

// clean trims whitespace and NUL padding and drops placeholders.
func clean(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if !usable(s) {
		return ""
	}

	return s
}

func usable(s string) bool {
	return s != "" && !strings.EqualFold(s, oemPlaceholder)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))

	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
