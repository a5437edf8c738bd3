// Package report assembles the system summary printed by `hardwareid info`.
package report

import (
	"context"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/slashdevops/hardwareid"
)

// NotAvailable is shown for values that could not be read.
const NotAvailable = "N/A"

// Field is one labelled line of the report.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// HostInfoFunc returns static host information.
type HostInfoFunc func(ctx context.Context) (*host.InfoStat, error)

// CPUInfoFunc returns per-processor information.
type CPUInfoFunc func(ctx context.Context) ([]cpu.InfoStat, error)

// MemoryInfoFunc returns memory statistics.
type MemoryInfoFunc func(ctx context.Context) (*mem.VirtualMemoryStat, error)

// ResolverFunc returns a freshly configured resolver.
type ResolverFunc func() *hardwareid.Resolver

// Builder collects report fields. Nil fields fall back to the local host:
// gopsutil for host, CPU and memory data, hardwareid.New for the resolver
// and a FirmwareReader running real commands.
type Builder struct {
	HostInfo    HostInfoFunc
	CPUInfo     CPUInfoFunc
	MemoryInfo  MemoryInfoFunc
	Firmware    *FirmwareReader
	NewResolver ResolverFunc
}

// NewBuilder returns a Builder reading the local host.
func NewBuilder(newResolver ResolverFunc) *Builder {
	return &Builder{
		HostInfo:    host.InfoWithContext,
		CPUInfo:     cpu.InfoWithContext,
		MemoryInfo:  mem.VirtualMemoryWithContext,
		Firmware:    NewFirmwareReader(hardwareid.NewCommandExecutor(0)),
		NewResolver: newResolver,
	}
}

// Build returns the report fields in display order. Individual lookups that
// fail are reported as NotAvailable; Build itself does not fail.
func (b *Builder) Build(ctx context.Context) []Field {
	info := b.hostInfo(ctx)
	fw := b.firmware().Read(ctx, b.newResolver().Platform())

	return []Field{
		{"Operating System", orNA(info.OS)},
		{"Platform", orNA(strings.TrimSpace(info.Platform + " " + info.PlatformVersion))},
		{"Kernel Version", orNA(info.KernelVersion)},
		{"Architecture", orNA(info.KernelArch)},
		{"Hostname", orNA(info.Hostname)},
		{"Host ID", orNA(info.HostID)},
		{"Virtualization", orNA(strings.TrimSpace(info.VirtualizationSystem + " " + info.VirtualizationRole))},
		{"CPU", b.cpuModel(ctx)},
		{"Memory", b.totalMemory(ctx)},
		{"BIOS Serial", orNA(fw.BIOSSerial)},
		{"Board Manufacturer", orNA(fw.BoardVendor)},
		{"Board Model", orNA(fw.BoardModel)},
		{"Board Serial", orNA(fw.BoardSerial)},
		{"Disk Serial", orNA(strings.Join(fw.DiskSerials, ", "))},
		{"Platform UUID", b.resolveWith(ctx, hardwareid.PlatformProductUUID)},
		{"Primary MAC", b.resolveWith(ctx, hardwareid.PrimaryNetworkMAC)},
		{"Hardware ID", b.resolveWith(ctx)},
	}
}

func (b *Builder) hostInfo(ctx context.Context) *host.InfoStat {
	fn := b.HostInfo
	if fn == nil {
		fn = host.InfoWithContext
	}

	info, err := fn(ctx)
	if err != nil || info == nil {
		return &host.InfoStat{OS: runtime.GOOS, KernelArch: runtime.GOARCH}
	}

	return info
}

// cpuModel returns the model name of the first processor that reports one.
func (b *Builder) cpuModel(ctx context.Context) string {
	fn := b.CPUInfo
	if fn == nil {
		fn = cpu.InfoWithContext
	}

	infos, err := fn(ctx)
	if err != nil {
		return NotAvailable
	}

	for _, i := range infos {
		if name := strings.TrimSpace(i.ModelName); name != "" {
			return name
		}
	}

	return NotAvailable
}

// totalMemory returns installed physical memory in IEC units, e.g. "16 GiB".
func (b *Builder) totalMemory(ctx context.Context) string {
	fn := b.MemoryInfo
	if fn == nil {
		fn = mem.VirtualMemoryWithContext
	}

	vm, err := fn(ctx)
	if err != nil || vm == nil || vm.Total == 0 {
		return NotAvailable
	}

	return humanize.IBytes(vm.Total)
}

func (b *Builder) firmware() *FirmwareReader {
	if b.Firmware == nil {
		return NewFirmwareReader(hardwareid.NewCommandExecutor(0))
	}

	return b.Firmware
}

func (b *Builder) newResolver() *hardwareid.Resolver {
	if b.NewResolver == nil {
		return hardwareid.New()
	}

	return b.NewResolver()
}

// resolveWith resolves using only the given strategies, or the configured
// chain when none are given.
func (b *Builder) resolveWith(ctx context.Context, names ...hardwareid.StrategyName) string {
	r := b.newResolver()
	if len(names) > 0 {
		r.WithStrategies(names...)
	}

	id, err := r.ID(ctx)
	if err != nil {
		return NotAvailable
	}

	return id
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}

	return s
}
