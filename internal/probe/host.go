package probe

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/hamed0406/remoteready/internal/domain"
)

// Host reads facts about the local machine.
type Host struct {
	// SystemVolume is the path whose filesystem is checked for free space.
	SystemVolume string
	// ClientVersionFile overrides where the installed client version is read.
	ClientVersionFile string
	// CommandTimeout bounds helper tools such as v4l2-ctl.
	CommandTimeout time.Duration
}

func NewHost(systemVolume, clientVersionFile string, commandTimeout time.Duration) *Host {
	if systemVolume == "" {
		systemVolume = DefaultSystemVolume()
	}
	if commandTimeout <= 0 {
		commandTimeout = 5 * time.Second
	}
	return &Host{
		SystemVolume:      systemVolume,
		ClientVersionFile: clientVersionFile,
		CommandTimeout:    commandTimeout,
	}
}

func DefaultSystemVolume() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

func (h *Host) CPU(ctx context.Context) (CPUInfo, error) {
	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return CPUInfo{}, classify("cpu counts", err)
	}
	if physical <= 0 {
		return CPUInfo{}, fmt.Errorf("cpu counts: no physical cores reported: %w", domain.ErrUnavailable)
	}
	logical, _ := cpu.CountsWithContext(ctx, true)
	info := CPUInfo{PhysicalCores: physical, LogicalCores: logical}
	if stats, err := cpu.InfoWithContext(ctx); err == nil && len(stats) > 0 {
		info.Model = strings.TrimSpace(stats[0].ModelName)
	}
	return info, nil
}

func (h *Host) MemoryBytes(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, classify("virtual memory", err)
	}
	return vm.Total, nil
}

func (h *Host) FreeStorageBytes(ctx context.Context) (uint64, error) {
	u, err := disk.UsageWithContext(ctx, h.SystemVolume)
	if err != nil {
		return 0, classify("disk usage "+h.SystemVolume, err)
	}
	return u.Free, nil
}

var virtualPrefixes = []string{
	"docker", "veth", "br-", "virbr", "vmnet", "vboxnet", "tun", "tap",
	"wg", "zt", "utun", "bridge", "awdl", "llw", "gif", "stf", "anpi",
}

var skipWords = []string{"bluetooth", "loopback", "pseudo", "virtual", "vpn", "hyper-v", "vethernet"}

var wirelessWords = []string{"wireless", "wi-fi", "wifi", "wlan", "802.11", "беспроводная"}

// Adapters lists network interfaces with wired/wireless/virtual classification.
func (h *Host) Adapters(ctx context.Context) ([]Adapter, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, classify("network interfaces", err)
	}
	out := make([]Adapter, 0, len(ifaces))
	for _, i := range ifaces {
		a := Adapter{Name: i.Name, HardwareAddr: i.HardwareAddr}
		for _, f := range i.Flags {
			switch f {
			case "up":
				a.Up = true
			case "loopback":
				a.Virtual = true
			}
		}
		lower := strings.ToLower(i.Name)
		for _, p := range virtualPrefixes {
			if strings.HasPrefix(lower, p) {
				a.Virtual = true
			}
		}
		for _, w := range skipWords {
			if strings.Contains(lower, w) {
				a.Virtual = true
			}
		}
		for _, w := range wirelessWords {
			if strings.Contains(lower, w) {
				a.Wireless = true
			}
		}
		if a.HardwareAddr == "" {
			a.Virtual = true
		}
		refineAdapter(&a)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// OS identifies the OS family and build used by the compatibility matrix.
func (h *Host) OS(ctx context.Context) (OSInfo, error) {
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return OSInfo{}, classify("host info", err)
	}
	info := OSInfo{
		Name:    strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion),
		Version: hi.KernelVersion,
	}
	switch hi.OS {
	case "linux":
		info.Family = "Linux"
		info.Build, err = kernelBuild(hi.KernelVersion)
	case "darwin":
		info.Family = "macOS"
		info.Build, err = kernelBuild(hi.PlatformVersion)
	case "windows":
		info.Build, err = windowsBuild()
		info.Family = windowsFamily(info.Build)
	default:
		return info, fmt.Errorf("os %q: %w", hi.OS, domain.ErrUnavailable)
	}
	if err != nil {
		return info, err
	}
	return info, nil
}

// windowsFamily follows Microsoft's numbering: Windows 11 starts at build 22000.
func windowsFamily(build int) string {
	if build >= 22000 {
		return "Windows11"
	}
	return "Windows10"
}

// kernelBuild folds "6.8.0-45-generic" into 6008 (major*1000 + minor).
func kernelBuild(v string) (int, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, "-+ "); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("parse build from %q: %w", v, domain.ErrUnavailable)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse build from %q: %w", v, domain.ErrUnavailable)
	}
	minor := 0
	if len(parts) > 1 {
		if minor, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("parse build from %q: %w", v, domain.ErrUnavailable)
		}
	}
	return major*1000 + minor, nil
}
