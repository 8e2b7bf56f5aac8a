//go:build linux

package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hamed0406/remoteready/internal/domain"
)

var (
	gpuGlob   = "/sys/class/drm/card[0-9]*"
	sysModule = "/sys/module"
)

var pciVendors = map[string]string{
	"0x8086": "Intel",
	"0x1002": "AMD",
	"0x10de": "NVIDIA",
	"0x1af4": "Virtio",
	"0x15ad": "VMware",
	"0x1234": "QEMU",
	"0x1414": "Microsoft",
}

// GPUs lists DRM cards with their PCI ids and kernel driver. Connector
// entries (card0-eDP-1) are skipped. i915 ships no module version, so
// DriverVersion may be empty.
func (h *Host) GPUs(ctx context.Context) ([]GPU, error) {
	cards, err := filepath.Glob(gpuGlob)
	if err != nil {
		return nil, fmt.Errorf("drm glob: %w", err)
	}
	sort.Strings(cards)

	var gpus []GPU
	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.Contains(filepath.Base(card), "-") {
			continue
		}
		dev := filepath.Join(card, "device")
		vendor := readTrim(filepath.Join(dev, "vendor"))
		if vendor == "" {
			continue
		}
		g := GPU{Name: gpuName(vendor, readTrim(filepath.Join(dev, "device")))}
		if link, err := os.Readlink(filepath.Join(dev, "driver")); err == nil {
			g.Driver = filepath.Base(link)
			g.DriverVersion = readTrim(filepath.Join(sysModule, g.Driver, "version"))
		}
		gpus = append(gpus, g)
	}
	if len(gpus) == 0 {
		return nil, fmt.Errorf("no graphics adapter in sysfs: %w", domain.ErrUnavailable)
	}
	return gpus, nil
}

func gpuName(vendor, device string) string {
	name, ok := pciVendors[strings.ToLower(vendor)]
	if !ok {
		name = "Unknown vendor"
	}
	return fmt.Sprintf("%s graphics [%s:%s]", name, strings.TrimPrefix(vendor, "0x"), strings.TrimPrefix(device, "0x"))
}
