//go:build linux

package probe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var sysClassNet = "/sys/class/net"

// refineAdapter uses sysfs: only interfaces backed by a device are physical,
// and those with a wireless directory are Wi-Fi.
func refineAdapter(a *Adapter) {
	dir := filepath.Join(sysClassNet, a.Name)
	if !exists(dir) {
		return
	}
	if !exists(filepath.Join(dir, "device")) {
		a.Virtual = true
	}
	if exists(filepath.Join(dir, "wireless")) || exists(filepath.Join(dir, "phy80211")) {
		a.Wireless = true
	}
	if b, err := os.ReadFile(filepath.Join(dir, "speed")); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(b))); err == nil && n > 0 {
			a.SpeedMbps = n
		}
	}
}
