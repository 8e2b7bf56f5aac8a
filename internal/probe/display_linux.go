//go:build linux

package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamed0406/remoteready/internal/domain"
)

var drmGlob = "/sys/class/drm/card*-*"

// Display returns the largest native mode among connected DRM outputs.
// The first line of an output's modes file is its preferred mode.
func (h *Host) Display(ctx context.Context) (Resolution, error) {
	outputs, err := filepath.Glob(drmGlob)
	if err != nil {
		return Resolution{}, fmt.Errorf("drm glob: %w", err)
	}
	var best Resolution
	for _, dir := range outputs {
		status, err := os.ReadFile(filepath.Join(dir, "status"))
		if err != nil || strings.TrimSpace(string(status)) != "connected" {
			continue
		}
		r, err := firstMode(filepath.Join(dir, "modes"))
		if err != nil {
			continue
		}
		if r.Pixels() > best.Pixels() {
			best = r
		}
	}
	if best.Pixels() == 0 {
		return Resolution{}, fmt.Errorf("no connected display output: %w", domain.ErrUnavailable)
	}
	return best, nil
}

func firstMode(path string) (Resolution, error) {
	f, err := os.Open(path)
	if err != nil {
		return Resolution{}, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return Resolution{}, fmt.Errorf("%s: no modes", path)
	}
	return ParseResolution(sc.Text())
}
