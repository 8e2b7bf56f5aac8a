//go:build windows

package probe

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/hamed0406/remoteready/internal/domain"
)

const (
	smCxScreen = 0
	smCyScreen = 1
)

var procGetSystemMetrics = windows.NewLazySystemDLL("user32.dll").NewProc("GetSystemMetrics")

// Display returns the primary monitor size in pixels.
func (h *Host) Display(ctx context.Context) (Resolution, error) {
	if err := procGetSystemMetrics.Find(); err != nil {
		return Resolution{}, fmt.Errorf("GetSystemMetrics: %v: %w", err, domain.ErrUnavailable)
	}
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	hgt, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || hgt == 0 {
		return Resolution{}, fmt.Errorf("GetSystemMetrics returned 0: %w", domain.ErrUnavailable)
	}
	return Resolution{Width: int(w), Height: int(hgt)}, nil
}
