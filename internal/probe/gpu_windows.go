//go:build windows

package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/remoteready/internal/domain"
)

// GPUs lists display adapters from the display device class.
func (h *Host) GPUs(ctx context.Context) ([]GPU, error) {
	devs, err := classDevices(displayClass)
	if err != nil {
		return nil, err
	}
	var gpus []GPU
	for _, d := range devs {
		gpus = append(gpus, GPU{Name: d.DriverDesc, Driver: d.ProviderName, DriverVersion: d.DriverVersion})
	}
	if len(gpus) == 0 {
		return nil, fmt.Errorf("no display adapter registered: %w", domain.ErrUnavailable)
	}
	return gpus, nil
}
