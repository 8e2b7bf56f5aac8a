//go:build !linux && !windows

package probe

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hamed0406/remoteready/internal/domain"
)

func (h *Host) Display(ctx context.Context) (Resolution, error) {
	return Resolution{}, fmt.Errorf("display probe on %s: %w", runtime.GOOS, domain.ErrUnavailable)
}

func (h *Host) GPUs(ctx context.Context) ([]GPU, error) {
	return nil, fmt.Errorf("graphics adapter probe on %s: %w", runtime.GOOS, domain.ErrUnavailable)
}
