//go:build !linux && !windows

package probe

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hamed0406/remoteready/internal/domain"
)

func (h *Host) Microphones(ctx context.Context) ([]Microphone, error) {
	return nil, fmt.Errorf("microphone probe on %s: %w", runtime.GOOS, domain.ErrUnavailable)
}

func (h *Host) Webcams(ctx context.Context) ([]Webcam, error) {
	return nil, fmt.Errorf("webcam probe on %s: %w", runtime.GOOS, domain.ErrUnavailable)
}
