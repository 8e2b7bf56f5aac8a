//go:build !windows

package probe

import (
	"fmt"

	"github.com/hamed0406/remoteready/internal/domain"
)

func windowsBuild() (int, error) {
	return 0, fmt.Errorf("windows build: %w", domain.ErrUnavailable)
}
