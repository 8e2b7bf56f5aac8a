//go:build !linux && !windows

package probe

import "context"

func installedClientVersion(ctx context.Context) (string, error) {
	return "", nil
}
