//go:build windows

package probe

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"

	"github.com/hamed0406/remoteready/internal/domain"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

func windowsBuild() (int, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, currentVersionKey, registry.QUERY_VALUE)
	if err != nil {
		return 0, classify("open "+currentVersionKey, err)
	}
	defer k.Close()

	s, _, err := k.GetStringValue("CurrentBuildNumber")
	if err != nil {
		return 0, classify("read CurrentBuildNumber", err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse build %q: %w", s, domain.ErrUnavailable)
	}
	return n, nil
}
