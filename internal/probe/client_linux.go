//go:build linux

package probe

import (
	"context"
	"path/filepath"
	"sort"
)

var citrixVersionGlob = "/opt/Citrix/ICAClient/pkginf/Ver.core.*"

func installedClientVersion(ctx context.Context) (string, error) {
	matches, err := filepath.Glob(citrixVersionGlob)
	if err != nil || len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return readVersionFile(matches[0])
}
