package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// ClientVersion returns the installed Citrix Workspace version in the
// release-number scheme used by the compatibility matrix (e.g. 2311.1.13).
// An empty string with a nil error means the client is not installed.
func (h *Host) ClientVersion(ctx context.Context) (string, error) {
	if h.ClientVersionFile != "" {
		return readVersionFile(h.ClientVersionFile)
	}
	v, err := installedClientVersion(ctx)
	if err != nil || v == "" {
		return "", err
	}
	return NormalizeClientVersion(v), nil
}

func readVersionFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", classify("read "+path, err)
	}
	line := strings.TrimSpace(strings.SplitN(string(b), "\n", 2)[0])
	return NormalizeClientVersion(line), nil
}

// NormalizeClientVersion turns the product file version "23.11.1.13" into
// the release number "2311.1.13". Versions already in release form pass
// through unchanged.
func NormalizeClientVersion(v string) string {
	v = strings.TrimSpace(v)
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return v
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || len(parts[0]) != 2 || year < 18 || month < 1 || month > 12 {
		return v
	}
	rel := fmt.Sprintf("%02d%02d", year, month)
	return strings.Join(append([]string{rel}, parts[2:]...), ".")
}
