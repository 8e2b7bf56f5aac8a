//go:build windows

package probe

import (
	"context"
	"errors"
	"io/fs"

	"golang.org/x/sys/windows/registry"
)

var citrixKeys = []string{
	`SOFTWARE\WOW6432Node\Citrix\PluginPackages\XenAppSuite\ICA_Client`,
	`SOFTWARE\Citrix\PluginPackages\XenAppSuite\ICA_Client`,
}

func installedClientVersion(ctx context.Context) (string, error) {
	for _, path := range citrixKeys {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", classify("open "+path, err)
		}
		v, _, err := k.GetStringValue("Version")
		k.Close()
		if err == nil && v != "" {
			return v, nil
		}
	}
	return "", nil
}
