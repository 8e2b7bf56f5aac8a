//go:build windows

package probe

import (
	"errors"
	"sort"

	"golang.org/x/sys/windows/registry"
)

const (
	displayClass = `SYSTEM\CurrentControlSet\Control\Class\{4d36e968-e325-11ce-bfc1-08002be10318}`
	cameraClass  = `SYSTEM\CurrentControlSet\Control\Class\{ca3e7ab9-b4c3-4ae6-8251-579ef933890f}`
	imageClass   = `SYSTEM\CurrentControlSet\Control\Class\{6bdd1fc6-810f-11d0-bec7-08002be10318}`
)

// classDevice is one driver instance under a device-setup class key.
type classDevice struct {
	Key           string
	DriverDesc    string
	DriverVersion string
	ProviderName  string
}

// classDevices reads the numbered instance subkeys of a device class.
// A missing class key means no device of that class was ever installed.
func classDevices(class string) ([]classDevice, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, class, registry.ENUMERATE_SUB_KEYS)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("open "+class, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, classify("enumerate "+class, err)
	}
	sort.Strings(names)

	var out []classDevice
	for _, name := range names {
		if !instanceKey(name) {
			continue
		}
		sk, err := registry.OpenKey(k, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		d := classDevice{Key: class + `\` + name}
		d.DriverDesc, _, _ = sk.GetStringValue("DriverDesc")
		d.DriverVersion, _, _ = sk.GetStringValue("DriverVersion")
		d.ProviderName, _, _ = sk.GetStringValue("ProviderName")
		sk.Close()
		if d.DriverDesc != "" {
			out = append(out, d)
		}
	}
	return out, nil
}
