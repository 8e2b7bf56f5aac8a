//go:build windows

package probe

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sys/windows/registry"
)

const (
	captureEndpoints = `SOFTWARE\Microsoft\Windows\CurrentVersion\MMDevices\Audio\Capture`
	// PKEY_Device_DeviceDesc and PKEY_DeviceInterface_FriendlyName.
	endpointDescProp   = "{a45c254e-df1c-4efd-8020-67d146a850e0},2"
	endpointDeviceProp = "{b3f8fa53-0004-438e-9003-51a46e139bfc},6"

	deviceStateActive = 1
)

// Microphones lists active capture endpoints. Disabled, unplugged and
// missing endpoints are skipped.
func (h *Host) Microphones(ctx context.Context) ([]Microphone, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, captureEndpoints, registry.ENUMERATE_SUB_KEYS)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("open "+captureEndpoints, err)
	}
	defer k.Close()

	ids, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, classify("enumerate capture endpoints", err)
	}
	sort.Strings(ids)

	var mics []Microphone
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ek, err := registry.OpenKey(k, id, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		state, _, err := ek.GetIntegerValue("DeviceState")
		ek.Close()
		if err != nil || state != deviceStateActive {
			continue
		}
		mics = append(mics, Microphone{Device: id, Name: endpointName(k, id)})
	}
	return mics, nil
}

// endpointName reads "Microphone (Realtek Audio)" style names from the
// endpoint's property store.
func endpointName(parent registry.Key, id string) string {
	pk, err := registry.OpenKey(parent, id+`\Properties`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer pk.Close()
	desc, _, _ := pk.GetStringValue(endpointDescProp)
	dev, _, _ := pk.GetStringValue(endpointDeviceProp)
	switch {
	case desc != "" && dev != "":
		return desc + " (" + dev + ")"
	case desc != "":
		return desc
	}
	return dev
}
