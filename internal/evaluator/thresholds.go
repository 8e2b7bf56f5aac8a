package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Threshold names.
const (
	CPUCores      = "cpu_cores"
	RAMGB         = "ram_gb"
	DisplayWidth  = "display_width"
	DisplayHeight = "display_height"
	FreeStorageGB = "free_storage_gb"
	InternetMbps  = "internet_mbps"
	WebcamPixels  = "webcam_pixels"
)

var units = map[string]string{
	CPUCores:      "cores",
	RAMGB:         "GB",
	DisplayWidth:  "px",
	DisplayHeight: "px",
	FreeStorageGB: "GB",
	InternetMbps:  "Mbps",
	WebcamPixels:  "px",
}

var ErrUnknownCheck = errors.New("unknown check")

// Thresholds is the immutable minimum-value table. Build it with NewThresholds.
type Thresholds struct {
	min map[string]float64
}

// DefaultThresholds mirrors the published remote-work requirements.
func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		CPUCores:      2,
		RAMGB:         4,
		DisplayWidth:  1600,
		DisplayHeight: 900,
		FreeStorageGB: 10,
		InternetMbps:  75,
		WebcamPixels:  1280 * 720,
	}
}

// NewThresholds copies in and validates it. Every known name must be present,
// no unknown name may appear and no value may be negative.
func NewThresholds(in map[string]float64) (Thresholds, error) {
	var err error
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := units[name]; !ok {
			err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownCheck, name))
			continue
		}
		if in[name] < 0 {
			err = multierr.Append(err, fmt.Errorf("threshold %q is negative: %v", name, in[name]))
		}
	}
	required := make([]string, 0, len(units))
	for name := range units {
		required = append(required, name)
	}
	sort.Strings(required)
	for _, name := range required {
		if _, ok := in[name]; !ok {
			err = multierr.Append(err, fmt.Errorf("threshold %q is missing", name))
		}
	}
	if err != nil {
		return Thresholds{}, err
	}

	min := make(map[string]float64, len(in))
	for k, v := range in {
		min[k] = v
	}
	return Thresholds{min: min}, nil
}

// Min returns the threshold for name.
func (t Thresholds) Min(name string) (float64, error) {
	v, ok := t.min[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return v, nil
}

// Map returns a copy of the table.
func (t Thresholds) Map() map[string]float64 {
	out := make(map[string]float64, len(t.min))
	for k, v := range t.min {
		out[k] = v
	}
	return out
}

func Unit(name string) string { return units[name] }
