//go:build windows

package probe

import "context"

// Webcams lists devices registered under the Camera and Image classes.
// The registry carries no frame sizes, so ResolutionKnown stays false.
func (h *Host) Webcams(ctx context.Context) ([]Webcam, error) {
	seen := map[string]bool{}
	var cams []Webcam
	for _, class := range []string{cameraClass, imageClass} {
		devs, err := classDevices(class)
		if err != nil {
			return nil, err
		}
		for _, d := range devs {
			if seen[d.DriverDesc] {
				continue
			}
			seen[d.DriverDesc] = true
			cams = append(cams, Webcam{Device: d.Key, Name: d.DriverDesc})
		}
	}
	return cams, nil
}
