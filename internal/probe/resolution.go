package probe

import (
	"fmt"
	"strings"
)

// ParseResolution reads "1920x1080" and tolerates suffixes such as
// "1920x1080i" or "1920x1080@60".
func ParseResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(s)
	var r Resolution
	if _, err := fmt.Sscanf(s, "%dx%d", &r.Width, &r.Height); err != nil {
		return Resolution{}, fmt.Errorf("parse resolution %q: %w", s, err)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Resolution{}, fmt.Errorf("parse resolution %q: non-positive size", s)
	}
	return r, nil
}
