package domain

import "errors"

// Probes wrap one of these so the evaluator can tell "no device" from
// "no access" without inspecting platform-specific errors.
var (
	ErrUnavailable = errors.New("unavailable")
	ErrPermission  = errors.New("permission denied")
)
