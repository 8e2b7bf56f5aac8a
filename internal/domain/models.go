package domain

import "time"

type ReportID string

// Verdict is the tri-state outcome of one check.
type Verdict string

const (
	VerdictPass          Verdict = "pass"
	VerdictFail          Verdict = "fail"
	VerdictIndeterminate Verdict = "indeterminate"
)

// Tag is the upper-case marker used in the text report.
func (v Verdict) Tag() string {
	switch v {
	case VerdictPass:
		return "PASS"
	case VerdictFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// CheckResult is the comparison of one measurement against its requirement.
// Info carries extra lines (model names, secondary readings) that do not
// affect the verdict.
type CheckResult struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Value     any       `json:"value,omitempty"`
	Verdict   Verdict   `json:"verdict"`
	Detail    string    `json:"detail"`
	Advice    string    `json:"advice,omitempty"`
	Info      []string  `json:"info,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func (c CheckResult) Passed() bool { return c.Verdict == VerdictPass }

type Overall string

const (
	OverallPass       Overall = "PASS"
	OverallFail       Overall = "FAIL"
	OverallIncomplete Overall = "INCOMPLETE"
)

type Report struct {
	ID         ReportID      `json:"id"`
	Host       string        `json:"host,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Planned    int           `json:"planned"`
	Partial    bool          `json:"partial"`
	Checks     []CheckResult `json:"checks"`
}
