package domain

import (
	"fmt"
	"strings"
)

// Overall folds the checks into one verdict. Any failure wins; otherwise an
// indeterminate check, a partial run or an empty report is INCOMPLETE.
func (r Report) Overall() Overall {
	if len(r.Checks) == 0 {
		return OverallIncomplete
	}
	incomplete := r.Partial
	for _, c := range r.Checks {
		switch c.Verdict {
		case VerdictFail:
			return OverallFail
		case VerdictPass:
		default:
			incomplete = true
		}
	}
	if incomplete {
		return OverallIncomplete
	}
	return OverallPass
}

// Counts returns how many checks passed, failed and were indeterminate.
func (r Report) Counts() (pass, fail, unknown int) {
	for _, c := range r.Checks {
		switch c.Verdict {
		case VerdictPass:
			pass++
		case VerdictFail:
			fail++
		default:
			unknown++
		}
	}
	return pass, fail, unknown
}

// Line renders a single check the way it appears in the text report.
func (c CheckResult) Line() string {
	return fmt.Sprintf("%s: %s — %s", c.Label, c.Verdict.Tag(), c.Detail)
}

// Text renders the plain-text report used for clipboard copy and file export.
func (r Report) Text() string {
	var b strings.Builder
	for _, c := range r.Checks {
		b.WriteString(c.Line())
		b.WriteByte('\n')
		for _, info := range c.Info {
			b.WriteString("    ")
			b.WriteString(info)
			b.WriteByte('\n')
		}
	}
	if r.Partial {
		fmt.Fprintf(&b, "Partial run: %d of %d checks completed\n", len(r.Checks), r.Planned)
	}
	fmt.Fprintf(&b, "Overall: %s\n", r.Overall())

	var advice []string
	for _, c := range r.Checks {
		if c.Verdict == VerdictPass || c.Advice == "" {
			continue
		}
		advice = append(advice, "  • "+c.Advice)
	}
	if len(advice) > 0 {
		b.WriteString("To fix:\n")
		b.WriteString(strings.Join(advice, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}
