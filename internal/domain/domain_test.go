package domain

import (
	"strings"
	"testing"
)

func check(name string, v Verdict) CheckResult {
	return CheckResult{Name: name, Label: name, Verdict: v, Detail: "d"}
}

func TestReport_Overall(t *testing.T) {
	cases := []struct {
		name    string
		checks  []CheckResult
		partial bool
		want    Overall
	}{
		{"all pass", []CheckResult{check("a", VerdictPass), check("b", VerdictPass)}, false, OverallPass},
		{"one fail", []CheckResult{check("a", VerdictPass), check("b", VerdictFail)}, false, OverallFail},
		{"fail beats unknown", []CheckResult{check("a", VerdictIndeterminate), check("b", VerdictFail)}, false, OverallFail},
		{"unknown never passes", []CheckResult{check("a", VerdictPass), check("b", VerdictIndeterminate)}, false, OverallIncomplete},
		{"partial all pass", []CheckResult{check("a", VerdictPass)}, true, OverallIncomplete},
		{"empty", nil, false, OverallIncomplete},
	}
	for _, c := range cases {
		r := Report{Checks: c.checks, Partial: c.partial}
		if got := r.Overall(); got != c.want {
			t.Fatalf("%s: Overall()=%s want %s", c.name, got, c.want)
		}
	}
}

func TestReport_TextFormat(t *testing.T) {
	r := Report{
		Planned: 3,
		Partial: true,
		Checks: []CheckResult{
			{Label: "RAM", Verdict: VerdictPass, Detail: "4 GB ≥ 4 GB required"},
			{Label: "Microphone", Verdict: VerdictIndeterminate, Detail: "device busy", Advice: "A working microphone is required"},
		},
	}
	txt := r.Text()
	lines := strings.Split(strings.TrimSpace(txt), "\n")
	if lines[0] != "RAM: PASS — 4 GB ≥ 4 GB required" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "Microphone: UNKNOWN — device busy" {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if !strings.Contains(txt, "Partial run: 2 of 3 checks completed") {
		t.Fatalf("partial marker missing:\n%s", txt)
	}
	if !strings.Contains(txt, "Overall: INCOMPLETE") {
		t.Fatalf("overall line missing:\n%s", txt)
	}
	if !strings.Contains(txt, "• A working microphone is required") {
		t.Fatalf("advice missing:\n%s", txt)
	}
}

func TestReport_Counts(t *testing.T) {
	r := Report{Checks: []CheckResult{check("a", VerdictPass), check("b", VerdictFail), check("c", VerdictIndeterminate), check("d", VerdictPass)}}
	p, f, u := r.Counts()
	if p != 2 || f != 1 || u != 1 {
		t.Fatalf("counts=%d/%d/%d", p, f, u)
	}
}
