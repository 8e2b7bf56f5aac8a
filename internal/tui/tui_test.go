package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/runner"
)

type scripted struct {
	events []runner.Event
	ctx    context.Context
}

func (s *scripted) Start(ctx context.Context) <-chan runner.Event {
	s.ctx = ctx
	ch := make(chan runner.Event, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch
}

func sampleEvents() []runner.Event {
	ram := domain.CheckResult{Name: "ram", Label: "RAM", Verdict: domain.VerdictPass, Detail: "8 GB ≥ 4 GB required"}
	cam := domain.CheckResult{Name: "webcam", Label: "Webcam", Verdict: domain.VerdictFail, Detail: "no webcam detected", Advice: "Connect a webcam"}
	rep := &domain.Report{ID: "r", StartedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), Planned: 2, Checks: []domain.CheckResult{ram, cam}}
	return []runner.Event{
		{Kind: runner.Started, Index: 0, Total: 2, Label: "RAM"},
		{Kind: runner.Completed, Index: 0, Total: 2, Result: ram},
		{Kind: runner.Started, Index: 1, Total: 2, Label: "Webcam"},
		{Kind: runner.Completed, Index: 1, Total: 2, Result: cam},
		{Kind: runner.Finished, Total: 2, Report: rep},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds the model until the run's channel is drained.
func drive(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
		if _, ok := msg.(runClosedMsg); ok {
			return m
		}
	}
	return m
}

func TestModel_RunShowsResultsAndOverall(t *testing.T) {
	s := &scripted{events: sampleEvents()}
	m := newModel(s, "")

	next, cmd := m.Update(key("r"))
	m = next.(model)
	if !m.running {
		t.Fatalf("run should be in progress")
	}
	m = drive(t, m, cmd)

	if m.running || m.report == nil || len(m.results) != 2 {
		t.Fatalf("state after run: running=%v report=%v results=%d", m.running, m.report, len(m.results))
	}
	view := m.View()
	for _, want := range []string{"RAM", "8 GB ≥ 4 GB required", "Overall:", "FAIL", "Connect a webcam", "c: copy report"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_QuitCancelsRun(t *testing.T) {
	s := &scripted{events: sampleEvents()[:1]}
	m := newModel(s, "")
	next, _ := m.Update(key("r"))
	m = next.(model)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if s.ctx.Err() == nil {
		t.Fatalf("run context should be cancelled on quit")
	}
}

func TestModel_RerunIgnoredWhileRunning(t *testing.T) {
	s := &scripted{events: sampleEvents()[:1]}
	m := newModel(s, "")
	next, _ := m.Update(key("r"))
	m = next.(model)
	first := m.events

	next, cmd := m.Update(key("r"))
	m = next.(model)
	if cmd != nil || m.events != first {
		t.Fatalf("second run must not start while one is running")
	}
}

func TestModel_CopyAndSave(t *testing.T) {
	var copied string
	old := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = old })

	out := filepath.Join(t.TempDir(), "report.txt")
	m := newModel(&scripted{events: sampleEvents()}, out)

	m = m.copyReport()
	if m.message != "Nothing to copy yet" {
		t.Fatalf("message=%q", m.message)
	}

	next, cmd := m.Update(key("r"))
	m = drive(t, next.(model), cmd)

	next, _ = m.Update(key("c"))
	m = next.(model)
	if !strings.Contains(copied, "Webcam: FAIL — no webcam detected") || !strings.Contains(copied, "Overall: FAIL") {
		t.Fatalf("clipboard text:\n%s", copied)
	}

	next, _ = m.Update(key("s"))
	m = next.(model)
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("saved file: %v (message %q)", err, m.message)
	}
	if string(b) != m.report.Text() {
		t.Fatalf("saved text differs from report text")
	}
}

func TestModel_CopyFailureIsReported(t *testing.T) {
	old := copyToClipboard
	copyToClipboard = func(string) error { return errors.New("no clipboard utility") }
	t.Cleanup(func() { copyToClipboard = old })

	m := newModel(&scripted{}, "")
	m.report = &domain.Report{}
	m = m.copyReport()
	if !strings.HasPrefix(m.message, "Copy failed") {
		t.Fatalf("message=%q", m.message)
	}
}

func TestRecorder_KeepsReportAfterQuit(t *testing.T) {
	rec := &recorder{Starter: &scripted{events: sampleEvents()}, quit: make(chan struct{})}
	ch := rec.Start(context.Background())
	<-ch // the UI reads one event, then goes away
	close(rec.quit)

	rep := rec.wait()
	if rep == nil || rep.ID != "r" {
		t.Fatalf("recorder lost the final report: %+v", rep)
	}
}
