// Package tui is the interactive front end. The model only reads events
// posted by the runner; it never touches the worker's state.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/runner"
)

// Starter is satisfied by *runner.Runner.
type Starter interface {
	Start(ctx context.Context) <-chan runner.Event
}

var copyToClipboard = clipboard.WriteAll

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	unkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	msgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boxStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

type eventMsg runner.Event

// runClosedMsg arrives when the event channel of a run is drained.
type runClosedMsg struct{}

type model struct {
	starter Starter
	outPath string

	events  <-chan runner.Event
	cancel  context.CancelFunc
	running bool

	spinner spinner.Model
	current string
	total   int
	results []domain.CheckResult
	report  *domain.Report

	message     string
	messageTime time.Time
	width       int
}

func newModel(s Starter, outPath string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle
	return model{starter: s, outPath: outPath, spinner: sp}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func waitForEvent(ch <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return runClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m model) startRun() (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.events = m.starter.Start(ctx)
	m.running = true
	m.results = nil
	m.report = nil
	m.current = ""
	m.total = 0
	return m, waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "r", "enter":
			if m.running {
				return m, nil
			}
			return m.startRun()
		case "c":
			return m.copyReport(), nil
		case "s":
			return m.saveReport(), nil
		}
	case eventMsg:
		ev := runner.Event(msg)
		switch ev.Kind {
		case runner.Started:
			m.current = ev.Label
			m.total = ev.Total
		case runner.Completed:
			m.results = append(m.results, ev.Result)
		case runner.Finished:
			m.report = ev.Report
			m.running = false
			m.current = ""
		}
		return m, waitForEvent(m.events)
	case runClosedMsg:
		m.running = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) flash(s string) model {
	m.message = s
	m.messageTime = time.Now()
	return m
}

func (m model) copyReport() model {
	if m.report == nil {
		return m.flash("Nothing to copy yet")
	}
	if err := copyToClipboard(m.report.Text()); err != nil {
		return m.flash("Copy failed: " + err.Error())
	}
	return m.flash("Report copied to clipboard")
}

func (m model) saveReport() model {
	if m.report == nil {
		return m.flash("Nothing to save yet")
	}
	path := m.outPath
	if path == "" {
		path = fmt.Sprintf("readycheck_%s.txt", m.report.StartedAt.Local().Format("20060102_150405"))
	}
	if err := os.WriteFile(path, []byte(m.report.Text()), 0o644); err != nil {
		return m.flash("Error saving report: " + err.Error())
	}
	return m.flash("Report saved to " + path)
}

func tag(v domain.Verdict) string {
	switch v {
	case domain.VerdictPass:
		return passStyle.Render("PASS")
	case domain.VerdictFail:
		return failStyle.Render("FAIL")
	default:
		return unkStyle.Render("UNKNOWN")
	}
}

func overallTag(o domain.Overall) string {
	switch o {
	case domain.OverallPass:
		return passStyle.Render(string(o))
	case domain.OverallFail:
		return failStyle.Render(string(o))
	default:
		return unkStyle.Render(string(o))
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Remote work readiness check") + "\n\n")

	if m.events == nil {
		b.WriteString("Checks internet speed, CPU, Ethernet, Citrix compatibility, RAM,\n")
		b.WriteString("display, free storage, microphone and webcam.\n\n")
		b.WriteString(dimStyle.Render("Close video calls and downloads before starting; the speed test takes about 20 seconds.") + "\n")
	}

	var body strings.Builder
	for _, r := range m.results {
		fmt.Fprintf(&body, "%s: %s — %s\n", r.Label, tag(r.Verdict), r.Detail)
		for _, info := range r.Info {
			body.WriteString(dimStyle.Render("    "+info) + "\n")
		}
	}
	if m.running && m.current != "" {
		fmt.Fprintf(&body, "%s Checking %s (%d/%d)\n", m.spinner.View(), m.current, len(m.results)+1, m.total)
	}
	if m.report != nil {
		body.WriteString("\n")
		if m.report.Partial {
			fmt.Fprintf(&body, "Partial run: %d of %d checks completed\n", len(m.report.Checks), m.report.Planned)
		}
		body.WriteString("Overall: " + overallTag(m.report.Overall()) + "\n")
		var advice []string
		for _, c := range m.report.Checks {
			if c.Verdict != domain.VerdictPass && c.Advice != "" {
				advice = append(advice, "  • "+c.Advice)
			}
		}
		if len(advice) > 0 {
			body.WriteString("\nTo fix:\n" + strings.Join(advice, "\n") + "\n")
		}
	}
	if body.Len() > 0 {
		b.WriteString(boxStyle.Render(strings.TrimRight(body.String(), "\n")) + "\n")
	}

	if m.message != "" && time.Since(m.messageTime) < 3*time.Second {
		b.WriteString("\n" + msgStyle.Render(m.message) + "\n")
	}

	help := "\n  r: run • q: quit"
	if m.running {
		help = "\n  q: stop and quit"
	} else if m.report != nil {
		help = "\n  r: run again • c: copy report • s: save report • q: quit"
	}
	b.WriteString(dimStyle.Render(help) + "\n")
	return b.String()
}

// recorder sits between the runner and the model. It remembers the last
// finished report so one is still available after the UI has gone away,
// and stops forwarding once quit is closed.
type recorder struct {
	Starter
	quit chan struct{}

	mu   sync.Mutex
	last *domain.Report
	done chan struct{}
}

func (r *recorder) Start(ctx context.Context) <-chan runner.Event {
	in := r.Starter.Start(ctx)
	out := make(chan runner.Event)
	done := make(chan struct{})
	r.mu.Lock()
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		defer close(out)
		for ev := range in {
			if ev.Kind == runner.Finished {
				r.mu.Lock()
				r.last = ev.Report
				r.mu.Unlock()
			}
			select {
			case out <- ev:
			case <-r.quit:
			}
		}
	}()
	return out
}

// wait blocks until the latest run has posted its final event and returns
// that run's report.
func (r *recorder) wait() *domain.Report {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Run shows the interactive UI until the user quits. Quitting mid-run
// cancels it; the worker finishes the in-flight check and Run returns the
// partial report. The report is nil when no run was started.
func Run(s Starter, outPath string) (*domain.Report, error) {
	rec := &recorder{Starter: s, quit: make(chan struct{})}
	p := tea.NewProgram(newModel(rec, outPath), tea.WithAltScreen())
	_, err := p.Run()
	close(rec.quit)
	if err != nil {
		return nil, err
	}
	return rec.wait(), nil
}
