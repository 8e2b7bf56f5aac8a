// Package runner executes checkers one after another on a single background
// goroutine and reports progress as a stream of immutable events.
package runner

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/checker"
	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/repo"
)

type EventKind int

const (
	Started EventKind = iota
	Completed
	Finished
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Completed:
		return "completed"
	default:
		return "finished"
	}
}

// Event is posted by the worker. Result is set on Completed, Report on
// Finished. The Report is a fresh value the worker never touches again.
type Event struct {
	Kind   EventKind
	Index  int
	Total  int
	Name   string
	Label  string
	Result domain.CheckResult
	Report *domain.Report
}

type Runner struct {
	Logger   *zap.Logger
	Checkers []checker.Checker
	// Store is optional; finished reports are saved to it when set.
	Store repo.ReportStore
	Host  string

	newID func() domain.ReportID
	now   func() time.Time
}

func New(logger *zap.Logger, checkers []checker.Checker, store repo.ReportStore) *Runner {
	host, _ := os.Hostname()
	return &Runner{
		Logger:   logger,
		Checkers: checkers,
		Store:    store,
		Host:     host,
		newID:    func() domain.ReportID { return domain.ReportID(uuid.NewString()) },
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the run and returns its event stream. The channel is
// buffered for every event of the run, so the worker never blocks on a slow
// or departed consumer; it is closed after the Finished event.
//
// Cancelling ctx stops the run after the in-flight checker returns. That
// checker's result is dropped and no further checker starts; the report
// holds only checks that completed before cancellation and is marked
// Partial.
func (r *Runner) Start(ctx context.Context) <-chan Event {
	total := len(r.Checkers)
	events := make(chan Event, 2*total+1)

	go func() {
		defer close(events)

		report := &domain.Report{
			ID:        r.newID(),
			Host:      r.Host,
			StartedAt: r.now(),
			Planned:   total,
			Checks:    make([]domain.CheckResult, 0, total),
		}
		r.Logger.Info("run_started", zap.String("report_id", string(report.ID)), zap.Int("planned", total))

		for i, c := range r.Checkers {
			if ctx.Err() != nil {
				break
			}
			events <- Event{Kind: Started, Index: i, Total: total, Name: c.Name(), Label: c.Label()}

			start := time.Now()
			res := c.Check(ctx)
			if ctx.Err() != nil {
				r.Logger.Info("check_interrupted", zap.String("check", c.Name()))
				break
			}
			if res.Name == "" {
				res.Name = c.Name()
			}
			if res.Label == "" {
				res.Label = c.Label()
			}
			if res.CheckedAt.IsZero() {
				res.CheckedAt = r.now()
			}
			report.Checks = append(report.Checks, res)

			r.Logger.Info("check_completed",
				zap.String("check", res.Name),
				zap.String("verdict", string(res.Verdict)),
				zap.String("detail", res.Detail),
				zap.Duration("took", time.Since(start)),
			)
			events <- Event{Kind: Completed, Index: i, Total: total, Name: res.Name, Label: res.Label, Result: res}
		}

		report.Partial = len(report.Checks) < total
		report.FinishedAt = r.now()
		r.persist(report)

		p, f, u := report.Counts()
		r.Logger.Info("run_finished",
			zap.String("report_id", string(report.ID)),
			zap.String("overall", string(report.Overall())),
			zap.Bool("partial", report.Partial),
			zap.Int("pass", p),
			zap.Int("fail", f),
			zap.Int("unknown", u),
		)
		events <- Event{Kind: Finished, Total: total, Report: report}
	}()

	return events
}

// persist saves a copy so the store and the event consumer never share
// the Checks slice. The store gets a context that survives cancellation of
// the run: a partial report is still worth keeping.
func (r *Runner) persist(report *domain.Report) {
	if r.Store == nil {
		return
	}
	cp := *report
	cp.Checks = append([]domain.CheckResult(nil), report.Checks...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Store.Save(ctx, &cp); err != nil {
		r.Logger.Warn("report_save_error", zap.String("report_id", string(report.ID)), zap.Error(err))
	}
}

// Run blocks until the run finishes and returns the report. onEvent, when
// non-nil, sees every event in order.
func (r *Runner) Run(ctx context.Context, onEvent func(Event)) *domain.Report {
	var report *domain.Report
	for ev := range r.Start(ctx) {
		if onEvent != nil {
			onEvent(ev)
		}
		if ev.Kind == Finished {
			report = ev.Report
		}
	}
	return report
}
