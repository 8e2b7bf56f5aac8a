package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/domain"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history", "reports.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_EmptyLatest(t *testing.T) {
	r, err := openTemp(t).Latest(context.Background())
	if err != nil || r != nil {
		t.Fatalf("want nil,nil got %v,%v", r, err)
	}
}

func TestSQLiteStore_SaveLatestGetList(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	older := &domain.Report{ID: "a", StartedAt: base, FinishedAt: base.Add(time.Second), Planned: 1,
		Checks: []domain.CheckResult{{Name: "ram", Label: "RAM", Verdict: domain.VerdictPass, Detail: "8 GB ≥ 4 GB required"}}}
	newer := &domain.Report{ID: "b", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour), Planned: 2, Partial: true,
		Checks: []domain.CheckResult{{Name: "ram", Label: "RAM", Verdict: domain.VerdictPass, Detail: "8 GB ≥ 4 GB required"}}}

	for _, r := range []*domain.Report{older, newer} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save %s: %v", r.ID, err)
		}
	}

	latest, err := s.Latest(ctx)
	if err != nil || latest == nil || latest.ID != "b" {
		t.Fatalf("Latest: %+v %v", latest, err)
	}
	if !latest.Partial || latest.Overall() != domain.OverallIncomplete {
		t.Fatalf("partial flag lost: %+v", latest)
	}

	got, err := s.Get(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.Checks[0].Detail != "8 GB ≥ 4 GB required" || !got.StartedAt.Equal(base) {
		t.Fatalf("round trip: %+v", got)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].Overall != domain.OverallPass {
		t.Fatalf("List: %+v", list)
	}
}

func TestSQLiteStore_SaveTwiceUpdates(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	r := &domain.Report{ID: "x", StartedAt: time.Now().UTC(), Planned: 1}
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Checks = []domain.CheckResult{{Name: "cpu", Label: "CPU", Verdict: domain.VerdictFail, Detail: "1 cores < 2 cores required"}}
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List(ctx, 10)
	if len(list) != 1 || list[0].Fail != 1 {
		t.Fatalf("expected one updated row, got %+v", list)
	}
}
