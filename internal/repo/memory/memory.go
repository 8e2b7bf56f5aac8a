package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/repo"
)

type Store struct {
	mu      sync.RWMutex
	reports []*domain.Report
	byID    map[domain.ReportID]*domain.Report
}

func New() *Store {
	return &Store{
		reports: make([]*domain.Report, 0, 16),
		byID:    make(map[domain.ReportID]*domain.Report),
	}
}

// Save stores a copy; later changes to r do not leak into the store.
func (m *Store) Save(ctx context.Context, r *domain.Report) error {
	cp := clone(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byID[cp.ID]; ok {
		for i, x := range m.reports {
			if x == old {
				m.reports[i] = cp
			}
		}
	} else {
		m.reports = append(m.reports, cp)
	}
	m.byID[cp.ID] = cp
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Report
	for _, r := range m.reports {
		if latest == nil || !r.StartedAt.Before(latest.StartedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	return clone(latest), nil
}

func (m *Store) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return clone(r), nil
}

// List returns summaries newest first.
func (m *Store) List(ctx context.Context, limit int) ([]repo.Summary, error) {
	if limit <= 0 {
		limit = repo.DefaultListLimit
	}
	m.mu.RLock()
	all := make([]*domain.Report, len(m.reports))
	copy(all, m.reports)
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]repo.Summary, 0, len(all))
	for _, r := range all {
		out = append(out, repo.Summarize(r))
	}
	return out, nil
}

func clone(r *domain.Report) *domain.Report {
	cp := *r
	cp.Checks = make([]domain.CheckResult, len(r.Checks))
	copy(cp.Checks, r.Checks)
	for i := range cp.Checks {
		if r.Checks[i].Info != nil {
			cp.Checks[i].Info = append([]string(nil), r.Checks[i].Info...)
		}
	}
	return &cp
}
