package repo

import (
	"context"
	"time"

	"github.com/hamed0406/remoteready/internal/domain"
)

// ReportStore keeps finished reports. Latest and Get return nil, nil when
// nothing matches.
type ReportStore interface {
	Save(ctx context.Context, r *domain.Report) error
	Latest(ctx context.Context) (*domain.Report, error)
	Get(ctx context.Context, id domain.ReportID) (*domain.Report, error)
	List(ctx context.Context, limit int) ([]Summary, error)
}

// Summary is one row of the report history.
type Summary struct {
	ID         domain.ReportID `json:"id"`
	Host       string          `json:"host,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Overall    domain.Overall  `json:"overall"`
	Partial    bool            `json:"partial"`
	Pass       int             `json:"pass"`
	Fail       int             `json:"fail"`
	Unknown    int             `json:"unknown"`
}

func Summarize(r *domain.Report) Summary {
	p, f, u := r.Counts()
	return Summary{
		ID:         r.ID,
		Host:       r.Host,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Overall:    r.Overall(),
		Partial:    r.Partial,
		Pass:       p,
		Fail:       f,
		Unknown:    u,
	}
}

const DefaultListLimit = 20
