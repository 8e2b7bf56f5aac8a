package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/repo"
)

var _ repo.ReportStore = (*Store)(nil)

const Schema = `
CREATE TABLE IF NOT EXISTS reports (
  id          TEXT PRIMARY KEY,
  host        TEXT NOT NULL DEFAULT '',
  started_at  TIMESTAMPTZ NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL,
  overall     TEXT NOT NULL,
  partial     BOOLEAN NOT NULL,
  body        JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_started_at ON reports (started_at DESC);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	s := &Store{pool: pool, log: log}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Save(ctx context.Context, r *domain.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, host, started_at, finished_at, overall, partial, body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE
		   SET finished_at = EXCLUDED.finished_at,
		       overall     = EXCLUDED.overall,
		       partial     = EXCLUDED.partial,
		       body        = EXCLUDED.body`,
		string(r.ID), r.Host, r.StartedAt, r.FinishedAt, string(r.Overall()), r.Partial, body,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	s.log.Debug("report_saved", zap.String("report_id", string(r.ID)))
	return nil
}

func (s *Store) Latest(ctx context.Context) (*domain.Report, error) {
	return s.one(ctx, `SELECT body FROM reports ORDER BY started_at DESC, id DESC LIMIT 1`)
}

func (s *Store) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	return s.one(ctx, `SELECT body FROM reports WHERE id = $1`, string(id))
}

func (s *Store) one(ctx context.Context, q string, args ...any) (*domain.Report, error) {
	var body []byte
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	var r domain.Report
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]repo.Summary, error) {
	if limit <= 0 {
		limit = repo.DefaultListLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT body
		   FROM reports
		  ORDER BY started_at DESC, id DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []repo.Summary
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var r domain.Report
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		out = append(out, repo.Summarize(&r))
	}
	return out, rows.Err()
}
