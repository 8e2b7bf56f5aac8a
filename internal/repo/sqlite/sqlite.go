// Package sqlite keeps report history in a local file so the standalone
// binary can show earlier runs without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/repo"
)

var _ repo.ReportStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
  id          TEXT PRIMARY KEY,
  host        TEXT NOT NULL DEFAULT '',
  started_at  INTEGER NOT NULL,
  finished_at INTEGER NOT NULL,
  overall     TEXT NOT NULL,
  partial     INTEGER NOT NULL,
  body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_started_at ON reports(started_at DESC);`

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctxPing, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(ctx context.Context, r *domain.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports(id, host, started_at, finished_at, overall, partial, body)
		 VALUES(?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   finished_at=excluded.finished_at,
		   overall=excluded.overall,
		   partial=excluded.partial,
		   body=excluded.body`,
		string(r.ID), r.Host, r.StartedAt.UnixNano(), r.FinishedAt.UnixNano(),
		string(r.Overall()), r.Partial, string(body),
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
	return s.one(ctx, `SELECT body FROM reports WHERE id=?`, string(id))
}

func (s *Store) one(ctx context.Context, q string, args ...any) (*domain.Report, error) {
	var body string
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	var r domain.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]repo.Summary, error) {
	if limit <= 0 {
		limit = repo.DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM reports ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []repo.Summary
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var r domain.Report
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		out = append(out, repo.Summarize(&r))
	}
	return out, rows.Err()
}
