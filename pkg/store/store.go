// Package store keeps the history of verification runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cycloud0203/cvsd/pkg/verify"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    suite TEXT NOT NULL,
    total INTEGER NOT NULL,
    failures INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS mismatches (
    run_id TEXT NOT NULL REFERENCES runs(id),
    line INTEGER NOT NULL,
    op TEXT NOT NULL,
    key TEXT NOT NULL,
    input TEXT NOT NULL,
    expected TEXT NOT NULL,
    got TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mismatches_run ON mismatches (run_id, line);
`

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var ErrRunNotFound = errors.New("store: run not found")

// Run is one row of the runs table.
type Run struct {
	ID        uuid.UUID
	Suite     string
	Total     int
	Failures  int
	Duration  time.Duration
	CreatedAt time.Time
}

func (r Run) Passed() bool { return r.Failures == 0 }

type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000&_pragma=foreign_keys=on", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport stores r and its mismatches in one transaction.
func (s *Store) SaveReport(ctx context.Context, r *verify.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, suite, total, failures, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.Suite, r.Total, len(r.Mismatches), r.Duration.Milliseconds(),
		r.Started.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.RunID, err)
	}

	if len(r.Mismatches) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO mismatches (run_id, line, op, key, input, expected, got) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range r.Mismatches {
			// uint64 values above MaxInt64 do not fit an SQLite INTEGER
			_, err := stmt.ExecContext(ctx, r.RunID.String(), m.Line, string(m.Op),
				hex64(m.Key), hex64(m.Input), hex64(m.Expected), hex64(m.Got))
			if err != nil {
				return fmt.Errorf("failed to insert mismatch line %d: %w", m.Line, err)
			}
		}
	}
	return tx.Commit()
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return []Run{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, suite, total, failures, duration_ms, created_at FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			id, ts     string
			durationMS int64
		)
		if err := rows.Scan(&id, &r.Suite, &r.Total, &r.Failures, &durationMS, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", id, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt, _ = time.Parse(timeLayout, ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Mismatches returns the mismatches recorded for a run in line order.
func (s *Store) Mismatches(ctx context.Context, runID uuid.UUID) ([]verify.Mismatch, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID.String()).Scan(&n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT line, op, key, input, expected, got FROM mismatches WHERE run_id = ? ORDER BY line, rowid`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query mismatches: %w", err)
	}
	defer rows.Close()

	ms := []verify.Mismatch{}
	for rows.Next() {
		var (
			m                 verify.Mismatch
			op                string
			key, in, exp, got string
		)
		if err := rows.Scan(&m.Line, &op, &key, &in, &exp, &got); err != nil {
			return nil, fmt.Errorf("failed to scan mismatch: %w", err)
		}
		m.Op = verify.Op(op)
		for _, f := range []struct {
			dst *uint64
			src string
		}{{&m.Key, key}, {&m.Input, in}, {&m.Expected, exp}, {&m.Got, got}} {
			if *f.dst, err = vector.ParseHex64(f.src); err != nil {
				return nil, fmt.Errorf("line %d: %w", m.Line, err)
			}
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func hex64(v uint64) string { return fmt.Sprintf("%016X", v) }
