// Package postgres implements gomkit.RunStore using PostgreSQL.
//
// The Store accepts an externally-owned *pgxpool.Pool via constructor
// injection. The caller creates and closes the pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfellipe/gomkit"
)

// Store implements gomkit.RunStore backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ gomkit.RunStore = (*Store)(nil)

// New creates a Store on an existing pool. The pool remains owned by the
// caller; Close is a no-op here.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the runs table and its index. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		k INTEGER NOT NULL,
		status TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC)`)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// RecordRun appends one run row.
func (s *Store) RecordRun(ctx context.Context, run gomkit.Run) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, kind, k, status, row_count, dropped, detail, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Kind, run.K, run.Status, run.Rows, run.Dropped,
		run.Detail, run.DurationMs, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]gomkit.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, k, status, row_count, dropped, detail, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []gomkit.Run
	for rows.Next() {
		var r gomkit.Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.K, &r.Status, &r.Rows, &r.Dropped,
			&r.Detail, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close is a no-op; the pgx pool is owned by the caller.
func (s *Store) Close() error { return nil }
