package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/cosmosim/internal/space"
)

// Run records one generation invocation.
type Run struct {
	ID          string
	RootID      string
	Kind        space.Kind
	Seed        int64
	Depth       int
	MaxChildren int
	NodeCount   int
	Duration    time.Duration
	CreatedAt   time.Time
}

func (s *Store) PutRun(ctx context.Context, r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
    (id, root_id, kind, seed, depth, max_children, node_count, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RootID, string(r.Kind), r.Seed, r.Depth, r.MaxChildren, r.NodeCount,
		r.Duration.Milliseconds(), r.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, root_id, kind, seed, depth, max_children,
    node_count, duration_ms, created_at FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			kind      string
			durMs     int64
			createdMs int64
		)
		if err := rows.Scan(&r.ID, &r.RootID, &kind, &r.Seed, &r.Depth, &r.MaxChildren,
			&r.NodeCount, &durMs, &createdMs); err != nil {
			return nil, err
		}
		r.Kind = space.Kind(kind)
		r.Duration = time.Duration(durMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
