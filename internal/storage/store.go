// Package storage persists generated hierarchies in SQLite and serves them
// back to the generator (existing-children enumeration) and to position
// propagation (node lookup by id).
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/space"
	"github.com/san-kum/cosmosim/internal/storage/migrations"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const nodeColumns = `id, parent_id, kind, name, seed, pos_x, pos_y, pos_z, vel_x, vel_y, vel_z,
    mass, shape, orbit, temperature, precession`

// PutNodes inserts or replaces nodes in one transaction. In-memory
// children are not followed; pass every node to store.
func (s *Store) PutNodes(ctx context.Context, nodes []*space.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (`+nodeColumns+`, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    parent_id = excluded.parent_id, kind = excluded.kind, name = excluded.name,
    seed = excluded.seed, pos_x = excluded.pos_x, pos_y = excluded.pos_y, pos_z = excluded.pos_z,
    vel_x = excluded.vel_x, vel_y = excluded.vel_y, vel_z = excluded.vel_z, mass = excluded.mass,
    shape = excluded.shape, orbit = excluded.orbit, temperature = excluded.temperature,
    precession = excluded.precession`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, n := range nodes {
		args, err := nodeArgs(n)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx, append(args, now)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// PutTree stores root and all of its in-memory descendants.
func (s *Store) PutTree(ctx context.Context, root *space.Node) error {
	var nodes []*space.Node
	root.Walk(func(n *space.Node, _ int) bool {
		nodes = append(nodes, n)
		return true
	})
	return s.PutNodes(ctx, nodes)
}

// Node fetches one node without its children.
func (s *Store) Node(ctx context.Context, id string) (*space.Node, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", space.ErrNotFound, id)
	}
	return n, err
}

// Children lists the stored children of parentID in insertion order.
func (s *Store) Children(ctx context.Context, parentID string) ([]*space.Node, error) {
	return s.query(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE parent_id = ? ORDER BY rowid`, parentID)
}

// Roots lists nodes without a parent, oldest first.
func (s *Store) Roots(ctx context.Context) ([]*space.Node, error) {
	return s.query(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE parent_id = '' ORDER BY rowid`)
}

// Tree loads the node id with its descendants down to depth levels
// attached as in-memory children.
func (s *Store) Tree(ctx context.Context, id string, depth int) (*space.Node, error) {
	root, err := s.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, root, depth); err != nil {
		return nil, err
	}
	return root, nil
}

func (s *Store) loadChildren(ctx context.Context, n *space.Node, depth int) error {
	if depth <= 0 {
		return nil
	}
	children, err := s.Children(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Children = children
	for _, c := range children {
		if err := s.loadChildren(ctx, c, depth-1); err != nil {
			return err
		}
	}
	return nil
}

// Counts returns the number of stored nodes per kind.
func (s *Store) Counts(ctx context.Context) (map[space.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(1) FROM nodes GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count nodes: %w", err)
	}
	defer rows.Close()

	counts := make(map[space.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[space.Kind(kind)] = n
	}
	return counts, rows.Err()
}

// DeleteTree removes id and every stored descendant.
func (s *Store) DeleteTree(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `WITH RECURSIVE subtree(id) AS (
    SELECT id FROM nodes WHERE id = ?
    UNION ALL
    SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
)
DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)`, id)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*space.Node, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*space.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func nodeArgs(n *space.Node) ([]any, error) {
	spec, err := space.SpecOf(n.Shape)
	if err != nil {
		return nil, err
	}
	shape, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode shape of %s: %w", n.ID, err)
	}

	var orb sql.NullString
	if n.Orbit != nil {
		b, err := json.Marshal(n.Orbit.Record(n.Precession))
		if err != nil {
			return nil, fmt.Errorf("encode orbit of %s: %w", n.ID, err)
		}
		orb = sql.NullString{String: string(b), Valid: true}
	}

	var temp sql.NullFloat64
	if n.Temperature != nil {
		temp = sql.NullFloat64{Float64: *n.Temperature, Valid: true}
	}

	return []any{
		n.ID, n.ParentID, string(n.Kind), n.Name, n.Seed,
		n.Position.X, n.Position.Y, n.Position.Z,
		n.Velocity.X, n.Velocity.Y, n.Velocity.Z,
		n.Mass, string(shape), orb, temp, n.Precession,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*space.Node, error) {
	var (
		n     space.Node
		kind  string
		shape string
		orb   sql.NullString
		temp  sql.NullFloat64
		pos   r3.Vec
		vel   r3.Vec
	)
	if err := row.Scan(&n.ID, &n.ParentID, &kind, &n.Name, &n.Seed,
		&pos.X, &pos.Y, &pos.Z, &vel.X, &vel.Y, &vel.Z,
		&n.Mass, &shape, &orb, &temp, &n.Precession); err != nil {
		return nil, err
	}
	n.Kind = space.Kind(kind)
	n.Position = pos
	n.Velocity = vel

	var spec space.ShapeSpec
	if err := json.Unmarshal([]byte(shape), &spec); err != nil {
		return nil, fmt.Errorf("decode shape of %s: %w", n.ID, err)
	}
	s, err := spec.Shape()
	if err != nil {
		return nil, fmt.Errorf("decode shape of %s: %w", n.ID, err)
	}
	n.Shape = s

	if orb.Valid {
		var rec orbit.Record
		if err := json.Unmarshal([]byte(orb.String), &rec); err != nil {
			return nil, fmt.Errorf("decode orbit of %s: %w", n.ID, err)
		}
		o, err := orbit.Rebuild(rec)
		if err != nil {
			return nil, fmt.Errorf("rebuild orbit of %s: %w", n.ID, err)
		}
		n.Orbit = &o
	}
	if temp.Valid {
		t := temp.Float64
		n.Temperature = &t
	}
	return &n, nil
}
