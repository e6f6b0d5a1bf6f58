// Package postgres stores snapshots in a PostgreSQL table through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dyeflow_snapshots (
    name       TEXT PRIMARY KEY,
    data       BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Store implements ports.SnapshotStore on a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Connect opens a pool for url and makes sure the table exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	s := New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// CreateSchema creates the snapshot table if it does not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: create schema: %w", err)
	}
	return nil
}

// DropSchema drops the snapshot table.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS dyeflow_snapshots`)
	return err
}

// Save upserts the snapshot.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO dyeflow_snapshots (name, data) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}
	return nil
}

// Load fetches a snapshot by name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM dyeflow_snapshots WHERE name = $1`, name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}
	return data, nil
}

// Delete removes a snapshot. No error if it does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM dyeflow_snapshots WHERE name = $1`, name); err != nil {
		return fmt.Errorf("postgres: delete snapshot: %w", err)
	}
	return nil
}

// List returns all snapshot names, ordered by name.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM dyeflow_snapshots ORDER BY name COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list snapshots: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: scan snapshots: %w", err)
	}
	return names, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}
