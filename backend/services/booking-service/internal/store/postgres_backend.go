package store

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresBackend keeps one row per bucket in record_buckets.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend returns a backend over db.
func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the bucket table when missing.
func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS record_buckets (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := p.db.ExecContext(ctx, query)
	return err
}

// Load implements Backend.
func (p *PostgresBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `
		SELECT payload
		FROM record_buckets
		WHERE key = $1
	`
	var payload []byte
	if err := p.db.QueryRowContext(ctx, query, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Save implements Backend.
func (p *PostgresBackend) Save(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT INTO record_buckets (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`
	_, err := p.db.ExecContext(ctx, query, key, string(data))
	return err
}
