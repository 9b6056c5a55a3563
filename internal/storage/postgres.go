package storage

import (
	"context"
	"database/sql"
	"time"
)

const (
	pgPingTimeout  = 1 * time.Second
	pgQueryTimeout = 3 * time.Second
)

// PostgresStore keeps collections in a single key/document table:
//
//	CREATE TABLE IF NOT EXISTS collections (
//	    key  TEXT PRIMARY KEY,
//	    doc  JSONB NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pgPingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := withTimeout(ctx, pgQueryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT doc FROM collections WHERE key = $1
		`, key).Scan(&data)
	})
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) error {
	return withTimeout(ctx, pgQueryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO collections (key, doc)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc
		`, key, data)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
