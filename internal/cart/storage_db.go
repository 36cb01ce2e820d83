package cart

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStorage keeps the serialized blob in a single row per cart key.
type PostgresStorage struct {
	db  *sql.DB
	key string
}

func NewPostgresStorage(db *sql.DB, key string) *PostgresStorage {
	return &PostgresStorage{db: db, key: key}
}

// InitPostgres creates the carts table. Called once at startup.
func InitPostgres(ctx context.Context, db *sql.DB) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS carts (
				key        TEXT PRIMARY KEY,
				blob       JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`)
		return err
	})
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStorage) Load(ctx context.Context) ([]Line, error) {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT blob
			FROM carts
			WHERE key = $1
		`, s.key).Scan(&raw)
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeBlob(raw), nil
}

func (s *PostgresStorage) Save(ctx context.Context, lines []Line) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO carts (key, blob, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE
			SET blob = EXCLUDED.blob, updated_at = now()
		`, s.key, encodeBlob(lines))
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
