package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresSlot struct { // Слот в таблице kv
	pool    *pgxpool.Pool
	key     string
	onClose func()
}

// NewPostgresSlot uses an existing pool; the caller owns its lifetime.
func NewPostgresSlot(ctx context.Context, pool *pgxpool.Pool, key string) (*PostgresSlot, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, mapError(err)
	}
	return &PostgresSlot{pool: pool, key: key}, nil
}

func (s *PostgresSlot) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, s.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrorNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return []byte(value), nil
}

func (s *PostgresSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.key, string(data))
	return mapError(err)
}

func (s *PostgresSlot) Close() error {
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// mapError turns invalid text encoding (22021) into ErrCorrupt so the
// store can tell bad data from a broken connection.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22021" {
		return errors.Join(ErrCorrupt, err)
	}
	return err
}
