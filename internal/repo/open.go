package repo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tasklist/internal/config"
)

// Open builds the slot backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Storage) (Slot, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileSlot(cfg.Dir, cfg.Key)
	case "sqlite":
		return NewSQLiteSlot(ctx, filepath.Join(cfg.Dir, "tasklist.db"), cfg.Key)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		slot, err := NewPostgresSlot(ctx, pool, cfg.Key)
		if err != nil {
			pool.Close()
			return nil, err
		}
		slot.onClose = pool.Close
		return slot, nil
	case "redis":
		return NewRedisSlot(ctx, cfg.RedisURL, cfg.Key)
	case "memory":
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
