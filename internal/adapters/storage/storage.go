// Package storage elige el adapter del slot según la configuración.
package storage

import (
	"context"
	"fmt"

	"lost-pets/internal/adapters/storage/memory"
	pg "lost-pets/internal/adapters/storage/postgres"
	"lost-pets/internal/adapters/storage/sqlite"
	"lost-pets/internal/config"
	"lost-pets/internal/platform/logger"
	"lost-pets/internal/ports/kv"
)

// Open devuelve el kv.Store configurado y una función para cerrarlo.
func Open(ctx context.Context, cfg config.Storage, log logger.Logger) (kv.Store, func() error, error) {
	if log == nil {
		log = logger.NewNop()
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory, "":
		log.Debug("using in-memory storage", map[string]any{"quota_bytes": cfg.QuotaBytes})
		return memory.NewKV(memory.WithQuota(cfg.QuotaBytes)), noop, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store := sqlite.NewKV(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlite schema: %w", err)
		}
		log.Debug("using sqlite storage", map[string]any{"path": cfg.SQLitePath})
		return store, db.Close, nil

	case config.BackendPostgres:
		db, err := pg.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store := pg.NewKV(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		log.Debug("using postgres storage", nil)
		return store, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
