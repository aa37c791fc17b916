package store

import (
	"context"
	"fmt"

	"lg/nutrivision-go-api/internal/config"
)

// Open connects the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		return NewPostgresStore(ctx, cfg.DBURL)
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg.RedisURL, "")
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.SQLitePath, cfg.Env == config.Development)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
