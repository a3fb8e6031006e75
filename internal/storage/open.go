package storage

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ecodott-storefront/pkg/config"
	"github.com/angelmondragon/ecodott-storefront/pkg/db"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/migrate"
	"github.com/angelmondragon/ecodott-storefront/pkg/redis"
)

// Open builds the backend selected by cfg.Store.Backend. SQL backends are migrated
// before use when auto-migration is enabled.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	ctx = logg.WithField(ctx, "store_backend", cfg.Store.Backend)

	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logg.Warn(ctx, "memory store selected; state is lost on restart")
		return NewMemoryStore(), nil

	case config.StoreBackendSQLite, config.StoreBackendPostgres:
		client, err := db.New(ctx, cfg.Store.Backend, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeAutoRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		return NewSQLStore(client), nil

	case config.StoreBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
