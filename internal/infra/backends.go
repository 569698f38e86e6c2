package infra

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/solo_wallet/internal/config"
)

// Backends holds the optional external connections. A nil field means the
// backend is not configured.
type Backends struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Open connects every backend configured in cfg. Outside development each
// configured backend must be reachable; in development a failed connection
// is logged and the backend is left unset.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Backends, error) {
	var b Backends

	if cfg.DatabaseURL != "" {
		db, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			if !cfg.IsDev() {
				return Backends{}, err
			}
			logger.Warn("postgres unavailable, continuing without outbox", slog.Any("error", err))
		} else {
			b.DB = db
		}
	}

	if cfg.RedisURL != "" {
		cache, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if !cfg.IsDev() {
				b.Close(logger)
				return Backends{}, err
			}
			logger.Warn("redis unavailable, continuing without idempotency", slog.Any("error", err))
		} else {
			b.Cache = cache
		}
	}

	return b, nil
}

// Close releases every open backend.
func (b Backends) Close(logger *slog.Logger) {
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	if b.DB != nil {
		b.DB.Close()
	}
}
