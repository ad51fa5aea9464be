package lock

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gstbilling/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("invoice.lock",
	fx.Provide(New),
)

// New returns a Redis-backed locker when Redis is configured, otherwise an
// in-process one.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Locker {
	log = log.Named("invoice.lock")
	wait := time.Duration(cfg.Invoice.LockWaitSeconds) * time.Second

	if !cfg.Redis.Enabled() {
		log.Info("using in-process invoice lock")
		return NewMemoryLocker(wait)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	log.Info("using redis invoice lock", zap.String("addr", cfg.Redis.Addr))
	ttl := time.Duration(cfg.Invoice.LockTTLSeconds) * time.Second
	return NewRedisLocker(client, ttl, wait, log)
}
