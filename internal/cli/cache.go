package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aretw0/strips/internal/config"
	"github.com/aretw0/strips/pkg/adapters/file"
	"github.com/aretw0/strips/pkg/adapters/memory"
	redisadapter "github.com/aretw0/strips/pkg/adapters/redis"
	"github.com/aretw0/strips/pkg/persistence/middleware"
	"github.com/aretw0/strips/pkg/plancache"
)

// NewCache builds the plan cache selected by cfg. It returns nil for the
// "none" backend. The close function releases backend connections.
func NewCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (*plancache.Manager, func() error, error) {
	noop := func() error { return nil }
	seal, err := encryption(cfg.Encryption)
	if err != nil {
		return nil, noop, err
	}
	opts := []plancache.Option{
		plancache.WithLogger(logger),
		plancache.WithLockTTL(cfg.LockTTL),
	}

	switch cfg.Backend {
	case config.CacheNone, "":
		return nil, noop, nil
	case config.CacheMemory:
		return plancache.NewManager(middleware.Chain(memory.NewStore(), seal...), opts...), noop, nil
	case config.CacheFile:
		return plancache.NewManager(middleware.Chain(file.NewStore(cfg.File.Dir), seal...), opts...), noop, nil
	case config.CacheRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redisadapter.DefaultPrefix
		}
		storeOpts := []redisadapter.Option{redisadapter.WithPrefix(prefix)}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redisadapter.WithTTL(cfg.Redis.TTL))
		}
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Plan cache connected", "backend", "redis", "addr", cfg.Redis.Addr)

		opts = append(opts, plancache.WithLocker(redisadapter.NewLocker(store.Client(), prefix)))
		return plancache.NewManager(middleware.Chain(store, seal...), opts...), store.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown cache backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// encryption returns the store middlewares for cfg: none without a key.
func encryption(cfg config.EncryptionConfig) ([]middleware.Middleware, error) {
	if cfg.Key == "" {
		return nil, nil
	}
	decode := func(name, s string) ([]byte, error) {
		k, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not base64: %v", config.ErrInvalidConfig, name, err)
		}
		return k, nil
	}

	var mc middleware.EncryptionConfig
	var err error
	if mc.ActiveKey, err = decode("cache.encryption.key", cfg.Key); err != nil {
		return nil, err
	}
	for i, s := range cfg.FallbackKeys {
		k, err := decode(fmt.Sprintf("cache.encryption.fallback_keys[%d]", i), s)
		if err != nil {
			return nil, err
		}
		mc.FallbackKeys = append(mc.FallbackKeys, k)
	}
	mw, err := middleware.NewEncryptionMiddleware(mc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return []middleware.Middleware{mw}, nil
}
