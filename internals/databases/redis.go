package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cleanops_backend/internals/configs"
)

// NewRedis returns nil, nil when REDIS_ADDR is unset; the cache is optional.
func NewRedis(ctx context.Context, cfg *configs.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}
