package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// BlacklistCache is a fast lookup in front of the token_blacklist table.
type BlacklistCache interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

type redisBlacklist struct {
	rdb *redis.Client
}

// NewRedisBlacklist returns nil when rdb is nil, which disables the cache.
func NewRedisBlacklist(rdb *redis.Client) BlacklistCache {
	if rdb == nil {
		return nil
	}
	return &redisBlacklist{rdb: rdb}
}

func blacklistKey(hash string) string { return "auth:blacklist:" + hash }

func (r *redisBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, blacklistKey(tokenHash), 1, ttl).Err()
}

func (r *redisBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	err := r.rdb.Get(ctx, blacklistKey(tokenHash)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
