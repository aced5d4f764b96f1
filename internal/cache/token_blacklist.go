package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizly/internal/domain"

	"github.com/redis/go-redis/v9"
)

// BlacklistKeyPrefix namespaces revoked-token keys in Redis.
const BlacklistKeyPrefix = "auth:blacklist:"

// redisTokenBlacklist implements domain.TokenBlacklist with one Redis
// key per revoked token. The key's TTL matches the token's remaining
// lifetime, so Redis evicts entries exactly when the token would have
// expired on its own.
type redisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist creates a Redis-backed token blacklist.
func NewRedisTokenBlacklist(client *redis.Client) domain.TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

func blacklistKey(token string) string {
	return BlacklistKeyPrefix + token
}

// Blacklist marks a token as revoked for ttl. Tokens already past
// expiry (ttl <= 0) need no entry.
func (b *redisTokenBlacklist) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token has been revoked.
func (b *redisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := b.client.Get(ctx, blacklistKey(token)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}
