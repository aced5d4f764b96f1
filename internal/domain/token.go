package domain

import (
	"context"
	"time"
)

// TokenBlacklist records tokens that were explicitly invalidated
// before their natural expiry. Entries are write-once; existence is
// the only read. The store evicts entries once the token would have
// expired anyway, so it does not grow without bound.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
