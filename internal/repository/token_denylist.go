package repository

import (
	"context"
	"time"

	"github.com/spec-kit/identity-service/internal/persistence"
)

const denylistKeyPrefix = "auth:refresh:denied:"

// TokenDenylist tracks revoked refresh token IDs until their natural expiry.
type TokenDenylist interface {
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenDenylist struct {
	store *persistence.Redis
}

// NewTokenDenylist returns a Redis-backed implementation.
func NewTokenDenylist(store *persistence.Redis) TokenDenylist {
	return &redisTokenDenylist{store: store}
}

func (d *redisTokenDenylist) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already past expiry; verification rejects it on its own.
		return nil
	}
	return d.store.Client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err()
}

func (d *redisTokenDenylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.store.Client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
