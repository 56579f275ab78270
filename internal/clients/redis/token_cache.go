package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "idtoken:"

// TokenCache stores verified identities keyed by a token digest.
type TokenCache struct {
	client goredis.UniversalClient
}

func NewTokenCache(client goredis.UniversalClient) *TokenCache {
	return &TokenCache{client: client}
}

// Get returns ("", false, nil) on a miss.
func (c *TokenCache) Get(ctx context.Context, digest string) (string, bool, error) {
	val, err := c.client.Get(ctx, tokenKeyPrefix+digest).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *TokenCache) Set(ctx context.Context, digest string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, tokenKeyPrefix+digest, value, ttl).Err()
}
