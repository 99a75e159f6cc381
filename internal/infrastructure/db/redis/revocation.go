package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationCache is the Redis-backed token deny-list.
// Key format: revoked:<jti>; the TTL matches the token's remaining
// lifetime so tombstones vanish exactly when the token would have died
// anyway.
type RevocationCache struct {
	client *redis.Client
}

// NewRevocationCache creates a RevocationCache wrapping the given Redis
// client.
func NewRevocationCache(client *redis.Client) *RevocationCache {
	return &RevocationCache{client: client}
}

// Revoke writes a tombstone for jti expiring after ttl. A non-positive ttl
// is a no-op: the token is already expired and rejected by the codec.
func (c *RevocationCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a tombstone exists for jti. On transport
// failure the error is returned so callers can fail closed.
func (c *RevocationCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (c *RevocationCache) key(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}
