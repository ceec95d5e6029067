package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache keeps the active session token per user under "token:<userID>".
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, "token:"+userID, token, ttl).Err()
}

// GetToken returns the cached session token, or "" when the user has
// signed out (or the entry expired).
func (c *TokenCache) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := c.client.Get(ctx, "token:"+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *TokenCache) InvalidateToken(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "token:"+userID).Err()
}

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
