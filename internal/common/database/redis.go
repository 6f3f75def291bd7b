package database

import (
	"context"
	"fmt"
	"time"

	"vocalcart/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client and namespaces every key.
type RedisClient struct {
	Client *redis.Client
	prefix string
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisClient{Client: rdb, prefix: cfg.KeyPrefix}, nil
}

// WrapRedis adopts an existing client, used by tests with miniredis or redismock.
func WrapRedis(client *redis.Client, prefix string) *RedisClient {
	return &RedisClient{Client: client, prefix: prefix}
}

// Key returns the namespaced form of parts joined with ':'.
func (c *RedisClient) Key(parts ...string) string {
	key := c.prefix
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += p
	}
	return key
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
