// Package persistence stores cart snapshots outside the process so a session
// keeps its cart across restarts.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vocalcart/internal/cart"
	"vocalcart/internal/common/database"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps one JSON snapshot per session under <prefix>cart:<id>.
type RedisCartStore struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCartStore builds a store. ttl 0 keeps carts until deleted.
func NewRedisCartStore(rc *database.RedisClient, ttl time.Duration, log logger.Logger) *RedisCartStore {
	return &RedisCartStore{
		redis:  rc,
		ttl:    ttl,
		logger: logger.ForComponent(log, "persistence.redis"),
	}
}

func (s *RedisCartStore) key(sessionID string) string {
	return s.redis.Key("cart", sessionID)
}

func (s *RedisCartStore) SaveCart(ctx context.Context, sessionID string, snap cart.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return apperrors.NewCartPersistenceFailedError("save", err)
	}
	if err := s.redis.Client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return apperrors.NewCartPersistenceFailedError("save", err)
	}
	s.logger.Debug("cart saved", map[string]interface{}{
		"sessionId": sessionID,
		"lines":     len(snap.Items),
	})
	return nil
}

// LoadCart returns nil, nil when the session has no stored cart.
func (s *RedisCartStore) LoadCart(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	val, err := s.redis.Client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewCartPersistenceFailedError("load", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, apperrors.NewCartPersistenceFailedError("load", err)
	}
	return &snap, nil
}

func (s *RedisCartStore) DeleteCart(ctx context.Context, sessionID string) error {
	if err := s.redis.Client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return apperrors.NewCartPersistenceFailedError("delete", err)
	}
	return nil
}
