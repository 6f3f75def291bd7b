package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"vocalcart/internal/common/database"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedSource keeps non-empty search results in redis for ttl. Cache
// failures are logged and the wrapped source is queried as if there were no
// cache.
type CachedSource struct {
	source Source
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(src Source, rc *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		source: src,
		redis:  rc,
		ttl:    ttl,
		logger: logger.ForComponent(log, "catalog.cache"),
	}
}

func (c *CachedSource) Name() string { return c.source.Name() }

func (c *CachedSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	key := c.cacheKey(q)

	val, err := c.redis.Client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var products []models.Product
		if jsonErr := json.Unmarshal([]byte(val), &products); jsonErr == nil {
			c.logger.Debug("search cache hit", map[string]interface{}{"key": key, "results": len(products)})
			return products, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("search cache unavailable", map[string]interface{}{
			"error": apperrors.NewCacheUnavailableError(err).Error(),
		})
	}

	products, err := c.source.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 {
		data, _ := json.Marshal(products)
		if err := c.redis.Client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache search results", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return products, nil
}

func (c *CachedSource) cacheKey(q Query) string {
	raw, _ := json.Marshal(q)
	sum := sha1.Sum(raw)
	return c.redis.Key("catalog", hex.EncodeToString(sum[:]))
}
