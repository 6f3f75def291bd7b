package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vocalcart/internal/catalog"
	"vocalcart/internal/common/config"
	"vocalcart/internal/common/database"
	commonhttp "vocalcart/internal/common/http"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/persistence"
	"vocalcart/internal/session"
)

const (
	connectRetries = 5
	connectDelay   = time.Second
)

// backends holds the connections the configured stores need. Fields are nil
// when nothing uses them.
type backends struct {
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient
}

func (b *backends) Close(log *zap.Logger) {
	if b.pg != nil {
		if err := b.pg.Close(); err != nil {
			log.Error("Error closing PostgreSQL", zap.Error(err))
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.HasStore("elasticsearch") {
		err := retryWithBackoff(ctx, func() error {
			var err error
			b.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return b.es.Ping(ctx)
		}, connectRetries, connectDelay, log, "Elasticsearch connection")
		if err != nil {
			// the remaining stores can still answer
			log.Error("elasticsearch unavailable, store disabled", zap.Error(err))
			b.es = nil
		} else {
			log.Info("Elasticsearch connected successfully")
		}
	}

	if cfg.CacheTTL() > 0 || cfg.CartStore.Backend == "redis" {
		err := retryWithBackoff(ctx, func() error {
			var err error
			b.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return b.redis.Ping(ctx)
		}, connectRetries, connectDelay, log, "Redis connection")
		if err != nil {
			b.Close(log)
			return nil, fmt.Errorf("redis failed after retries: %w", err)
		}
		log.Info("Redis connected successfully")
	}

	if cfg.CartStore.Backend == "postgres" {
		err := retryWithBackoff(ctx, func() error {
			var err error
			b.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return b.pg.Ping(ctx)
		}, connectRetries, connectDelay, log, "PostgreSQL connection")
		if err != nil {
			b.Close(log)
			return nil, fmt.Errorf("postgres failed after retries: %w", err)
		}
		log.Info("PostgreSQL connected successfully")
	}

	return b, nil
}

// buildSource assembles the enabled stores behind the fan-out, the search
// deadline and, when configured, the result cache.
func buildSource(cfg *config.Config, b *backends, log logger.Logger) (catalog.Source, error) {
	var sources []catalog.Source
	for _, name := range cfg.Catalog.Stores {
		switch name {
		case "elasticsearch":
			if b.es == nil {
				continue
			}
			sources = append(sources, catalog.NewElasticsearchSource(b.es, cfg.Catalog.Index, log))
		case "http":
			client := commonhttp.NewClient(cfg.CatalogTimeout())
			sources = append(sources, catalog.NewHTTPSource(client, cfg.Catalog.APIURL, cfg.Catalog.APIKey, log))
		case "file":
			src, err := catalog.NewFileSource(cfg.Catalog.DataFile, log)
			if err != nil {
				log.Error("file store disabled", map[string]interface{}{
					"path":  cfg.Catalog.DataFile,
					"error": err.Error(),
				})
				continue
			}
			sources = append(sources, src)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no product store could be started from %v", cfg.Catalog.Stores)
	}

	multi := catalog.NewMultiSource(cfg.Catalog.MaxResults, log, sources...)
	log.Info("catalog ready", map[string]interface{}{"stores": multi.Sources()})

	var src catalog.Source = catalog.WithTimeout(multi, cfg.CatalogTimeout())
	if b.redis != nil && cfg.CacheTTL() > 0 {
		src = catalog.NewCachedSource(src, b.redis, cfg.CacheTTL(), log)
	}
	return src, nil
}

// buildCartStore returns nil for the memory backend.
func buildCartStore(ctx context.Context, cfg *config.Config, b *backends, log logger.Logger) (session.CartStore, error) {
	switch cfg.CartStore.Backend {
	case "redis":
		return persistence.NewRedisCartStore(b.redis, cfg.CartTTL(), log), nil
	case "postgres":
		store, err := persistence.NewPostgresCartStore(b.pg.DB, cfg.CartStore.Table, log)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

func evictionInterval(cfg *session.Config) time.Duration {
	if cfg.IdleTimeout <= 0 {
		return 0
	}
	interval := cfg.IdleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
