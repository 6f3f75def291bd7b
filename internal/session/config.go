package session

import (
	"time"

	"vocalcart/internal/common/config"
)

type Config struct {
	SearchTimeout       time.Duration
	MaxResults          int
	ItemsPerPage        int
	ConversationLogSize int
	IdleTimeout         time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SearchTimeout:       30 * time.Second,
		MaxResults:          20,
		ItemsPerPage:        5,
		ConversationLogSize: 10,
		IdleTimeout:         30 * time.Minute,
	}
}

// ConfigFrom overlays the non-zero application settings on the defaults.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if d := cfg.CatalogTimeout(); d > 0 {
		c.SearchTimeout = d
	}
	if cfg.Catalog.MaxResults > 0 {
		c.MaxResults = cfg.Catalog.MaxResults
	}
	if cfg.Session.ItemsPerPage > 0 {
		c.ItemsPerPage = cfg.Session.ItemsPerPage
	}
	if cfg.Session.ConversationLogSize > 0 {
		c.ConversationLogSize = cfg.Session.ConversationLogSize
	}
	if cfg.Session.IdleTimeout > 0 {
		c.IdleTimeout = cfg.IdleTimeout()
	}
	return c
}
