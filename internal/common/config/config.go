package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Session   SessionConfig   `mapstructure:"session"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	CartStore CartStoreConfig `mapstructure:"cart_store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig is the health/metrics listener.
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Enabled bool   `mapstructure:"enabled"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig controls where products come from.
type CatalogConfig struct {
	// Stores lists the enabled sources: "elasticsearch", "http", "file".
	Stores     []string `mapstructure:"stores"`
	Timeout    int      `mapstructure:"timeout"` // milliseconds
	MaxResults int      `mapstructure:"max_results"`
	Index      string   `mapstructure:"index"`
	APIURL     string   `mapstructure:"api_url"`
	APIKey     string   `mapstructure:"api_key"`
	DataFile   string   `mapstructure:"data_file"`
	CacheTTL   int      `mapstructure:"cache_ttl"` // seconds, 0 disables the cache
}

// SessionConfig bounds per-session state.
type SessionConfig struct {
	ConversationLogSize int `mapstructure:"conversation_log_size"`
	ItemsPerPage        int `mapstructure:"items_per_page"`
	IdleTimeout         int `mapstructure:"idle_timeout"` // seconds, 0 disables eviction
}

// VoiceConfig holds the speech transport settings.
type VoiceConfig struct {
	Language      string `mapstructure:"language"`
	ListenTimeout int    `mapstructure:"listen_timeout"` // milliseconds
	Prompt        string `mapstructure:"prompt"`
}

// CartStoreConfig selects the durable cart backend: "memory", "redis" or "postgres".
type CartStoreConfig struct {
	Backend string `mapstructure:"backend"`
	TTL     int    `mapstructure:"ttl"` // seconds, redis only
	Table   string `mapstructure:"table"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetAddresses merges the single URL form into the address list.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// CatalogTimeout is the per-search deadline.
func (c *Config) CatalogTimeout() time.Duration {
	return GetDuration(c.Catalog.Timeout)
}

// CacheTTL is how long merged search results stay in redis.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheTTL) * time.Second
}

// CartTTL is the redis expiry of a persisted cart.
func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.CartStore.TTL) * time.Second
}

// IdleTimeout is how long an untouched session survives.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeout) * time.Second
}

// HasStore reports whether a catalog store is enabled.
func (c *Config) HasStore(name string) bool {
	for _, s := range c.Catalog.Stores {
		if s == name {
			return true
		}
	}
	return false
}
