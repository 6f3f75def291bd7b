package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var validBackends = map[string]bool{"memory": true, "redis": true, "postgres": true}

var validStores = map[string]bool{"elasticsearch": true, "http": true, "file": true}

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// database.redis.address can be set as DATABASE_REDIS_ADDRESS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // test/e2e
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideFromEnv applies the short VOCALCART_* variables that predate the
// nested key scheme.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("VOCALCART_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("VOCALCART_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("VOCALCART_CART_BACKEND"); val != "" {
		cfg.CartStore.Backend = val
	}
	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = os.Getenv("DB_USER")
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Catalog.APIKey == "" {
		cfg.Catalog.APIKey = os.Getenv("CATALOG_API_KEY")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "vocalcart"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if len(cfg.Catalog.Stores) == 0 {
		cfg.Catalog.Stores = []string{"file"}
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 30000
	}
	if cfg.Catalog.MaxResults == 0 {
		cfg.Catalog.MaxResults = 20
	}
	if cfg.Catalog.Index == "" {
		cfg.Catalog.Index = "products"
	}
	if cfg.Catalog.DataFile == "" {
		cfg.Catalog.DataFile = "data/products.json"
	}

	if cfg.Session.ConversationLogSize == 0 {
		cfg.Session.ConversationLogSize = 10
	}
	if cfg.Session.ItemsPerPage == 0 {
		cfg.Session.ItemsPerPage = 5
	}

	if cfg.Voice.Language == "" {
		cfg.Voice.Language = "en-IN"
	}
	if cfg.Voice.ListenTimeout == 0 {
		cfg.Voice.ListenTimeout = 10000
	}
	if cfg.Voice.Prompt == "" {
		cfg.Voice.Prompt = "> "
	}

	if cfg.CartStore.Backend == "" {
		cfg.CartStore.Backend = "memory"
	}
	if cfg.CartStore.TTL == 0 {
		cfg.CartStore.TTL = 7 * 24 * 3600
	}
	if cfg.CartStore.Table == "" {
		cfg.CartStore.Table = "cart_snapshots"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.KeyPrefix == "" {
		cfg.Database.Redis.KeyPrefix = "vocalcart:"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// validateConfig checks that every enabled backend has what it needs.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}
	if cfg.Catalog.MaxResults < 0 {
		return fmt.Errorf("catalog.max_results must not be negative")
	}

	for _, store := range cfg.Catalog.Stores {
		if !validStores[store] {
			return fmt.Errorf("catalog.stores: unknown store %q", store)
		}
	}
	if cfg.HasStore("elasticsearch") && len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}
	if cfg.HasStore("http") && cfg.Catalog.APIURL == "" {
		return fmt.Errorf("catalog.api_url is required for the http store")
	}

	if !validBackends[cfg.CartStore.Backend] {
		return fmt.Errorf("cart_store.backend: unknown backend %q", cfg.CartStore.Backend)
	}
	if (cfg.CartStore.Backend == "redis" || cfg.Catalog.CacheTTL > 0) && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	if cfg.CartStore.Backend == "postgres" {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}
	return nil
}
