package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-cart\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-cart", cfg.App.Name)
	assert.Equal(t, []string{"file"}, cfg.Catalog.Stores)
	assert.Equal(t, 30*time.Second, cfg.CatalogTimeout())
	assert.Equal(t, 20, cfg.Catalog.MaxResults)
	assert.Equal(t, 10, cfg.Session.ConversationLogSize)
	assert.Equal(t, 5, cfg.Session.ItemsPerPage)
	assert.Equal(t, "memory", cfg.CartStore.Backend)
	assert.Equal(t, "en-IN", cfg.Voice.Language)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "vocalcart:", cfg.Database.Redis.KeyPrefix)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("VOCALCART_HOST", "127.0.0.1")
	t.Setenv("VOCALCART_PORT", "9090")
	t.Setenv("TEST_REDIS_ADDR", "redis:6379")

	path := writeConfig(t, `
cart_store:
  backend: redis
database:
  redis:
    address: ${TEST_REDIS_ADDR}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Equal(t, "redis:6379", cfg.Database.Redis.Address)
	assert.Equal(t, "redis", cfg.CartStore.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL())
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown store",
			body:    "catalog:\n  stores: [\"scraper\"]\n",
			wantErr: "unknown store",
		},
		{
			name:    "elasticsearch without address",
			body:    "catalog:\n  stores: [\"elasticsearch\"]\n",
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "http without url",
			body:    "catalog:\n  stores: [\"http\"]\n",
			wantErr: "catalog.api_url",
		},
		{
			name:    "unknown cart backend",
			body:    "cart_store:\n  backend: disk\n",
			wantErr: "unknown backend",
		},
		{
			name:    "redis backend without address",
			body:    "cart_store:\n  backend: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "postgres backend without host",
			body:    "cart_store:\n  backend: postgres\n",
			wantErr: "database.postgres.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestElasticsearchConfig_GetAddresses(t *testing.T) {
	assert.Equal(t, []string{"http://a:9200"}, ElasticsearchConfig{URL: "http://a:9200"}.GetAddresses())
	assert.Equal(t, []string{"http://b:9200"}, ElasticsearchConfig{Addresses: []string{"http://b:9200"}, URL: "http://a:9200"}.GetAddresses())
	assert.Nil(t, ElasticsearchConfig{}.GetAddresses())
}
