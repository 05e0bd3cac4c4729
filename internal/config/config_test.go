package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"STOREFRONT_STORAGE", "STOREFRONT_CURRENCY", "STOREFRONT_CHECKOUT_DELAY",
		"STOREFRONT_REDIS_DB", "STOREFRONT_KEY_PREFIX", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "storefront", cfg.Storage.KeyPrefix)
	assert.Equal(t, currency.USD, cfg.Store.Currency)
	assert.Equal(t, 1500*time.Millisecond, cfg.Store.CheckoutDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE", "Redis")
	t.Setenv("STOREFRONT_REDIS_ADDR", "cache:6380")
	t.Setenv("STOREFRONT_REDIS_DB", "2")
	t.Setenv("STOREFRONT_CURRENCY", "eur")
	t.Setenv("STOREFRONT_CHECKOUT_DELAY", "0s")

	cfg, err := config.Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, currency.EUR, cfg.Store.Currency)
	assert.Zero(t, cfg.Store.CheckoutDelay)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_KEY_PREFIX=from-file\n"), 0o600))

	// godotenv does not override variables that are already set
	t.Setenv("STOREFRONT_KEY_PREFIX", "")
	require.NoError(t, os.Unsetenv("STOREFRONT_KEY_PREFIX"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Storage.KeyPrefix)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "STOREFRONT_STORAGE", value: "mongo"},
		{key: "STOREFRONT_CURRENCY", value: "dollars"},
		{key: "STOREFRONT_CHECKOUT_DELAY", value: "soon"},
		{key: "STOREFRONT_CHECKOUT_DELAY", value: "-1s"},
		{key: "STOREFRONT_REDIS_DB", value: "one"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load(missingEnvFile(t))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}
