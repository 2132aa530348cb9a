package config

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "./data", cfg.StoreDSN())
	assert.Equal(t, "memory", cfg.CartBackend)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 500.0, cfg.FreeShippingThreshold)
	assert.Equal(t, 50.0, cfg.ShippingFee)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.AdminAuth)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.Len(t, cfg.SessionKey, 32)
	assert.Len(t, cfg.CSRFKey, 32)
}

func TestLoadConfigFromEnv(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	t.Setenv("PORT", "8080")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/shop.db")
	t.Setenv("SESSION_KEY", key)
	t.Setenv("ADMIN_AUTH", "true")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("RATE_LIMIT_WINDOW", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/shop.db", cfg.StoreDSN())
	assert.Equal(t, []byte(strings.Repeat("k", 32)), cfg.SessionKey)
	assert.True(t, cfg.AdminAuth)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.Zero(t, cfg.RateLimitWindow)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("SHIPPING_FEE", "-3")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 50.0, cfg.ShippingFee)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigRejectsIncompleteBackends(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("CART_BACKEND", "redis")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("CART_BACKEND", "cookie")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("CART_BACKEND", "memory")
	t.Setenv("TRACE_EXPORTER", "jaeger")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
PORT: "7000"
DATA_DIR: /srv/shop
FREE_SHIPPING_THRESHOLD: "999"
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port, "environment wins over the file")
	assert.Equal(t, "/srv/shop", cfg.DataDir)
	assert.Equal(t, 999.0, cfg.FreeShippingThreshold)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: [unterminated"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}
