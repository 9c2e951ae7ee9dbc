// file: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/civicfund?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 5*time.Minute, cfg.Badges.CatalogCacheTTL)
	assert.Equal(t, 5, cfg.Badges.EventWorkers)
}

func TestLoad_ProductionDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/civicfund")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/civicfund")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("BADGE_CATALOG_CACHE_TTL", "30s")
	t.Setenv("EVENT_WORKERS", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.Badges.CatalogCacheTTL)
	assert.Equal(t, 9, cfg.Badges.EventWorkers)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RedisProviderNeedsURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/civicfund")
	t.Setenv("CACHE_PROVIDER", "redis")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Cache.Provider)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/civicfund")

	t.Setenv("DB_MAX_IDLE_CONNS", "100")
	_, err := Load()
	require.Error(t, err)
	t.Setenv("DB_MAX_IDLE_CONNS", "5")

	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	require.Error(t, err)
	t.Setenv("LOG_LEVEL", "info")

	t.Setenv("EVENT_WORKERS", "0")
	_, err = Load()
	require.Error(t, err)
}
