package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, 5*time.Minute, cfg.StockCacheTTL)
	assert.Equal(t, "main-shelf", cfg.MedicineDefaultLocation)
	assert.False(t, cfg.UseDatabase())
	assert.False(t, cfg.UseCache())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://pharmacy@localhost/pharmacy")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DB_STATEMENT_TIMEOUT", "5s")
	t.Setenv("MEDICINE_DEFAULT_CATEGORY", "otc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UseDatabase())
	assert.True(t, cfg.UseCache())
	assert.Equal(t, 5*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, "otc", cfg.MedicineDefaultCategory)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unparsable duration", "STOCK_CACHE_TTL", "soon"},
		{"zero ttl", "STOCK_CACHE_TTL", "0s"},
		{"no connections", "DB_MAX_CONNS", "0"},
		{"min above max", "DB_MIN_CONNS", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
