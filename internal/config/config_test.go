package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
)

func TestLoadConfig_Success(t *testing.T) {
	t.Setenv("API_SERVICE_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/blog-test.db")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ApiServicePort)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/blog-test.db", cfg.SQLitePath)
	assert.Equal(t, int64(1048576), cfg.MaxFileSize)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.ApiServicePort)
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, int64(900), cfg.AccessTokenExpiration)
	assert.Equal(t, int64(604800), cfg.RefreshTokenExpiration)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL())
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "invalid")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadConfig_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfig_RedisAddr(t *testing.T) {
	cfg := &config.Config{RedisHost: "cache", RedisPort: 6380}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}
