package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	keys := []string{
		"PRINTFOODS_APP_NAME",
		"PRINTFOODS_APP_ENV",
		"PRINTFOODS_APP_PORT",
		"PRINTFOODS_ADMIN_USERNAME",
		"PRINTFOODS_ADMIN_PASSWORD",
		"PRINTFOODS_ADMIN_PASSWORD_HASH",
		"PRINTFOODS_DATABASE_DRIVER",
		"PRINTFOODS_DATABASE_MAX_OPEN_CONNS",
		"PRINTFOODS_DATABASE_MAX_IDLE_CONNS",
		"PRINTFOODS_REDIS_ENABLED",
		"PRINTFOODS_JWT_SECRET",
		"PRINTFOODS_SETTINGS_BACKEND",
		"PRINTFOODS_NOTIFICATION_POLICY",
		"PRINTFOODS_NOTIFICATION_TIMEOUT",
		"PRINTFOODS_TELEMETRY_SAMPLING_RATIO",
	}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "printfoods-storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "admin", cfg.Admin.Username)
		assert.Equal(t, "admin", cfg.Admin.Password)
		assert.Equal(t, SettingsBackendFile, cfg.Settings.Backend)
		assert.Equal(t, "data/adminSettings.json", cfg.Settings.Path)
		assert.Equal(t, "best_effort", cfg.Notification.Policy)
		assert.Equal(t, "https://api.callmebot.com", cfg.Notification.CallMeBotBaseURL)
		assert.Equal(t, "https://viacep.com.br", cfg.Postal.ViaCEPBaseURL)
		assert.Equal(t, 24*time.Hour, cfg.Notification.IdempotencyTTL)
		assert.False(t, cfg.NeedsDatabase())
	})

	t.Run("loads values from environment variables with PRINTFOODS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_APP_PORT", "9000")
		os.Setenv("PRINTFOODS_ADMIN_USERNAME", "oscar")
		os.Setenv("PRINTFOODS_ADMIN_PASSWORD", "s3nha")
		os.Setenv("PRINTFOODS_SETTINGS_BACKEND", "database")
		os.Setenv("PRINTFOODS_DATABASE_DRIVER", "sqlite")
		os.Setenv("PRINTFOODS_NOTIFICATION_POLICY", "require_admin_channel")
		os.Setenv("PRINTFOODS_NOTIFICATION_TIMEOUT", "3s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "oscar", cfg.Admin.Username)
		assert.Equal(t, "s3nha", cfg.Admin.Password)
		assert.Equal(t, SettingsBackendDatabase, cfg.Settings.Backend)
		assert.Equal(t, "require_admin_channel", cfg.Notification.Policy)
		assert.Equal(t, 3*time.Second, cfg.Notification.Timeout)
		assert.True(t, cfg.NeedsDatabase())
		assert.Equal(t, "data/printfoods.db", cfg.Database.DSN())
	})

	t.Run("password hash suppresses the default password", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Admin.Password)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PRINTFOODS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown settings backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_SETTINGS_BACKEND", "localstorage")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings.backend")
	})

	t.Run("redis backend requires redis", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_SETTINGS_BACKEND", "redis")

		_, err := Load()
		require.Error(t, err)

		os.Setenv("PRINTFOODS_REDIS_ENABLED", "true")
		_, err = Load()
		require.NoError(t, err)
	})

	t.Run("rejects unknown notification policy", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_NOTIFICATION_POLICY", "retry_forever")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "notification.policy")
	})

	t.Run("production rejects default credentials", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("PRINTFOODS_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin.password")

		os.Setenv("PRINTFOODS_ADMIN_PASSWORD", "a-strong-password")
		_, err = Load()
		require.NoError(t, err)
	})

	t.Run("validates sampling ratio range", func(t *testing.T) {
		clearEnv()
		os.Setenv("PRINTFOODS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "printfoods",
		Password: "p@ss word",
		DBName:   "printfoods",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://printfoods:p%40ss%20word@db:5432/printfoods?sslmode=require", d.DSN())

	d.Driver = "sqlite"
	d.SQLitePath = "/tmp/pf.db"
	assert.Equal(t, "/tmp/pf.db", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
