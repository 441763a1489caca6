package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/nirman",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.True(t, cfg.RunMigrations)
	require.Equal(t, "migrations", cfg.MigrationsDir)
	require.Equal(t, 5, cfg.WorkerConcurrency)
}

func TestMustLoadPanicsWhenRequiredSettingsMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")

	require.Panics(t, func() { MustLoad() })
}

func TestLoadRequiresCoreSettings(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)

	env = baseEnv()
	env["JWT_SECRET"] = ""
	_, err = LoadForTests(env)
	require.Error(t, err)
}

func TestLoadWebhookRequiresURL(t *testing.T) {
	env := baseEnv()
	env["WEBHOOK_ENABLED"] = "true"
	_, err := LoadForTests(env)
	require.Error(t, err)

	env["WEBHOOK_URL"] = "https://hooks.example.com/orders"
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.True(t, cfg.WebhookEnabled)
}

func TestLoadParsesOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example.com, https://b.example.com"
	env["ACCESS_TOKEN_TTL"] = "2h"
	env["TRACING_SAMPLING_RATIO"] = "0.25"
	env["WORKER_CONCURRENCY"] = "12"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 0.25, cfg.TracingSampling)
	require.Equal(t, 12, cfg.WorkerConcurrency)
}
