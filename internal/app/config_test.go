package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/lifelessons-backend/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.Addr())
	require.Equal(t, db.DriverPostgres, cfg.Database().Driver)
	require.Equal(t, AuthProviderFirebase, cfg.AuthProvider)
	require.Equal(t, 5*time.Minute, cfg.AuthCacheTTL())
	require.Empty(t, cfg.Origins())
	require.False(t, cfg.Metrics().Enabled)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := "PORT=7000\nDB_DRIVER=sqlite\nCORS_ORIGINS=https://a.example.com, https://b.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(file), 0o600))

	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_PROVIDER", "hmac")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("STRIPE_SECRECT_KEY", "sk_test_legacy")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, db.DriverSQLite, cfg.Database().Driver)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Origins())
	require.Equal(t, "sk_test_legacy", cfg.StripeKey())
	require.True(t, cfg.Metrics().Enabled)

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_current")
	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "sk_test_current", cfg.StripeKey())
}

func TestLoadConfigRejectsBadSettings(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AUTH_PROVIDER", "hmac")
	_, err = LoadConfig(t.TempDir())
	require.ErrorContains(t, err, "AUTH_HMAC_SECRET")
}
