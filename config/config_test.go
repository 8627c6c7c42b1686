package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "qr_gateway", cfg.Database.DBName)
	assert.Equal(t, "ARS", cfg.Oracle.BaseCurrency)
	assert.Equal(t, []string{"USDT", "BTC", "ETH"}, cfg.Oracle.TrackedAssets)
	assert.Equal(t, 30*time.Second, cfg.Oracle.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Oracle.SourceTimeout)
	assert.Equal(t, 2.0, cfg.Oracle.MarginPercent)
	assert.Equal(t, 5.0, cfg.Oracle.TolerancePercent)
	assert.Equal(t, 512, cfg.QR.ImageSize)
	assert.Equal(t, 15*time.Minute, cfg.QR.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  mode: release
oracle:
  base_currency: USD
  cache_ttl: 10s
  margin_percent: 1.5
qr:
  session_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "USD", cfg.Oracle.BaseCurrency)
	assert.Equal(t, 10*time.Second, cfg.Oracle.CacheTTL)
	assert.Equal(t, 1.5, cfg.Oracle.MarginPercent)
	assert.Equal(t, 5*time.Minute, cfg.QR.SessionTTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CQG_SERVER_PORT", "7070")
	t.Setenv("CQG_ORACLE_BASE_CURRENCY", "BRL")
	t.Setenv("CQG_DATABASE_PASSWORD", "sekret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "BRL", cfg.Oracle.BaseCurrency)
	assert.Equal(t, "sekret", cfg.Database.Password)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "pw",
		DBName: "gateway", SSLMode: "require",
	}
	assert.Equal(t, "postgres://app:pw@db:5433/gateway?sslmode=require", d.DSN())
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
