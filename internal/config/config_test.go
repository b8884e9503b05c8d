package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secondhand-market", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, 5*time.Minute, cfg.GarmentCacheTTL())
	assert.Equal(t, "market.garment.events", cfg.RabbitMQ.GarmentEventQueue)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9090
log_level = "warn"

[auth]
jwt_secret = "from-file"
jwt_expire_minute = 15

[mysql]
host = "db"
port = 3307
user = "market"
password = "pw"
db = "market"
params = "parseTime=true"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "market:pw@tcp(db:3307)/market?parseTime=true", cfg.MySQLDSN())
}

func TestLoad_RejectsEmptySecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app\nport = "), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
