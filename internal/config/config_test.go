package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
api:
  environment: test
  port: "9090"
  log_level: debug
  jwt_signing_key: s3cr3t
  allowed_cors_domains:
    - https://pos.example.org
postgres:
  host: localhost
  user: buckutt
  password: buckutt
  db: buckutt
redis:
  addr: localhost:6379
rate_limit:
  login_attempts: 3
  window: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "debug", conf.API.LogLevel)
	assert.Equal(t, []string{"https://pos.example.org"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 12*time.Hour, conf.API.JWTTTL)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.Equal(t, "disable", conf.Postgres.SSLMode)
	assert.Equal(t, "localhost:6379", conf.Redis.Addr)
	assert.Equal(t, 3, conf.RateLimit.LoginAttempts)
	assert.Equal(t, 30*time.Second, conf.RateLimit.Window)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("API_PORT", "7000")

	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", conf.Postgres.Host)
	assert.Equal(t, "7000", conf.API.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("missing signing key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "postgres:\n  host: localhost\n"))
		assert.ErrorIs(t, err, ErrMissingJWTSigningKey)
	})

	t.Run("missing postgres host", func(t *testing.T) {
		_, err := Load(writeConfig(t, "api:\n  jwt_signing_key: k\n"))
		assert.ErrorIs(t, err, ErrMissingPostgresHost)
	})
}
