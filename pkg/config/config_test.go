package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("THREADHUB_JWT_SECRET", "s3cret")
	t.Setenv("THREADHUB_DATABASE_DRIVER", "pgx")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  path: ":memory:"
jwt:
  secret: from-file
rate_limit:
  rps: 0.5
  burst: 3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.InDelta(t, 0.5, cfg.RateLimit.RPS, 1e-9)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("THREADHUB_JWT_SECRET", "x")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	t.Setenv("THREADHUB_JWT_SECRET", "")
	_, err := Load("")
	assert.ErrorContains(t, err, "jwt.secret")

	t.Setenv("THREADHUB_JWT_SECRET", "x")
	t.Setenv("THREADHUB_DATABASE_DRIVER", "mysql")
	_, err = Load("")
	assert.ErrorContains(t, err, "mysql")
}
