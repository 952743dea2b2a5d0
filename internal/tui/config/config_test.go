package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.GetHTTPBaseURL())
	assert.Equal(t, 2*time.Second, cfg.HighlightDuration())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := filepath.Join(t.TempDir(), "tui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  host: comments.example.com\n  port: 443\nthread:\n  post_id: p42\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p42", cfg.Thread.PostID)
	assert.Equal(t, 20, cfg.Thread.PageSize)
	assert.Equal(t, "https://comments.example.com:443/api/v1", cfg.GetHTTPBaseURL())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnv, "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Auth.Token)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "tui.yaml")

	cfg := Default()
	cfg.Auth.Token = "secret"
	cfg.Server.BaseURL = "http://127.0.0.1:9000/api/v1"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/tmp/x.yaml", ResolvePath("/tmp/x.yaml"))
	assert.NotEmpty(t, ResolvePath(""))
}
