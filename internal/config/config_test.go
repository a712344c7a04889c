package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_SQLite(t *testing.T) {
	path := writeConfig(t, `
env: "local"
http_server:
  address: "0.0.0.0:9000"
storage:
  driver: "sqlite"
  sqlite_path: ":memory:"
scheduling:
  prefetch_limit: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Scheduling.RunTimeout)
	assert.Equal(t, 1, cfg.Scheduling.PrefetchLimit)
	assert.Equal(t, "errors.log", cfg.Log.ErrorFile)
}

func TestLoad_MySQLRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: "mysql"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: "mongo"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown driver")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
