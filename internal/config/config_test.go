package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njiraini/reldb/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "reldb", cfg.AppName)
	assert.Equal(t, "db", cfg.Storage.Workdir)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.Logging.SeqURL)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reldb.yaml")
	content := `
app_name: custom
storage:
  workdir: /tmp/data
logging:
  level: debug
  seq_url: http://localhost:5341
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.AppName)
	assert.Equal(t, "/tmp/data", cfg.Storage.Workdir)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "http://localhost:5341", cfg.Logging.SeqURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RELDB_LOGGING_LEVEL", "warn")
	t.Setenv("RELDB_STORAGE_WORKDIR", "/srv/data")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "/srv/data", cfg.Storage.Workdir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "reldb", cfg.AppName)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reldb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	t.Setenv("RELDB_LOGGING_LEVEL", "error")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.Level())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLevel_Unrecognized(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logging.Level = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
