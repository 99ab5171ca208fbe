package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FLIPWATCH_DATABASE_URL", "postgres://localhost/flipwatch")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Sync.ListLimit)
	assert.Equal(t, 1.2, cfg.Sync.FlipThreshold)
	assert.Equal(t, 2*time.Second, cfg.Sync.ItemDelay)
	assert.Equal(t, 30*time.Minute, cfg.Sync.LockTTL)
	assert.NotEmpty(t, cfg.Sources.EspooBaseURL)
	assert.NotEmpty(t, cfg.Sources.HelsinkiBaseURL)
	assert.NotEmpty(t, cfg.Sources.VantaaFeedURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := writeConfigFile(t, `
database:
  url: postgres://db.internal/flipwatch
sync:
  list_limit: 10
  flip_threshold: 0.9
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db.internal/flipwatch", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Sync.ListLimit)
	assert.Equal(t, 0.9, cfg.Sync.FlipThreshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("FLIPWATCH_DATABASE_URL", "postgres://env.internal/flipwatch")
	t.Setenv("FLIPWATCH_SYNC_ITEM_DELAY", "500ms")

	path := writeConfigFile(t, `
database:
  url: postgres://file.internal/flipwatch
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env.internal/flipwatch", cfg.Database.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.ItemDelay)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("FLIPWATCH_DATABASE_URL", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("FLIPWATCH_DATABASE_URL", "postgres://localhost/flipwatch")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("FLIPWATCH_DATABASE_URL", "postgres://localhost/flipwatch")
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := writeConfigFile(t, "sync: [not a mapping")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("FLIPWATCH_DATABASE_URL", "postgres://localhost/flipwatch")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("FLIPWATCH_FLIP_THRESHOLD", "-1")

	_, err := Load("")
	assert.Error(t, err)
}
