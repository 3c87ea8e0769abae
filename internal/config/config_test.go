package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir so a developer's config.yaml is not picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "trendscout.db", cfg.Store.SQLitePath)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, 15, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 4, cfg.Scrape.Concurrency)
	assert.Equal(t, "7d", cfg.Research.TimeWindow)
	assert.Equal(t, 10, cfg.Research.NumResults)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("TRENDSCOUT_STORE_DRIVER", "postgres")
	t.Setenv("TRENDSCOUT_STORE_DATABASE_URL", "postgres://localhost/trendscout")
	t.Setenv("TRENDSCOUT_ANTHROPIC_KEY", "sk-test")
	t.Setenv("TRENDSCOUT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/trendscout", cfg.Store.DSN())
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestStoreDSN(t *testing.T) {
	sqlite := StoreConfig{Driver: "sqlite", SQLitePath: "runs.db", DatabaseURL: "postgres://x"}
	assert.Equal(t, "runs.db", sqlite.DSN())

	pg := StoreConfig{Driver: "postgres", DatabaseURL: "postgres://x"}
	assert.Equal(t, "postgres://x", pg.DSN())
}

func TestNotionEnabled(t *testing.T) {
	assert.False(t, NotionConfig{}.Enabled())
	assert.False(t, NotionConfig{Token: "secret"}.Enabled())
	assert.True(t, NotionConfig{Token: "secret", ResearchDB: "db"}.Enabled())
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}
