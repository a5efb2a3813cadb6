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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, 3, cfg.Selector.Workers)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, "data/advisor.db", cfg.Database.SQLitePath)

	start, err := cfg.StartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), start)
	end, err := cfg.EndDate()
	require.NoError(t, err)
	assert.True(t, end.IsZero())

	d, err := cfg.FetchTimeout()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
data:
  dir: /srv/prices
  source: Yahoo
  end: "2024-03-17"
selector:
  workers: 5
database:
  sqlite_path: "-"
web:
  addr: ":9000"
`)
	t.Setenv("WEB_ADDR", ":7000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/srv/prices", cfg.Data.Dir)
	assert.Equal(t, "yahoo", cfg.Data.Source)
	assert.Equal(t, 5, cfg.Selector.Workers)
	assert.Equal(t, ":7000", cfg.Web.Addr)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "", cfg.Database.SQLitePath)

	end, err := cfg.EndDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), end)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATA_DIR=from-dotenv\n"), 0o644))
	t.Setenv("DATA_DIR", "")
	os.Unsetenv("DATA_DIR")

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Data.Dir)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "data: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := map[string]func(*Config){
		"source":  func(c *Config) { c.Data.Source = "ftp" },
		"start":   func(c *Config) { c.Data.Start = "01/01/2010" },
		"end":     func(c *Config) { c.Data.End = "soon" },
		"timeout": func(c *Config) { c.Selector.FetchTimeout = "fast" },
		"ttl":     func(c *Config) { c.Web.SessionTTL = "0s" },
		"workers": func(c *Config) { c.Selector.Workers = -1 },
	}
	for name, mutate := range tests {
		cfg, err := Load("missing.yaml")
		require.NoError(t, err)
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
