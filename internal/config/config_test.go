package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GRIDIRON_ADDR", "GRIDIRON_DATA_DIR", "GRIDIRON_MATCHER", "GRIDIRON_LOG_LEVEL", "GRIDIRON_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "fuzzy", cfg.Matcher)
	assert.Len(t, cfg.Data.Sources, 7)
	assert.Equal(t, "Power 5 Offense Grades.csv", cfg.Data.Sources[0])
	assert.Equal(t, "Group 5 ST Grades.csv", cfg.Data.Sources[6])
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gridiron.yaml")
	body := `
server:
  addr: ":9000"
data:
  dir: /srv/data
  sources: [a.csv, b.csv]
matcher: substring
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/mcp", cfg.Server.MCPPath, "unset keys keep defaults")
	assert.Equal(t, []string{"a.csv", "b.csv"}, cfg.Data.Sources)
	assert.Equal(t, "substring", cfg.Matcher)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("data dir and matcher", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GRIDIRON_DATA_DIR", "/tmp/csv")
		t.Setenv("GRIDIRON_MATCHER", "SUBSTRING")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/csv", cfg.Data.Dir)
		assert.Equal(t, "substring", cfg.Matcher)
	})

	t.Run("api key turns on auth", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GRIDIRON_API_KEY", " secret ")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Server.RequireAuth)
		assert.Equal(t, "secret", cfg.Server.APIKey)
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"UnknownMatcher", func(c *Config) { c.Matcher = "soundex" }},
		{"NoSources", func(c *Config) { c.Data.Sources = nil }},
		{"BlankSource", func(c *Config) { c.Data.Sources = []string{""} }},
		{"AuthWithoutKey", func(c *Config) { c.Server.RequireAuth = true }},
		{"BadLogLevel", func(c *Config) { c.Log.Level = "loud" }},
		{"RelativeMCPPath", func(c *Config) { c.Server.MCPPath = "mcp" }},
		{"BadBaseURL", func(c *Config) { c.Data.BaseURL = "not a url" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "gridiron.yaml")
	cfg := DefaultConfig()
	cfg.Data.BaseURL = "https://example.com/csv"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
