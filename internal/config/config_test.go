package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	p := writeFile(t, `
backend = "sqlite"
path = "/tmp/tasks.db"
identity = "text"
retry_delay = "250ms"
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "/tmp/tasks.db", cfg.Path)
	assert.Equal(t, "text", cfg.Identity)
	assert.Equal(t, "classic", cfg.Theme, "unset keys keep their default")
	require.NoError(t, cfg.Validate())

	d, err := cfg.RetryDelayDuration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoadFile_UnknownKey(t *testing.T) {
	p := writeFile(t, `backnd = "file"`)
	_, err := LoadFile(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backnd")
}

func TestLoadFile_Syntax(t *testing.T) {
	p := writeFile(t, `backend = `)
	_, err := LoadFile(p)
	assert.Error(t, err)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_WorkingDirFirst(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(FileName, []byte(`backend = "bolt"`), 0o644))

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FileName, used)
	assert.Equal(t, "bolt", cfg.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "redis" }},
		{"mysql without dsn", func(c *Config) { c.Backend = "mysql" }},
		{"identity", func(c *Config) { c.Identity = "counter" }},
		{"retry delay", func(c *Config) { c.RetryDelay = "soon" }},
		{"negative timeout", func(c *Config) { c.WriteTimeout = "-1s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(&c)
			assert.Error(t, c.Validate())
		})
	}
}
