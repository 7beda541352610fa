package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsync/filesync/internal/config"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.ChunkSize)
	assert.Nil(t, cfg.Defaults.BWLimit)
	assert.Nil(t, cfg.SSH.KeyFile)
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "filesync")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[defaults]
chunk_size = 131072
bwlimit = 1048576
quiet = false
no_tty = true
connect = "ssh://host"

[ssh]
key_file = "/home/me/.ssh/id_ed25519"
port = 2222
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.ChunkSize)
	assert.Equal(t, 131072, *cfg.Defaults.ChunkSize)

	require.NotNil(t, cfg.Defaults.BWLimit)
	assert.Equal(t, 1048576, *cfg.Defaults.BWLimit)

	require.NotNil(t, cfg.Defaults.NoTTY)
	assert.True(t, *cfg.Defaults.NoTTY)

	require.NotNil(t, cfg.Defaults.Connect)
	assert.Equal(t, "ssh://host", *cfg.Defaults.Connect)

	require.NotNil(t, cfg.SSH.KeyFile)
	assert.Equal(t, "/home/me/.ssh/id_ed25519", *cfg.SSH.KeyFile)

	require.NotNil(t, cfg.SSH.Port)
	assert.Equal(t, 2222, *cfg.SSH.Port)

	// A field set explicitly to false decodes to a non-nil pointer, so it
	// stays distinguishable from an unset field.
	require.NotNil(t, cfg.Defaults.Quiet)
	assert.False(t, *cfg.Defaults.Quiet)
}

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "filesync")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[ssh]
port = 2200
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.Defaults.ChunkSize)
	require.NotNil(t, cfg.SSH.Port)
	assert.Equal(t, 2200, *cfg.SSH.Port)
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "filesync")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("invalid [[["), 0o644))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/filesync/config.toml", config.Path())
}
