package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtemp switches to a temp directory so local config reads and writes
// stay isolated from the developer's real tree.
func chtemp(t *testing.T) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, ".", cfg.OutputDir())
	assert.False(t, cfg.ApplyForce())
	assert.True(t, cfg.LogEnabled())
}

func TestLoadScope_MissingFileGivesDefaults(t *testing.T) {
	chtemp(t)
	cfg, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, cfg.Scope())
	assert.Equal(t, ".", cfg.OutputDir())
}

func TestSaveAndReload(t *testing.T) {
	chtemp(t)

	cfg, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	require.NoError(t, cfg.Set("output.dir", "src"))
	require.NoError(t, cfg.Set("apply.force", "true"))
	require.NoError(t, cfg.Save())

	reloaded, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "src", reloaded.OutputDir())
	assert.True(t, reloaded.ApplyForce())
	assert.True(t, reloaded.LogEnabled(), "unset keys keep their defaults")
}

func TestLoad_PrefersLocal(t *testing.T) {
	chtemp(t)

	local, err := LoadScope(ScopeLocal)
	require.NoError(t, err)
	require.NoError(t, local.Set("output.dir", "local-out"))
	require.NoError(t, local.Save())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, cfg.Scope())
	assert.Equal(t, "local-out", cfg.OutputDir())
}

func TestLoadScope_MalformedYAML(t *testing.T) {
	chtemp(t)
	require.NoError(t, os.MkdirAll(".sprout", 0755))
	require.NoError(t, os.WriteFile(LocalPath(), []byte("output: [unclosed"), 0644))

	_, err := LoadScope(ScopeLocal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed config file")
}

func TestGetSet(t *testing.T) {
	cfg := &Config{}

	for _, key := range ValidKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}

	v, err := cfg.Get("log.enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, cfg.Set("log.enabled", "false"))
	v, err = cfg.Get("log.enabled")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	_, err = cfg.Get("no.such.key")
	assert.ErrorIs(t, err, ErrUnknownKey)

	err = cfg.Set("apply.force", "definitely")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
