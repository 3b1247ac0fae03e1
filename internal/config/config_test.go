package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc.dev/compiler/internal/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesRegisterPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minicc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`register_prefix = "X"`+"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "X", cfg.RegisterPrefix)
	assert.True(t, cfg.Peephole, "unset fields keep their default")
}

func TestLoadCanDisablePeephole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minicc.toml")
	require.NoError(t, os.WriteFile(path, []byte("peephole = false\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Peephole)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minicc.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = valid = toml"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
