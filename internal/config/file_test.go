package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFileConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets_dir = "/srv/trainvoc"
device_id = "tablet"
version_code = 13
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/trainvoc", cfg.AssetsDir)
	assert.Equal(t, "tablet", cfg.DeviceID)
	assert.Equal(t, 13, cfg.VersionCode)
	assert.Equal(t, "1.2.0", cfg.VersionName)
	assert.Equal(t, "~/.trainvoc/preferences.db", cfg.PrefsDB)
}

func TestLoadFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte(`version_code = "twelve`), 0o644))
	_, err := LoadFile(broken)
	assert.Error(t, err)

	zero := filepath.Join(dir, "zero.toml")
	require.NoError(t, os.WriteFile(zero, []byte(`version_code = 0`), 0o644))
	_, err = LoadFile(zero)
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := DefaultFileConfig()
	want.DeviceID = "laptop"

	require.NoError(t, SaveFile(path, want))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
