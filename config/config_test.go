package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"heart", "star", "usagi"}, cfg.AssetNames())
	assert.Equal(t, 100, cfg.Scene.Count)
	assert.Equal(t, [3]int{500, 30, 30}, cfg.Scene.Spread)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	doc := `
scene:
  count: 250
  spread: [200, 10, 10]
camera:
  smoothing: 8
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Scene.Count)
	assert.Equal(t, [3]int{200, 10, 10}, cfg.Scene.Spread)
	assert.InDelta(t, 8, cfg.Camera.Smoothing, 1e-6)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched sections keep their defaults
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Len(t, cfg.Theme.Palette, 4)
}

func TestLoadAssetsReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	doc := `
scene:
  assets:
    cube: assets/cube.glb
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cube"}, cfg.AssetNames())
	assert.Equal(t, map[string]string{"cube": "assets/cube.glb"}, cfg.Scene.Assets)
}

func TestLoadWithoutAssetsKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene:\n  count: 12\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Scene.Assets, cfg.Scene.Assets)
}

func TestValidateRejectsEmptyThemeColors(t *testing.T) {
	cfg := Default()
	cfg.Theme.Light.Particle = ""
	cfg.Theme.Dark.Label = ""
	cfg.Theme.Dark.Background = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyColor)
	assert.Contains(t, err.Error(), "theme.light.particle")
	assert.Contains(t, err.Error(), "theme.dark.label")
	assert.Contains(t, err.Error(), "theme.dark.background")

	// an empty model color falls back to the palette
	cfg = Default()
	cfg.Theme.Dark.Model = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene:\n  count: 5000\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene.count")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Theme.Palette = []string{"#fff"}
	cfg.Theme.Dark.Model = "not-a-color"
	cfg.Scene.Assets = nil
	cfg.LogLevel = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errPaletteLength)
	assert.ErrorIs(t, err, errNoAssets)
	assert.Contains(t, err.Error(), "not-a-color")
	assert.Contains(t, err.Error(), "chatty")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := Default()
	cfg.Scene.Seed = 42
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), loaded.Scene.Seed)
}
