package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"objectType":"hypercube","animationStyle":"omni","objectCount":"3"}`), 0o644))

	cfg, err := (&PresetLoader{}).Load(path)
	require.NoError(t, err)
	assert.Equal(t, resources.ObjectTesseract, cfg.ObjectType)
	assert.Equal(t, resources.AnimationAlien, cfg.AnimationStyle)
	assert.Equal(t, 3, cfg.ObjectCount)
	assert.Equal(t, resources.CurrentConfigVersion, cfg.Version)
}

func TestPresetLoaderRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := (&PresetLoader{}).Load(path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestAppConfigLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), resources.DefaultAppConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"debug\"\n\n[scene]\nobjectType = \"cell24\"\n"), 0o644))

	cfg, err := (&AppConfigLoader{}).Load(path)
	require.NoError(t, err)
	assert.Equal(t, resources.ObjectCell24, cfg.ObjectType)
	assert.Equal(t, resources.DefaultSceneConfig().BaseColor, cfg.BaseColor)
}
