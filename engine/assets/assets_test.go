package assets

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePreset(t *testing.T, path string, mutate func(c *resources.SceneConfig)) {
	t.Helper()
	cfg := resources.DefaultSceneConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, resources.SaveSceneConfigFile(path, cfg))
}

func TestInitialScanIndexesPresets(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, filepath.Join(dir, "calm.toml"), nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writePreset(t, filepath.Join(dir, "nested", "storm.json"), func(c *resources.SceneConfig) {
		c.ObjectType = resources.ObjectTesseract
		c.AnimationStyle = resources.AnimationChaos
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	am, err := NewAssetManager(nil)
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	defer am.Shutdown()

	assert.Equal(t, []string{"calm", "storm"}, am.Presets())

	storm, err := am.Preset("storm")
	require.NoError(t, err)
	assert.Equal(t, resources.ObjectTesseract, storm.ObjectType)
	assert.Equal(t, resources.AnimationChaos, storm.AnimationStyle)

	_, err = am.Preset("missing")
	assert.Error(t, err)
}

func TestPresetHotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.toml")
	writePreset(t, path, nil)

	bus := core.NewEventBus()
	var mu sync.Mutex
	var reloaded []string
	bus.Register(core.EVENT_CODE_PRESET_RELOADED, t, func(ctx core.EventContext) bool {
		mu.Lock()
		defer mu.Unlock()
		reloaded = append(reloaded, ctx.Data.(*core.PresetEvent).Path)
		return true
	})

	am, err := NewAssetManager(bus)
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	defer am.Shutdown()

	mu.Lock()
	assert.Empty(t, reloaded, "the initial scan does not fire reload events")
	mu.Unlock()

	writePreset(t, path, func(c *resources.SceneConfig) {
		c.ObjectType = resources.ObjectCell16
	})

	assert.Eventually(t, func() bool {
		cfg, err := am.Preset("live")
		return err == nil && cfg.ObjectType == resources.ObjectCell16
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloaded) > 0 && reloaded[len(reloaded)-1] == path
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBrokenPresetKeepsLastGoodConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fragile.json")
	writePreset(t, path, func(c *resources.SceneConfig) {
		c.ObjectType = resources.ObjectTorus
	})

	am, err := NewAssetManager(nil)
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	defer am.Shutdown()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	time.Sleep(100 * time.Millisecond)

	cfg, err := am.Preset("fragile")
	require.NoError(t, err)
	assert.Equal(t, resources.ObjectTorus, cfg.ObjectType)
}

func TestDetermineAssetType(t *testing.T) {
	cases := map[string]AssetType{
		"presets/a.toml":                      AssetTypePreset,
		"presets/b.JSON":                      AssetTypePreset,
		"presets/.hidden.toml":                AssetTypeNone,
		"presets/readme.md":                   AssetTypeNone,
		resources.DefaultAppConfigFile:        AssetTypeAppConfig,
		"x/" + resources.DefaultAppConfigFile: AssetTypeAppConfig,
	}
	for path, want := range cases {
		assert.Equal(t, want, determineAssetType(path), path)
	}
}

func TestShutdownWithoutInitialize(t *testing.T) {
	am, err := NewAssetManager(nil)
	require.NoError(t, err)
	assert.NoError(t, am.Shutdown())
	assert.NoError(t, am.Shutdown())
}
