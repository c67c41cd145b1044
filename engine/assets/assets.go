package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spaghettifunk/geomstudio/engine/assets/loaders"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypePreset
	AssetTypeAppConfig
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
	Config     resources.SceneConfig
}

/**
 * @brief Indexes the scene presets under a directory and keeps them fresh.
 * Every create or write of a preset reloads it and fires
 * EVENT_CODE_PRESET_RELOADED on the bus. A preset that fails to parse keeps
 * its last good config.
 */
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[AssetType]Loader
	bus     *core.EventBus

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
}

func NewAssetManager(bus *core.EventBus) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		bus:      bus,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	// Register loaders
	am.registerLoader(AssetTypePreset, &loaders.PresetLoader{})
	am.registerLoader(AssetTypeAppConfig, &loaders.AppConfigLoader{})
	return am, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()
	core.LogDebug("watching presets in %s", assetsDir)
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

/**
 * @brief Returns the last good config of a preset. name is either the
 * indexed path or the file name without extension.
 */
func (am *AssetManager) Preset(name string) (resources.SceneConfig, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	if a, ok := am.assets[name]; ok {
		return a.Config, nil
	}
	for _, a := range am.assets {
		if a.Type == AssetTypePreset && presetName(a.Path) == name {
			return a.Config, nil
		}
	}
	return resources.SceneConfig{}, fmt.Errorf("preset not found: %s", name)
}

// Presets returns the names of every indexed preset, sorted.
func (am *AssetManager) Presets() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	presets := lo.FilterMap(lo.Values(am.assets), func(a AssetInfo, _ int) (string, bool) {
		return presetName(a.Path), a.Type == AssetTypePreset
	})
	slices.Sort(presets)
	return presets
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, true); err != nil {
						core.LogWarn("cannot watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name, true)
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found. notify is false for the initial scan.
func (am *AssetManager) watchRecursive(path string, notify bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath, notify)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string, notify bool) {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	loader, ok := am.loaders[assetType]
	if !ok {
		core.LogWarn("no loader registered for asset type %d", assetType)
		return
	}
	cfg, err := loader.Load(path)
	if err != nil {
		// Editors often truncate before writing; the next write retries.
		core.LogWarn("cannot load %s, keeping previous version: %s", path, err)
		return
	}

	am.mutex.Lock()
	_, reloaded := am.assets[path]
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
		Config:     cfg,
	}
	am.mutex.Unlock()

	if reloaded {
		core.LogInfo("preset %s reloaded", path)
	}
	if notify && am.bus != nil {
		am.bus.Fire(core.EventContext{
			Type: core.EVENT_CODE_PRESET_RELOADED,
			Data: &core.PresetEvent{Path: path},
		})
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func determineAssetType(path string) AssetType {
	base := filepath.Base(path)
	if base == resources.DefaultAppConfigFile {
		return AssetTypeAppConfig
	}
	if strings.HasPrefix(base, ".") {
		return AssetTypeNone
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".json":
		return AssetTypePreset
	default:
		return AssetTypeNone
	}
}

func presetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
