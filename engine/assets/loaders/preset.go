package loaders

import (
	"errors"
	"os"

	"github.com/spaghettifunk/geomstudio/engine/resources"
)

// ErrEmptyFile is returned for zero length files, which editors leave
// behind between truncating and writing.
var ErrEmptyFile = errors.New("empty file")

// PresetLoader reads scene presets in TOML or JSON, migrating legacy
// documents on the way in.
type PresetLoader struct{}

func (pl *PresetLoader) Load(path string) (resources.SceneConfig, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return resources.SceneConfig{}, err
	}
	if fi.Size() == 0 {
		return resources.SceneConfig{}, ErrEmptyFile
	}
	return resources.LoadSceneConfigFile(path)
}

// AppConfigLoader reads the scene section of an application config file.
type AppConfigLoader struct{}

func (al *AppConfigLoader) Load(path string) (resources.SceneConfig, error) {
	cfg, err := resources.LoadAppConfig(path)
	if err != nil {
		return resources.SceneConfig{}, err
	}
	return cfg.Scene, nil
}
