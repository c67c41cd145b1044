package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/geomstudio/engine/core"
)

const DefaultAppConfigFile = "geomstudio.toml"

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type BackendConfig struct {
	URL       string `toml:"url"`
	TokenFile string `toml:"token_file"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// AppConfig is the application level configuration, read from
// geomstudio.toml when present.
type AppConfig struct {
	LogLevel            string        `toml:"log_level"`
	TargetFPS           int           `toml:"target_fps"`
	MaxCachedGeometries uint32        `toml:"max_cached_geometries"`
	MaxMailboxSize      int           `toml:"max_mailbox_size"`
	PresetDir           string        `toml:"preset_dir"`
	Window              WindowConfig  `toml:"window"`
	Backend             BackendConfig `toml:"backend"`
	Scene               SceneConfig   `toml:"scene"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		LogLevel:            "info",
		TargetFPS:           60,
		MaxCachedGeometries: 64,
		MaxMailboxSize:      256,
		PresetDir:           "presets",
		Window: WindowConfig{
			Title:  "Nexus Geom Studio",
			Width:  1280,
			Height: 720,
		},
		Backend: BackendConfig{
			URL:       "http://localhost:5000",
			TokenFile: ".geomstudio-token",
			TimeoutMS: 10000,
		},
		Scene: DefaultSceneConfig(),
	}
}

// LoadAppConfig reads path over the defaults. A missing file is not an error.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Scene.Version > CurrentConfigVersion {
		return cfg, fmt.Errorf("%w: %d", core.ErrUnsupportedVersion, cfg.Scene.Version)
	}
	cfg.Scene.Version = CurrentConfigVersion
	cfg.Scene.ObjectType = ObjectType(migrateObjectType(string(cfg.Scene.ObjectType)))
	cfg.Scene.AnimationStyle = AnimationStyle(migrateAnimationStyle(string(cfg.Scene.AnimationStyle)))
	return cfg, nil
}
