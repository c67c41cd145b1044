package resources

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"github.com/spaghettifunk/geomstudio/engine/core"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the codec from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnsupportedAsset, path)
}

// Numeric fields that version 1 configs sometimes stored as strings.
var numericKeys = []string{
	"objectCount", "scale", "metalness", "emissiveIntensity", "specularIntensity",
	"wireframeIntensity", "environmentHue",
}

var numericLightingKeys = []string{"ambientIntensity", "directionalIntensity"}

// DecodeSceneConfig parses a config, migrating legacy documents to the
// current version. Missing fields take their defaults.
func DecodeSceneConfig(data []byte, format Format) (SceneConfig, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("%w: format %q", core.ErrUnsupportedAsset, format)
	}
	if err != nil {
		return SceneConfig{}, err
	}
	return DecodeSceneConfigMap(raw)
}

// DecodeSceneConfigMap is DecodeSceneConfig for an already parsed document,
// such as the config bag embedded in a backend scene. The document is not
// modified. Non-finite numbers become ±MaxFloat32 (NaN goes low) so the
// slider clamps handle them like any other out-of-range value.
func DecodeSceneConfigMap(doc map[string]any) (SceneConfig, error) {
	raw, _ := copyDocument(doc).(map[string]any)
	if raw == nil {
		raw = map[string]any{}
	}
	version, err := documentVersion(raw)
	if err != nil {
		return SceneConfig{}, err
	}
	if version > CurrentConfigVersion {
		return SceneConfig{}, fmt.Errorf("%w: %d (max %d)", core.ErrUnsupportedVersion, version, CurrentConfigVersion)
	}
	if version < CurrentConfigVersion {
		if err := migrateV1(raw); err != nil {
			return SceneConfig{}, err
		}
		core.LogDebug("migrated scene config from version %d", version)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return SceneConfig{}, err
	}
	cfg := DefaultSceneConfig()
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Version = CurrentConfigVersion
	return cfg, nil
}

func copyDocument(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyDocument(e)
		}
		return out
	case []any:
		return lo.Map(t, func(e any, _ int) any { return copyDocument(e) })
	case float64:
		return finiteNumber(t)
	case float32:
		return finiteNumber(float64(t))
	}
	return v
}

func finiteNumber(f float64) float64 {
	switch {
	case math.IsNaN(f), math.IsInf(f, -1):
		return -math.MaxFloat32
	case math.IsInf(f, 1):
		return math.MaxFloat32
	}
	return f
}

func documentVersion(raw map[string]any) (int, error) {
	v, ok := raw["version"]
	if !ok || v == nil {
		return 1, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%w: version %q", ErrInvalidConfig, n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: version has type %T", ErrInvalidConfig, v)
}

func migrateV1(raw map[string]any) error {
	if s, ok := raw["animationStyle"].(string); ok {
		raw["animationStyle"] = migrateAnimationStyle(s)
	}
	if s, ok := raw["objectType"].(string); ok {
		raw["objectType"] = migrateObjectType(s)
	}
	if _, ok := raw["metalness"]; !ok {
		if v, ok := raw["shininess"]; ok {
			raw["metalness"] = v
		}
	}
	delete(raw, "shininess")

	if err := numericStrings(raw, numericKeys); err != nil {
		return err
	}
	if l, ok := raw["lighting"].(map[string]any); ok {
		if err := numericStrings(l, numericLightingKeys); err != nil {
			return err
		}
	}
	raw["version"] = CurrentConfigVersion
	return nil
}

func numericStrings(m map[string]any, keys []string) error {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, k, s)
		}
		m[k] = f
	}
	return nil
}

func EncodeSceneConfig(cfg SceneConfig, format Format) ([]byte, error) {
	cfg.Version = CurrentConfigVersion
	switch format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatTOML:
		return toml.Marshal(cfg)
	}
	return nil, fmt.Errorf("%w: format %q", core.ErrUnsupportedAsset, format)
}

// ToMap converts the config to the generic bag sent to the backend.
func (c SceneConfig) ToMap() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func LoadSceneConfigFile(path string) (SceneConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return SceneConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneConfig{}, err
	}
	cfg, err := DecodeSceneConfig(data, format)
	if err != nil {
		return SceneConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func SaveSceneConfigFile(path string, cfg SceneConfig) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeSceneConfig(cfg, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
