package resources

import (
	"errors"
	"fmt"
	"math"

	"github.com/spaghettifunk/geomstudio/engine/core"
)

// CurrentConfigVersion is stamped on every config this build writes.
const CurrentConfigVersion = 2

var ErrInvalidConfig = errors.New("invalid scene config")

type Vector3Config struct {
	X float32 `json:"x" toml:"x"`
	Y float32 `json:"y" toml:"y"`
	Z float32 `json:"z" toml:"z"`
}

type LightingConfig struct {
	AmbientColor         string        `json:"ambientColor" toml:"ambientColor"`
	AmbientIntensity     float32       `json:"ambientIntensity" toml:"ambientIntensity"`
	DirectionalColor     string        `json:"directionalColor" toml:"directionalColor"`
	DirectionalIntensity float32       `json:"directionalIntensity" toml:"directionalIntensity"`
	DirectionalPosition  Vector3Config `json:"directionalPosition" toml:"directionalPosition"`
}

// SceneConfig is the parameter bag that drives a scene. It is also the
// opaque config persisted by the backend.
type SceneConfig struct {
	Version             int            `json:"version" toml:"version"`
	ObjectType          ObjectType     `json:"objectType" toml:"objectType"`
	ObjectCount         int            `json:"objectCount" toml:"objectCount"`
	Scale               float32        `json:"scale" toml:"scale"`
	AnimationStyle      AnimationStyle `json:"animationStyle" toml:"animationStyle"`
	CameraView          CameraView     `json:"cameraView" toml:"cameraView"`
	Metalness           float32        `json:"metalness" toml:"metalness"`
	EmissiveIntensity   float32        `json:"emissiveIntensity" toml:"emissiveIntensity"`
	BaseColor           string         `json:"baseColor" toml:"baseColor"`
	SpecularColor       string         `json:"specularColor" toml:"specularColor"`
	SpecularIntensity   float32        `json:"specularIntensity" toml:"specularIntensity"`
	WireframeIntensity  float32        `json:"wireframeIntensity" toml:"wireframeIntensity"`
	HyperframeColor     string         `json:"hyperframeColor" toml:"hyperframeColor"`
	HyperframeLineColor string         `json:"hyperframeLineColor" toml:"hyperframeLineColor"`
	Environment         string         `json:"environment" toml:"environment"`
	EnvironmentHue      float32        `json:"environmentHue" toml:"environmentHue"`
	Lighting            LightingConfig `json:"lighting" toml:"lighting"`
}

// Slider ranges enforced by UIs. The core clamps instead of rejecting.
const (
	MinObjectCount = 1
	MaxObjectCount = 10
	MinScale       = 0.1
	MaxScale       = 3.0
	MaxEmissive    = 2.0
	MaxSpecular    = 2.0
	MaxWireframe   = 100.0
	MaxHue         = 360.0
	MaxLightLevel  = 5.0
)

func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Version:             CurrentConfigVersion,
		ObjectType:          ObjectBox,
		ObjectCount:         1,
		Scale:               1,
		AnimationStyle:      AnimationRotate,
		CameraView:          CameraOrbit,
		Metalness:           0.5,
		EmissiveIntensity:   0,
		BaseColor:           "#00ffff",
		SpecularColor:       "#ffffff",
		SpecularIntensity:   1,
		WireframeIntensity:  0,
		HyperframeColor:     "#ff00ff",
		HyperframeLineColor: "#00ff88",
		Environment:         "void",
		EnvironmentHue:      220,
		Lighting: LightingConfig{
			AmbientColor:         "#ffffff",
			AmbientIntensity:     0.4,
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 1,
			DirectionalPosition:  Vector3Config{X: 5, Y: 5, Z: 5},
		},
	}
}

// ClampSlider clamps v into [lo, hi]. NaN maps to lo.
func ClampSlider(v, lo, hi float32) float32 {
	if math.IsNaN(float64(v)) {
		return lo
	}
	return min(max(v, lo), hi)
}

// Normalized returns a copy with every slider clamped into its range.
// Colors and enums are left alone; the update layer validates those.
func (c SceneConfig) Normalized() SceneConfig {
	c.ObjectCount = min(max(c.ObjectCount, MinObjectCount), MaxObjectCount)
	c.Scale = ClampSlider(c.Scale, MinScale, MaxScale)
	c.Metalness = ClampSlider(c.Metalness, 0, 1)
	c.EmissiveIntensity = ClampSlider(c.EmissiveIntensity, 0, MaxEmissive)
	c.SpecularIntensity = ClampSlider(c.SpecularIntensity, 0, MaxSpecular)
	c.WireframeIntensity = ClampSlider(c.WireframeIntensity, 0, MaxWireframe)
	c.EnvironmentHue = ClampSlider(c.EnvironmentHue, 0, MaxHue)
	c.Lighting.AmbientIntensity = ClampSlider(c.Lighting.AmbientIntensity, 0, MaxLightLevel)
	c.Lighting.DirectionalIntensity = ClampSlider(c.Lighting.DirectionalIntensity, 0, MaxLightLevel)
	return c
}

// Validate checks a config against the shared schema. It is strict and used
// before a config leaves the process.
func (c SceneConfig) Validate() error {
	var errs []error
	if !c.ObjectType.Valid() {
		errs = append(errs, fmt.Errorf("objectType: %w %q", core.ErrUnknownObjectType, c.ObjectType))
	}
	if !c.AnimationStyle.Known() {
		errs = append(errs, fmt.Errorf("animationStyle: unknown style %q", c.AnimationStyle))
	}
	if !c.CameraView.Known() {
		errs = append(errs, fmt.Errorf("cameraView: unknown view %q", c.CameraView))
	}
	if c.ObjectCount < MinObjectCount || c.ObjectCount > MaxObjectCount {
		errs = append(errs, fmt.Errorf("objectCount: %d outside [%d, %d]", c.ObjectCount, MinObjectCount, MaxObjectCount))
	}
	colors := map[string]string{
		"baseColor":                 c.BaseColor,
		"specularColor":             c.SpecularColor,
		"hyperframeColor":           c.HyperframeColor,
		"hyperframeLineColor":       c.HyperframeLineColor,
		"lighting.ambientColor":     c.Lighting.AmbientColor,
		"lighting.directionalColor": c.Lighting.DirectionalColor,
	}
	for _, name := range sortedKeys(colors) {
		if !IsHexColor(colors[name]) {
			errs = append(errs, fmt.Errorf("%s: %w %q", name, core.ErrInvalidColor, colors[name]))
		}
	}
	sliders := map[string]float32{
		"scale":              c.Scale,
		"metalness":          c.Metalness,
		"emissiveIntensity":  c.EmissiveIntensity,
		"specularIntensity":  c.SpecularIntensity,
		"wireframeIntensity": c.WireframeIntensity,
		"environmentHue":     c.EnvironmentHue,
	}
	for _, name := range sortedKeys(sliders) {
		f := float64(sliders[name])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			errs = append(errs, fmt.Errorf("%s: not a finite number", name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
