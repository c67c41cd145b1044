package systems

import (
	"errors"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

const maxShininess float32 = 100

/**
 * @brief The material/scale update layer. Each rule walks the scene's
 * objects and mutates one material or transform field. Rules never rebuild
 * geometry or reallocate meshes. Slider values are clamped; invalid colors
 * keep the previous value.
 */
type MaterialSystem struct {
	warn core.WarnOnce
}

func NewMaterialSystem() *MaterialSystem {
	return &MaterialSystem{}
}

// parseColor reports a warning and returns an error for invalid input.
func (ms *MaterialSystem) parseColor(param, hex string) (colorful.Color, error) {
	c, _, err := resources.ParseHexColor(hex)
	if err != nil {
		ms.warn.Warn(param+":"+hex, "%s: keeping previous color: %s", param, err.Error())
		return colorful.Color{}, fmt.Errorf("%s: %w", param, err)
	}
	return c, nil
}

func solidMaterials(s *Scene, fn func(m *metadata.Material)) {
	for _, o := range s.Objects {
		if o.Solid != nil && o.Solid.Material != nil {
			fn(o.Solid.Material)
			o.Solid.Material.Touch()
		}
	}
}

func groupMaterials(groups []*metadata.Group, fn func(m *metadata.Material)) {
	for _, g := range groups {
		if g != nil && g.Material != nil {
			fn(g.Material)
			g.Material.Touch()
		}
	}
}

func (ms *MaterialSystem) SetScale(s *Scene, scale float32) {
	scale = resources.ClampSlider(scale, resources.MinScale, resources.MaxScale)
	for _, o := range s.Objects {
		o.Transform.SetScale(math.NewVec3(scale, scale, scale))
	}
	s.Config.Scale = scale
}

// SetShininess maps metalness in [0, 1] onto the specular exponent.
func (ms *MaterialSystem) SetShininess(s *Scene, metalness float32) {
	metalness = resources.ClampSlider(metalness, 0, 1)
	solidMaterials(s, func(m *metadata.Material) {
		m.Shininess = 1 + metalness*(maxShininess-1)
	})
	s.Config.Metalness = metalness
}

func (ms *MaterialSystem) SetEmissiveIntensity(s *Scene, intensity float32) {
	intensity = resources.ClampSlider(intensity, 0, resources.MaxEmissive)
	solidMaterials(s, func(m *metadata.Material) {
		m.Emissive = m.Color
		m.EmissiveIntensity = intensity
	})
	s.Config.EmissiveIntensity = intensity
}

func (ms *MaterialSystem) SetSpecularColor(s *Scene, hex string) error {
	c, err := ms.parseColor("specularColor", hex)
	if err != nil {
		return err
	}
	solidMaterials(s, func(m *metadata.Material) { m.Specular = c })
	s.Config.SpecularColor = hex
	return nil
}

func (ms *MaterialSystem) SetSpecularIntensity(s *Scene, intensity float32) {
	intensity = resources.ClampSlider(intensity, 0, resources.MaxSpecular)
	solidMaterials(s, func(m *metadata.Material) { m.SpecularIntensity = intensity })
	s.Config.SpecularIntensity = intensity
}

// SetBaseColor recolours the solid and its wireframe.
func (ms *MaterialSystem) SetBaseColor(s *Scene, hex string) error {
	c, err := ms.parseColor("baseColor", hex)
	if err != nil {
		return err
	}
	solidMaterials(s, func(m *metadata.Material) {
		m.Color = c
		if m.EmissiveIntensity > 0 {
			m.Emissive = c
		}
	})
	for _, o := range s.Objects {
		groupMaterials([]*metadata.Group{o.Wireframe}, func(m *metadata.Material) { m.Color = c })
	}
	s.Config.BaseColor = hex
	return nil
}

/**
 * @brief Cross-fades solid and wireframe. intensity is in [0, 100]. At 0
 * the solid is opaque and the wireframe invisible, at 100 the reverse, and
 * in between both are translucent with complementary opacities. Skeleton
 * opacity is not affected.
 */
func (ms *MaterialSystem) SetWireframeIntensity(s *Scene, intensity float32) {
	intensity = resources.ClampSlider(intensity, 0, resources.MaxWireframe)
	w := intensity / resources.MaxWireframe
	solidMaterials(s, func(m *metadata.Material) {
		m.Opacity = 1 - w
		m.Transparent = w > 0
	})
	for _, o := range s.Objects {
		groupMaterials([]*metadata.Group{o.Wireframe}, func(m *metadata.Material) {
			m.Opacity = w
			m.Transparent = w < 1
		})
	}
	s.Config.WireframeIntensity = intensity
}

func (ms *MaterialSystem) SetHyperframeColor(s *Scene, hex string) error {
	c, err := ms.parseColor("hyperframeColor", hex)
	if err != nil {
		return err
	}
	for _, o := range s.Objects {
		groupMaterials([]*metadata.Group{o.CenterLines}, func(m *metadata.Material) { m.Color = c })
	}
	s.Config.HyperframeColor = hex
	return nil
}

func (ms *MaterialSystem) SetHyperframeLineColor(s *Scene, hex string) error {
	c, err := ms.parseColor("hyperframeLineColor", hex)
	if err != nil {
		return err
	}
	for _, o := range s.Objects {
		groupMaterials([]*metadata.Group{o.CurvedLines, o.Diagonals}, func(m *metadata.Material) { m.Color = c })
	}
	s.Config.HyperframeLineColor = hex
	return nil
}

// SetLighting applies every valid field of cfg. Invalid colors keep the
// previous value and are reported together.
func (ms *MaterialSystem) SetLighting(s *Scene, cfg resources.LightingConfig) error {
	var errs []error
	if c, err := ms.parseColor("lighting.ambientColor", cfg.AmbientColor); err == nil {
		s.Lighting.AmbientColor = c
		s.Config.Lighting.AmbientColor = cfg.AmbientColor
	} else {
		errs = append(errs, err)
	}
	if c, err := ms.parseColor("lighting.directionalColor", cfg.DirectionalColor); err == nil {
		s.Lighting.DirectionalColor = c
		s.Config.Lighting.DirectionalColor = cfg.DirectionalColor
	} else {
		errs = append(errs, err)
	}
	ambient := resources.ClampSlider(cfg.AmbientIntensity, 0, resources.MaxLightLevel)
	directional := resources.ClampSlider(cfg.DirectionalIntensity, 0, resources.MaxLightLevel)
	s.Lighting.AmbientIntensity = ambient
	s.Lighting.DirectionalIntensity = directional
	p := cfg.DirectionalPosition
	if math.IsFinite(p.X) && math.IsFinite(p.Y) && math.IsFinite(p.Z) {
		s.Lighting.DirectionalPosition = math.NewVec3(p.X, p.Y, p.Z)
		s.Config.Lighting.DirectionalPosition = p
	}
	s.Config.Lighting.AmbientIntensity = ambient
	s.Config.Lighting.DirectionalIntensity = directional
	return errors.Join(errs...)
}

// SetEnvironment changes the background. Unknown environment names keep the
// previous environment, or "void" when there is none.
func (ms *MaterialSystem) SetEnvironment(s *Scene, name string, hue float32) {
	hue = resources.ClampSlider(hue, 0, resources.MaxHue)
	if !resources.KnownEnvironment(name) {
		ms.warn.Warn("environment:"+name, "unknown environment %q, keeping %q", name, s.Environment.Name)
		name = s.Environment.Name
		if !resources.KnownEnvironment(name) {
			name = "void"
		}
	}
	s.Environment = metadata.Environment{
		Name:       name,
		Hue:        hue,
		Background: resources.EnvironmentBackground(name, hue),
	}
	s.Orbs.SetHue(hue)
	s.Config.Environment = name
	s.Config.EnvironmentHue = hue
}

func (ms *MaterialSystem) Shutdown() error {
	return nil
}
