package metadata

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as colour, opacity
 * and shininess.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The diffuse colour. */
	Color colorful.Color
	/** @brief The emissive colour, scaled by EmissiveIntensity. */
	Emissive          colorful.Color
	EmissiveIntensity float32
	/** @brief The specular highlight colour, scaled by SpecularIntensity. */
	Specular          colorful.Color
	SpecularIntensity float32
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
	/** @brief Opacity in [0, 1]. Only honoured when Transparent is set. */
	Opacity     float32
	Transparent bool
	/** @brief Flat colour, ignores scene lighting. */
	Unlit bool
	/** @brief Draw triangle edges only. */
	Wireframe bool
	Visible   bool
	disposed  bool
}

func NewMaterial(name string, color colorful.Color) *Material {
	return &Material{
		Name:      name,
		Color:     color,
		Emissive:  colorful.Color{},
		Specular:  colorful.Color{R: 1, G: 1, B: 1},
		Shininess: 30,
		Opacity:   1,
		Visible:   true,
	}
}

// NewUnlitMaterial returns a flat colour material, used by strut groups.
func NewUnlitMaterial(name string, color colorful.Color, opacity float32) *Material {
	m := NewMaterial(name, color)
	m.Unlit = true
	m.Opacity = opacity
	m.Transparent = opacity < 1
	return m
}

func (m *Material) Touch() {
	m.Generation++
}

// EffectiveOpacity is the opacity the renderer should use.
func (m *Material) EffectiveOpacity() float32 {
	if !m.Visible {
		return 0
	}
	if !m.Transparent {
		return 1
	}
	return m.Opacity
}

func (m *Material) Clone() *Material {
	c := *m
	c.Generation = 0
	return &c
}

func (m *Material) Dispose() {
	m.disposed = true
	m.Visible = false
}

func (m *Material) IsDisposed() bool {
	return m == nil || m.disposed
}
