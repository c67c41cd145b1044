package metadata

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/math"
)

/** @brief Scene lighting parameters. */
type Lighting struct {
	AmbientColor         colorful.Color
	AmbientIntensity     float32
	DirectionalColor     colorful.Color
	DirectionalIntensity float32
	DirectionalPosition  math.Vec3
}

func DefaultLighting() Lighting {
	return Lighting{
		AmbientColor:         colorful.Color{R: 1, G: 1, B: 1},
		AmbientIntensity:     0.4,
		DirectionalColor:     colorful.Color{R: 1, G: 1, B: 1},
		DirectionalIntensity: 1,
		DirectionalPosition:  math.NewVec3(5, 5, 5),
	}
}

/** @brief Background environment of a scene. */
type Environment struct {
	Name       string
	Hue        float32
	Background colorful.Color
}

/** @brief A decorative orb, drawn as a billboard disc. */
type Orb struct {
	Position math.Vec3
	Radius   float32
	Color    colorful.Color
	Opacity  float32
}

/**
 * @brief Everything a backend needs to draw one frame.
 */
type RenderPacket struct {
	DeltaTime   float64
	Time        float64
	View        math.Mat4
	Projection  math.Mat4
	CameraPos   math.Vec3
	Objects     []*SceneObject
	Lighting    Lighting
	Environment Environment
	Orbs        []Orb
}
