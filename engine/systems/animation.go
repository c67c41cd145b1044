package systems

import (
	"fmt"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

// Motion tuning, in radians or world units per second.
const (
	rotateSpeedX float32 = 0.3
	rotateSpeedY float32 = 0.5

	floatAmplitude  float32 = 0.3
	floatSpinSpeed  float32 = 0.2
	spiralRadius    float32 = 2
	spiralLift      float32 = 0.5
	spiralSpinSpeed float32 = 1.2
	chaosAmplitude  float32 = 1
	chaosSpinSpeed  float32 = 0.8
	alienWobble     float32 = 0.15
	alienSpinSpeed  float32 = 1.5

	liquidAmplitude float32 = 0.06
	liquidFrequency float32 = 4
	dnaTwist        float32 = 1.2
)

// styleFunc deforms one object after the reset prologue.
type styleFunc func(o *metadata.SceneObject, g *metadata.Geometry, delta, t float32)

/**
 * @brief Applies the selected animation style to every SceneObject once per
 * frame. Every style starts from the creation-time vertex buffer and the
 * object's resting position, so switching styles never carries displacement
 * over.
 */
type AnimationSystem struct {
	style  resources.AnimationStyle
	styles map[resources.AnimationStyle]styleFunc
	warn   core.WarnOnce
}

func NewAnimationSystem(style resources.AnimationStyle) *AnimationSystem {
	return &AnimationSystem{
		style: style,
		styles: map[resources.AnimationStyle]styleFunc{
			resources.AnimationRotate: animateRotate,
			resources.AnimationFloat:  animateFloat,
			resources.AnimationSpiral: animateSpiral,
			resources.AnimationChaos:  animateChaos,
			resources.AnimationAlien:  animateAlien,
			resources.AnimationLiquid: animateLiquid,
			resources.AnimationDNA:    animateDNA,
		},
	}
}

func (a *AnimationSystem) Style() resources.AnimationStyle {
	return a.style
}

func (a *AnimationSystem) SetStyle(style resources.AnimationStyle) {
	if style != a.style {
		core.LogDebug("animation style %q -> %q", a.style, style)
	}
	a.style = style
}

/**
 * @brief Runs one frame. Unknown styles freeze every object in place.
 * Objects without geometry or material are skipped with a single warning.
 * Returns the number of objects animated.
 */
func (a *AnimationSystem) Update(objects []*metadata.SceneObject, delta, t float32) int {
	fn, ok := a.styles[a.style]
	if !ok {
		a.warn.Warn("style:"+string(a.style), "unknown animation style %q, animation frozen", a.style)
		return 0
	}
	animated := 0
	for i, o := range objects {
		g, err := animatable(o)
		if err != nil {
			a.warn.Warn(fmt.Sprintf("object:%d", i), "skipping scene object %d: %s", i, err.Error())
			continue
		}
		g.ResetPositions()
		o.Transform.SetPosition(o.OriginalPosition)
		fn(o, g, delta, t)
		animated++
	}
	return animated
}

func animatable(o *metadata.SceneObject) (*metadata.Geometry, error) {
	if o == nil || o.Transform == nil {
		return nil, fmt.Errorf("object has no transform")
	}
	g := o.Geometry()
	if g.IsDisposed() {
		return nil, fmt.Errorf("object has no geometry")
	}
	if o.Solid.Material == nil {
		return nil, fmt.Errorf("object has no material")
	}
	if len(g.OriginalPositions) != len(g.Positions) || len(g.Positions) == 0 {
		return nil, fmt.Errorf("object vertex snapshot does not match its buffer")
	}
	return g, nil
}

func spin(o *metadata.SceneObject, dx, dy, dz float32) {
	o.SetRotation(o.Rotation.Add(math.Euler{X: dx, Y: dy, Z: dz}))
}

func offset(o *metadata.SceneObject, d math.Vec3) {
	o.Transform.SetPosition(o.OriginalPosition.Add(d))
}

func animateRotate(o *metadata.SceneObject, _ *metadata.Geometry, delta, _ float32) {
	spin(o, rotateSpeedX*delta, rotateSpeedY*delta, 0)
}

func animateFloat(o *metadata.SceneObject, _ *metadata.Geometry, delta, t float32) {
	offset(o, math.NewVec3(0, math.Sin(t+o.Phase)*floatAmplitude, 0))
	spin(o, 0, floatSpinSpeed*delta, 0)
}

func animateSpiral(o *metadata.SceneObject, _ *metadata.Geometry, delta, t float32) {
	a := t + o.Phase
	offset(o, math.NewVec3(
		math.Cos(a)*spiralRadius,
		math.Sin(2*a)*spiralLift,
		math.Sin(a)*spiralRadius,
	))
	spin(o, spiralSpinSpeed*delta, spiralSpinSpeed*1.5*delta, 0)
}

func animateChaos(o *metadata.SceneObject, _ *metadata.Geometry, delta, t float32) {
	a := t + o.Phase
	offset(o, math.NewVec3(
		math.Sin(a*2.3)*math.Cos(a*1.1)*chaosAmplitude,
		math.Sin(a*1.7)*math.Cos(a*2.2)*chaosAmplitude,
		math.Sin(a*1.4)*math.Cos(a*3.1)*chaosAmplitude,
	))
	spin(o,
		math.Sin(a*1.3)*chaosSpinSpeed*delta,
		math.Cos(a*0.9)*chaosSpinSpeed*delta,
		math.Sin(a*0.7)*chaosSpinSpeed*delta,
	)
}

func animateAlien(o *metadata.SceneObject, _ *metadata.Geometry, delta, t float32) {
	a := t + o.Phase
	spin(o,
		math.Sin(a*0.8)*alienSpinSpeed*delta,
		math.Sin(a*1.2)*alienSpinSpeed*delta,
		math.Sin(a*0.6)*alienSpinSpeed*delta,
	)
	offset(o, math.NewVec3(
		math.Sin(a*1.1)*alienWobble,
		math.Cos(a*0.9)*alienWobble,
		math.Sin(a*0.7)*alienWobble,
	))
}

// animateLiquid pushes every vertex along its normal by a travelling wave.
func animateLiquid(o *metadata.SceneObject, g *metadata.Geometry, delta, t float32) {
	hasNormals := len(g.Normals) == len(g.Positions)
	for i := 0; i < g.VertexCount(); i++ {
		v := g.OriginalVertex(i)
		n := v.Normalized()
		if hasNormals {
			n = math.NewVec3FromSlice(g.Normals, i)
		}
		w := math.Sin(t*2+o.Phase+v.Y*liquidFrequency) * math.Cos(t*1.3+v.X*liquidFrequency)
		v.Add(n.MulScalar(w * liquidAmplitude)).Store(g.Positions, i)
	}
	spin(o, 0, rotateSpeedY*0.5*delta, 0)
}

// animateDNA twists the buffer about Y, proportionally to height.
func animateDNA(o *metadata.SceneObject, g *metadata.Geometry, delta, t float32) {
	amount := math.Sin(t+o.Phase) * dnaTwist
	for i := 0; i < g.VertexCount(); i++ {
		v := g.OriginalVertex(i)
		angle := v.Y * amount
		s, c := math.Sin(angle), math.Cos(angle)
		math.NewVec3(v.X*c+v.Z*s, v.Y, -v.X*s+v.Z*c).Store(g.Positions, i)
	}
	spin(o, 0, rotateSpeedY*delta, 0)
}
