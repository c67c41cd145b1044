package systems

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestObject(t *testing.T, ot resources.ObjectType, position math.Vec3, phase float32) *metadata.SceneObject {
	t.Helper()
	g, err := newTestGeometrySystem(t, 4).Build(ot, nil)
	require.NoError(t, err)
	solid := metadata.NewMesh(string(ot), g, metadata.NewMaterial("solid", colorful.Color{R: 1}))
	return metadata.NewSceneObject(string(ot), 0, solid, position, phase)
}

func TestSpiralScenario(t *testing.T) {
	origin := math.NewVec3(1, 0.5, -2)
	o := newTestObject(t, resources.ObjectBox, origin, 0)

	a := NewAnimationSystem(resources.AnimationSpiral)
	require.Equal(t, 1, a.Update([]*metadata.SceneObject{o}, 0.016, 0))

	p := o.Transform.Position
	assert.InDelta(t, origin.X+2, p.X, 1e-6)
	assert.InDelta(t, origin.Y, p.Y, 1e-6)
	assert.InDelta(t, origin.Z, p.Z, 1e-6)
}

func TestStyleSwitchResetsPosition(t *testing.T) {
	origin := math.NewVec3(-3, 0, 0)
	for _, style := range []resources.AnimationStyle{
		resources.AnimationFloat,
		resources.AnimationSpiral,
		resources.AnimationChaos,
		resources.AnimationAlien,
	} {
		t.Run(string(style), func(t *testing.T) {
			o := newTestObject(t, resources.ObjectOctahedron, origin, 0.7)
			objects := []*metadata.SceneObject{o}
			a := NewAnimationSystem(style)
			a.Update(objects, 0.016, 1.3)
			require.False(t, o.Transform.Position.Compare(origin, 1e-4))

			a.SetStyle(resources.AnimationRotate)
			a.Update(objects, 0.016, 1.316)
			assert.Equal(t, origin, o.Transform.Position)
		})
	}
}

func TestVertexStylesRestoreBuffer(t *testing.T) {
	for _, style := range []resources.AnimationStyle{resources.AnimationLiquid, resources.AnimationDNA} {
		t.Run(string(style), func(t *testing.T) {
			o := newTestObject(t, resources.ObjectIcosahedron, math.NewVec3Zero(), 0)
			g := o.Geometry()
			objects := []*metadata.SceneObject{o}

			a := NewAnimationSystem(style)
			a.Update(objects, 0.016, 0.9)
			require.NotEqual(t, g.OriginalPositions, g.Positions)
			generation := g.Generation

			a.SetStyle(resources.AnimationRotate)
			a.Update(objects, 0.016, 0.916)
			assert.Equal(t, g.OriginalPositions, g.Positions)
			assert.Greater(t, g.Generation, generation)
			assert.True(t, g.NeedsUpdate)
		})
	}
}

func TestDeformationDoesNotAccumulate(t *testing.T) {
	o := newTestObject(t, resources.ObjectSphere, math.NewVec3Zero(), 0)
	g := o.Geometry()
	a := NewAnimationSystem(resources.AnimationLiquid)
	objects := []*metadata.SceneObject{o}

	a.Update(objects, 0.016, 2)
	first := append([]float32(nil), g.Positions...)
	for i := 0; i < 10; i++ {
		a.Update(objects, 0.016, 2)
	}
	assert.Equal(t, first, g.Positions)
}

func TestRotateSpinsEveryGroupTogether(t *testing.T) {
	o := newTestObject(t, resources.ObjectBox, math.NewVec3Zero(), 0)
	wire, err := ExtractWireframe(o.Geometry(), metadata.NewMaterial("wire", colorful.Color{}), DefaultWireframeOptions())
	require.NoError(t, err)
	o.AttachWireframe(wire)

	a := NewAnimationSystem(resources.AnimationRotate)
	a.Update([]*metadata.SceneObject{o}, 1, 1)

	assert.InDelta(t, rotateSpeedX, o.Rotation.X, 1e-6)
	assert.InDelta(t, rotateSpeedY, o.Rotation.Y, 1e-6)
	assert.Same(t, o.Transform, o.Solid.Transform.Parent)
	assert.Same(t, o.Transform, wire.Transform.Parent)
}

func TestUnknownStyleFreezes(t *testing.T) {
	o := newTestObject(t, resources.ObjectBox, math.NewVec3Zero(), 0)
	a := NewAnimationSystem(resources.AnimationFloat)
	a.Update([]*metadata.SceneObject{o}, 0.016, 1)
	frozen := o.Transform.Position
	rotation := o.Rotation

	a.SetStyle("metal")
	for i := 0; i < 3; i++ {
		assert.Zero(t, a.Update([]*metadata.SceneObject{o}, 0.016, float32(i)+5))
	}
	assert.Equal(t, frozen, o.Transform.Position)
	assert.Equal(t, rotation, o.Rotation)
}

func TestMalformedObjectsAreSkipped(t *testing.T) {
	good := newTestObject(t, resources.ObjectBox, math.NewVec3Zero(), 0)
	noSolid := metadata.NewSceneObject("box", 1, nil, math.NewVec3Zero(), 0)
	disposed := newTestObject(t, resources.ObjectBox, math.NewVec3Zero(), 0)
	disposed.Geometry().Dispose()
	noMaterial := newTestObject(t, resources.ObjectBox, math.NewVec3Zero(), 0)
	noMaterial.Solid.Material = nil

	a := NewAnimationSystem(resources.AnimationRotate)
	n := a.Update([]*metadata.SceneObject{nil, noSolid, disposed, good, noMaterial}, 0.5, 1)
	assert.Equal(t, 1, n)
	assert.NotZero(t, good.Rotation.Y)
}
