package metadata

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *Geometry {
	g := NewGeometry("tri", []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2})
	g.UserData.Layers = map[string]float32{"outer": 1}
	g.UserData.CanonicalVertexMap = map[string]uint32{CanonicalKey(0, 0): 0}
	return g
}

func TestResetPositionsRestoresSnapshot(t *testing.T) {
	g := triangle()
	g.Positions[0] = 5
	gen := g.Generation
	buf := &g.Positions[0]

	g.ResetPositions()
	assert.Equal(t, g.OriginalPositions, g.Positions)
	assert.Same(t, buf, &g.Positions[0])
	assert.True(t, g.NeedsUpdate)
	assert.Greater(t, g.Generation, gen)
}

func TestCloneIsDeep(t *testing.T) {
	g := triangle()
	c := g.Clone()
	c.Positions[0] = 9
	c.UserData.Layers["outer"] = 2
	c.UserData.CanonicalVertexMap["0:0"] = 7

	assert.Equal(t, float32(0), g.Positions[0])
	assert.Equal(t, float32(1), g.UserData.Layers["outer"])
	assert.Equal(t, uint32(0), g.UserData.CanonicalVertexMap["0:0"])
}

func TestExtents(t *testing.T) {
	g := triangle()
	assert.Equal(t, math.NewVec3(1, 1, 0), g.Extents.Max)
	assert.Equal(t, 3, g.VertexCount())
}

func TestSceneObjectDispose(t *testing.T) {
	g := triangle()
	mat := NewMaterial("solid", colorful.Color{R: 1})
	obj := NewSceneObject("box", 0, NewMesh("solid", g, mat), math.NewVec3(1, 0, 0), 0)

	cyl := triangle()
	wire := NewGroup("wireframe", NewUnlitMaterial("wire", mat.Color, 0))
	wire.Add(NewMesh("strut", cyl, wire.Material))
	wire.Add(NewMesh("strut", cyl, wire.Material))
	obj.AttachWireframe(wire)
	require.Len(t, obj.Groups(), 1)
	assert.Same(t, obj.Transform, wire.Transform.Parent)

	obj.Dispose()
	assert.True(t, g.IsDisposed())
	assert.True(t, cyl.IsDisposed())
	assert.True(t, mat.IsDisposed())
	assert.True(t, wire.Material.IsDisposed())
	assert.Nil(t, obj.Geometry())
}

func TestEffectiveOpacity(t *testing.T) {
	m := NewUnlitMaterial("m", colorful.Color{R: 1}, 0.8)
	assert.True(t, m.Transparent)
	assert.Equal(t, float32(0.8), m.EffectiveOpacity())
	m.Transparent = false
	assert.Equal(t, float32(1), m.EffectiveOpacity())
	m.Visible = false
	assert.Equal(t, float32(0), m.EffectiveOpacity())
}
