package systems

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strutEndpoints(m *metadata.Mesh) (math.Vec3, math.Vec3) {
	local := m.Transform.GetLocal()
	return math.NewVec3(0, 0.5, 0).Transform(local), math.NewVec3(0, -0.5, 0).Transform(local)
}

func TestBoxWireframeHasTwelveEdges(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	g, err := gs.Build(resources.ObjectBox, nil)
	require.NoError(t, err)

	group, err := ExtractWireframe(g, metadata.NewMaterial("wire", colorful.Color{G: 1}), DefaultWireframeOptions())
	require.NoError(t, err)
	require.Equal(t, 12, group.Len())

	unit := group.Children[0].Geometry
	for _, m := range group.Children {
		assert.Same(t, unit, m.Geometry)
		assert.InDelta(t, 1.5, m.BaseLength, 1e-5)

		a, b := strutEndpoints(m)
		for _, c := range []float32{a.X, a.Y, a.Z, b.X, b.Y, b.Z} {
			assert.InDelta(t, 0.75, math.Abs(c), 1e-4)
		}
		assert.InDelta(t, 1.5, a.Distance(b), 1e-4)
	}
}

func TestWireframeHasNoDegenerateStruts(t *testing.T) {
	gs := newTestGeometrySystem(t, 32)
	for _, ot := range resources.ObjectTypes() {
		t.Run(string(ot), func(t *testing.T) {
			g, err := gs.Build(ot, nil)
			require.NoError(t, err)
			group, err := ExtractWireframe(g, metadata.NewMaterial("wire", colorful.Color{}), DefaultWireframeOptions())
			require.NoError(t, err)
			require.Positive(t, group.Len())
			for _, m := range group.Children {
				assert.GreaterOrEqual(t, m.BaseLength, DegenerateEdgeLength)
				s := m.Transform.Scale
				for _, c := range []float32{s.X, s.Y, s.Z} {
					assert.True(t, math.IsFinite(c))
					assert.Positive(t, c)
				}
			}
		})
	}
}

func TestEdgePairsSkipsShortEdges(t *testing.T) {
	// a sliver triangle with one edge below the threshold
	g := metadata.NewGeometry("sliver", []float32{
		0, 0, 0,
		1, 0, 0,
		1, 0.0001, 0,
	}, []uint32{0, 1, 2})

	group, err := ExtractWireframe(g, metadata.NewMaterial("wire", colorful.Color{}), DefaultWireframeOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, group.Len())
	assert.Len(t, EdgePairs(g, 1), 3)
}

func TestEdgePairsDropsCoplanarDiagonals(t *testing.T) {
	quad := metadata.NewGeometry("quad", []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3})
	assert.Len(t, EdgePairs(quad, 1), 4)
	// a zero threshold keeps every shared edge
	assert.Len(t, EdgePairs(quad, 0), 5)
}

func TestExtractWireframeEmptyGeometry(t *testing.T) {
	g := metadata.NewGeometry("empty", nil, nil)
	_, err := ExtractWireframe(g, metadata.NewMaterial("wire", colorful.Color{}), DefaultWireframeOptions())
	assert.ErrorIs(t, err, core.ErrEmptyGeometry)
}
