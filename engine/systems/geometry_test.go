package systems

import (
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeometrySystem(t *testing.T, max uint32) *GeometrySystem {
	t.Helper()
	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxCachedGeometries: max})
	require.NoError(t, err)
	return gs
}

func TestNewGeometrySystemRejectsZeroCache(t *testing.T) {
	_, err := NewGeometrySystem(&GeometrySystemConfig{})
	assert.Error(t, err)
}

func TestEveryObjectTypeBuilds(t *testing.T) {
	gs := newTestGeometrySystem(t, 64)
	for _, ot := range resources.ObjectTypes() {
		t.Run(string(ot), func(t *testing.T) {
			g, err := gs.Build(ot, nil)
			require.NoError(t, err)
			assert.Positive(t, g.VertexCount())
			assert.Len(t, g.Normals, len(g.Positions))
			assert.Equal(t, string(ot), g.UserData.BaseType)
			assert.Zero(t, len(g.Indices)%3)
			for _, idx := range g.Indices {
				require.Less(t, int(idx), g.VertexCount())
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, ot := range resources.ObjectTypes() {
		t.Run(string(ot), func(t *testing.T) {
			// separate systems so the cache cannot hide a difference
			a, err := newTestGeometrySystem(t, 4).Build(ot, nil)
			require.NoError(t, err)
			b, err := newTestGeometrySystem(t, 4).Build(ot, nil)
			require.NoError(t, err)
			assert.Equal(t, a.Positions, b.Positions)
			assert.Equal(t, a.Indices, b.Indices)
		})
	}
}

func TestBuildReturnsIndependentClones(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	a, err := gs.Build(resources.ObjectBox, nil)
	require.NoError(t, err)
	a.Positions[0] = 42
	a.UserData.Layers["outer"] = 9

	b, err := gs.Build(resources.ObjectBox, nil)
	require.NoError(t, err)
	assert.NotEqual(t, float32(42), b.Positions[0])
	assert.Equal(t, float32(0.75), b.UserData.Layers["outer"])

	hits, misses := gs.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheKeyIgnoresOptionOrder(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	_, err := gs.Build(resources.ObjectSphere, metadata.GeometryOptions{"radius": 2, "widthSegments": 8, "heightSegments": 4})
	require.NoError(t, err)
	_, err = gs.Build(resources.ObjectSphere, metadata.GeometryOptions{"heightSegments": 4, "radius": 2, "widthSegments": 8})
	require.NoError(t, err)
	hits, _ := gs.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, 1, gs.CachedCount())
}

func TestCacheEvictsOldest(t *testing.T) {
	gs := newTestGeometrySystem(t, 2)
	for _, size := range []float32{1, 2, 3} {
		_, err := gs.Build(resources.ObjectBox, metadata.GeometryOptions{"size": size})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, gs.CachedCount())

	// size 1 was evicted and is rebuilt
	_, err := gs.Build(resources.ObjectBox, metadata.GeometryOptions{"size": float32(1)})
	require.NoError(t, err)
	hits, misses := gs.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(4), misses)
}

func TestBuildUnknownObjectType(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	_, err := gs.Build("hyperdonut", nil)
	assert.ErrorIs(t, err, core.ErrUnknownObjectType)
}

func TestBuildRejectsMalformedOptions(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	tests := []struct {
		name string
		ot   resources.ObjectType
		opts metadata.GeometryOptions
	}{
		{"negative size", resources.ObjectBox, metadata.GeometryOptions{"size": -1}},
		{"zero radius", resources.ObjectSphere, metadata.GeometryOptions{"radius": 0}},
		{"nan radius", resources.ObjectIcosahedron, metadata.GeometryOptions{"radius": stdmath.NaN()}},
		{"non numeric", resources.ObjectTesseract, metadata.GeometryOptions{"size": "large"}},
		{"detail out of range", resources.ObjectOctahedron, metadata.GeometryOptions{"detail": 99}},
		{"bool", resources.ObjectTorus, metadata.GeometryOptions{"tube": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := gs.Build(tt.ot, tt.opts)
			assert.ErrorIs(t, err, core.ErrInvalidOptions)
			assert.Nil(t, g)
		})
	}
}

func TestMergeZeroPartsFails(t *testing.T) {
	_, err := mergeParts("nothing", nil)
	assert.ErrorIs(t, err, core.ErrEmptyGeometry)
}

func TestBoxGeometry(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	g, err := gs.Build(resources.ObjectBox, nil)
	require.NoError(t, err)

	assert.Equal(t, 24, g.VertexCount())
	assert.Len(t, g.Indices, 36)
	assert.Equal(t, math.NewVec3(-0.75, -0.75, -0.75), g.Extents.Min)
	assert.Equal(t, math.NewVec3(0.75, 0.75, 0.75), g.Extents.Max)
	assert.False(t, g.UserData.IsCompound)
	assert.Equal(t, 1, g.UserData.ComponentCount)
	assert.Equal(t, float32(0.375), g.UserData.Layers["inner"])
}

func TestCanonicalVertexMapPointsAtCorners(t *testing.T) {
	gs := newTestGeometrySystem(t, 8)
	tests := []struct {
		ot     resources.ObjectType
		family *shapeFamily
		copies int
	}{
		{resources.ObjectBox, cubeFamily, 1},
		{resources.ObjectCompoundBox, cubeFamily, 2},
		{resources.ObjectMegaTesseract, cubeFamily, 8},
		{resources.ObjectNineCompound, cubeFamily, 9},
		{resources.ObjectTesseract, cubeFamily, 1},
		{resources.ObjectOctahedron, octahedronFamily, 1},
		{resources.ObjectCompoundTetrahedron, tetrahedronFamily, 2},
		{resources.ObjectCell24, cuboctahedronFamily, 1},
		{resources.ObjectStellatedLayers, icosahedronFamily, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.ot), func(t *testing.T) {
			g, err := gs.Build(tt.ot, nil)
			require.NoError(t, err)
			require.Len(t, g.UserData.Rotations, tt.copies)
			require.Len(t, g.UserData.CanonicalVertexMap, tt.copies*len(tt.family.vertices))
			outer := g.UserData.Layers["outer"]
			for c, rot := range g.UserData.Rotations {
				for k, corner := range tt.family.vertices {
					idx, ok := g.UserData.CanonicalVertexMap[metadata.CanonicalKey(c, k)]
					require.True(t, ok)
					want := corner.MulScalar(outer).ApplyEuler(rot)
					assert.True(t, g.Vertex(int(idx)).Compare(want, 1e-4), "copy %d corner %d", c, k)
				}
			}
		})
	}
}

func TestCompoundGeometryMetadata(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	g, err := gs.Build(resources.ObjectNineCompound, nil)
	require.NoError(t, err)
	assert.True(t, g.UserData.IsCompound)
	assert.Equal(t, 9, g.UserData.ComponentCount)
	assert.Equal(t, nineCompoundRotations(), g.UserData.Rotations)
}

func TestMegaTesseractCopiesAreDistinct(t *testing.T) {
	rotations := megaTesseractRotations()
	require.Len(t, rotations, 8)
	for i := range rotations {
		for j := i + 1; j < len(rotations); j++ {
			assert.NotEqual(t, rotations[i], rotations[j])
		}
	}
}

func TestFloatingCityIsSeeded(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	a, err := gs.Build(resources.ObjectFloatingCity, metadata.GeometryOptions{"seed": 3})
	require.NoError(t, err)
	b, err := newTestGeometrySystem(t, 4).Build(resources.ObjectFloatingCity, metadata.GeometryOptions{"seed": 3})
	require.NoError(t, err)
	c, err := gs.Build(resources.ObjectFloatingCity, metadata.GeometryOptions{"seed": 4})
	require.NoError(t, err)

	assert.True(t, a.UserData.Decorative)
	assert.Equal(t, a.Positions, b.Positions)
	assert.NotEqual(t, a.Positions, c.Positions)
}

func TestStellatedLayersMetadata(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	g, err := gs.Build(resources.ObjectStellatedLayers, metadata.GeometryOptions{"layers": 4})
	require.NoError(t, err)
	require.Len(t, g.UserData.Layers, 4)
	prev := g.UserData.Layers["outer"]
	for i := 1; i < 4; i++ {
		r, ok := g.UserData.Layers[layerName(i)]
		require.True(t, ok)
		assert.InDelta(t, prev/math.K_PHI, r, 1e-5)
		prev = r
	}
}

func TestShapeFamilyEdgeCounts(t *testing.T) {
	tests := []struct {
		family *shapeFamily
		edges  int
	}{
		{cubeFamily, 12},
		{tetrahedronFamily, 6},
		{octahedronFamily, 12},
		{cuboctahedronFamily, 24},
		{icosahedronFamily, 30},
	}
	for _, tt := range tests {
		t.Run(tt.family.name, func(t *testing.T) {
			assert.Len(t, tt.family.edges, tt.edges)
		})
	}
}

func TestShutdownDisposesCache(t *testing.T) {
	gs := newTestGeometrySystem(t, 4)
	g, err := gs.Build(resources.ObjectBox, nil)
	require.NoError(t, err)
	require.NoError(t, gs.Shutdown())
	assert.Zero(t, gs.CachedCount())
	assert.False(t, g.IsDisposed())
}
