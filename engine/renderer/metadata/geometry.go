package metadata

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spaghettifunk/geomstudio/engine/math"
)

/**
 * @brief Tags stamped by the geometry factory. Hyperframe builders read these
 * to reconstruct canonical vertex positions instead of guessing them.
 */
type GeometryUserData struct {
	/** @brief True when the buffer merges several transformed copies. */
	IsCompound bool
	/** @brief The object type key the geometry was built for. */
	BaseType string
	/** @brief The number of sub-geometries merged into the buffer. */
	ComponentCount int
	/** @brief Named scales of nested shells, e.g. "outer", "inner", "tiny". */
	Layers map[string]float32
	/** @brief Euler rotations of each compound copy, in build order. */
	Rotations []math.Euler
	/** @brief Extra rotation of a nested layer, applied before the copy rotation. */
	LayerRotations map[string]math.Euler
	/**
	 * @brief Maps "<copy>:<corner>" of the outer shell to the vertex index in
	 * the merged buffer holding that corner.
	 */
	CanonicalVertexMap map[string]uint32
	/** @brief Set by builders that use randomness. Never hyperframed. */
	Decorative bool
}

// CanonicalKey builds the key used by CanonicalVertexMap.
func CanonicalKey(copyIndex, corner int) string {
	return fmt.Sprintf("%d:%d", copyIndex, corner)
}

func (u GeometryUserData) Clone() GeometryUserData {
	out := u
	out.Layers = maps.Clone(u.Layers)
	out.Rotations = slices.Clone(u.Rotations)
	out.LayerRotations = maps.Clone(u.LayerRotations)
	out.CanonicalVertexMap = maps.Clone(u.CanonicalVertexMap)
	return out
}

/**
 * @brief A merged buffer geometry. Once built it is a single flat
 * vertex/index buffer with no shared sub-meshes.
 */
type Geometry struct {
	/** @brief The geometry name. */
	Name string
	/** @brief Flat xyz triples, mutated by the animation engine. */
	Positions []float32
	/** @brief Snapshot of Positions at creation time. Never mutated. */
	OriginalPositions []float32
	/** @brief Flat xyz vertex normals. */
	Normals []float32
	/** @brief Triangle list indices into the vertex buffers. */
	Indices []uint32
	/** @brief Builder metadata. */
	UserData GeometryUserData
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief Incremented every time the vertex buffer is rewritten. */
	Generation uint32
	/** @brief Set when Positions changed since the last upload. */
	NeedsUpdate bool
	disposed    bool
}

// NewGeometry builds a geometry from owned buffers and snapshots the
// original positions.
func NewGeometry(name string, positions []float32, indices []uint32) *Geometry {
	g := &Geometry{
		Name:              name,
		Positions:         positions,
		OriginalPositions: slices.Clone(positions),
		Indices:           indices,
	}
	g.ComputeExtents()
	return g
}

func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

func (g *Geometry) Vertex(i int) math.Vec3 {
	return math.NewVec3FromSlice(g.Positions, i)
}

func (g *Geometry) OriginalVertex(i int) math.Vec3 {
	return math.NewVec3FromSlice(g.OriginalPositions, i)
}

// ResetPositions copies OriginalPositions back into the live buffer.
// No allocation happens when the buffers have matching sizes.
func (g *Geometry) ResetPositions() {
	if len(g.Positions) != len(g.OriginalPositions) {
		g.Positions = make([]float32, len(g.OriginalPositions))
	}
	copy(g.Positions, g.OriginalPositions)
	g.MarkDirty()
}

func (g *Geometry) MarkDirty() {
	g.Generation++
	g.NeedsUpdate = true
}

func (g *Geometry) ComputeNormals() {
	g.Normals = math.GeometryGenerateNormals(g.Positions, g.Indices)
}

func (g *Geometry) ComputeExtents() math.Extents3D {
	g.Extents = math.ExtentsFromPositions(g.Positions)
	return g.Extents
}

// Clone returns a deep copy with independent buffers.
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Name:              g.Name,
		Positions:         slices.Clone(g.Positions),
		OriginalPositions: slices.Clone(g.OriginalPositions),
		Normals:           slices.Clone(g.Normals),
		Indices:           slices.Clone(g.Indices),
		UserData:          g.UserData.Clone(),
		Extents:           g.Extents,
	}
}

// Dispose releases the buffers. A disposed geometry must not be rendered.
func (g *Geometry) Dispose() {
	g.Positions = nil
	g.OriginalPositions = nil
	g.Normals = nil
	g.Indices = nil
	g.disposed = true
}

func (g *Geometry) IsDisposed() bool {
	return g == nil || g.disposed
}
