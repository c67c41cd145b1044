package systems

import (
	"fmt"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

const (
	// Edges shorter than this come from merge noise and are skipped.
	DegenerateEdgeLength float32 = 1e-3

	defaultWireframeRadius  float32 = 0.005
	defaultThresholdAngle   float32 = 1
	edgeHashPrecision               = 4
	strutRadialSegments             = 8
)

type WireframeOptions struct {
	/** @brief Strut cylinder radius. */
	Radius float32
	/** @brief Edges between faces whose normals differ by less than this many degrees are dropped. */
	ThresholdAngle float32
	/** @brief Number of sides of each strut cylinder. */
	RadialSegments int
}

func DefaultWireframeOptions() WireframeOptions {
	return WireframeOptions{
		Radius:         defaultWireframeRadius,
		ThresholdAngle: defaultThresholdAngle,
		RadialSegments: strutRadialSegments,
	}
}

type edgeRecord struct {
	a, b   uint32
	normal math.Vec3
	open   bool
}

/**
 * @brief Reduces a triangle buffer to its feature edges: edges whose two
 * faces bend by more than thresholdAngle degrees, plus every edge used by a
 * single face. Vertices are welded by position, so merged buffers with
 * duplicated vertices yield each edge once.
 */
func EdgePairs(g *metadata.Geometry, thresholdAngle float32) [][2]math.Vec3 {
	thresholdDot := math.Cos(math.DegToRad(thresholdAngle))
	records := make(map[string]*edgeRecord)
	var order []string
	var out [][2]math.Vec3

	vertex := func(i uint32) math.Vec3 { return g.Vertex(int(i)) }
	indices := g.Indices
	if indices == nil {
		indices = make([]uint32, g.VertexCount())
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for f := 0; f+2 < len(indices); f += 3 {
		tri := [3]uint32{indices[f], indices[f+1], indices[f+2]}
		a, b, c := vertex(tri[0]), vertex(tri[1]), vertex(tri[2])
		normal := c.Sub(b).Cross(a.Sub(b)).Normalized()

		var hashes [3]string
		for j := 0; j < 3; j++ {
			hashes[j] = math.PositionKey(vertex(tri[j]), edgeHashPrecision)
		}
		if hashes[0] == hashes[1] || hashes[1] == hashes[2] || hashes[2] == hashes[0] {
			continue
		}

		for j := 0; j < 3; j++ {
			next := (j + 1) % 3
			hash := hashes[j] + "_" + hashes[next]
			reverse := hashes[next] + "_" + hashes[j]
			if r, ok := records[reverse]; ok && r.open {
				if normal.Dot(r.normal) <= thresholdDot {
					out = append(out, [2]math.Vec3{vertex(tri[j]), vertex(tri[next])})
				}
				r.open = false
			} else if _, ok := records[hash]; !ok {
				records[hash] = &edgeRecord{a: tri[j], b: tri[next], normal: normal, open: true}
				order = append(order, hash)
			}
		}
	}

	for _, key := range order {
		if r := records[key]; r.open {
			out = append(out, [2]math.Vec3{vertex(r.a), vertex(r.b)})
		}
	}
	return out
}

// strutGroup accumulates cylinder struts sharing one unit geometry.
type strutGroup struct {
	group   *metadata.Group
	unit    *metadata.Geometry
	skipped int
}

func newStrutGroup(name string, material *metadata.Material, radialSegments int) *strutGroup {
	p := cylinderPart(radialSegments)
	unit := metadata.NewGeometry("strut", p.positions, p.indices)
	unit.ComputeNormals()
	return &strutGroup{
		group: metadata.NewGroup(name, material),
		unit:  unit,
	}
}

/**
 * @brief Adds a strut from a to b: positioned at the midpoint, rotated from
 * +Y onto the edge direction, scaled to (radius, length, radius). Returns
 * false for degenerate edges.
 */
func (s *strutGroup) add(a, b math.Vec3, radius float32) bool {
	dir := b.Sub(a)
	length := dir.Length()
	if length < DegenerateEdgeLength || !math.IsFinite(length) {
		s.skipped++
		return false
	}
	m := metadata.NewMesh(s.group.Name, s.unit, s.group.Material)
	m.Transform.SetPositionRotationScale(
		a.Add(b).MulScalar(0.5),
		math.NewQuatFromUnitVectors(math.NewVec3Up(), dir.MulScalar(1/length)),
		math.NewVec3(radius, length, radius),
	)
	m.BaseLength = length
	s.group.Add(m)
	return true
}

/**
 * @brief Builds a group of cylinder struts, one per feature edge of g.
 */
func ExtractWireframe(g *metadata.Geometry, material *metadata.Material, opts WireframeOptions) (*metadata.Group, error) {
	if g.IsDisposed() || g.VertexCount() == 0 {
		err := fmt.Errorf("%w: cannot extract wireframe", core.ErrEmptyGeometry)
		core.LogError("%s", err)
		return nil, err
	}
	if opts.RadialSegments < 3 {
		opts.RadialSegments = strutRadialSegments
	}
	if opts.Radius <= 0 {
		opts.Radius = defaultWireframeRadius
	}

	s := newStrutGroup("wireframe", material, opts.RadialSegments)
	for _, e := range EdgePairs(g, opts.ThresholdAngle) {
		s.add(e[0], e[1], opts.Radius)
	}
	if s.skipped > 0 {
		core.LogDebug("wireframe %s: skipped %d degenerate edges", g.Name, s.skipped)
	}
	return s.group, nil
}
