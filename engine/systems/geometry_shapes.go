package systems

import (
	"github.com/spaghettifunk/geomstudio/engine/math"
)

// shapeFamily describes a polyhedron by closed-form unit vertices and the
// index pairs of its edges. Vertex order is the canonical corner order used
// by CanonicalVertexMap keys.
type shapeFamily struct {
	name     string
	vertices []math.Vec3
	edges    [][2]int
}

func newShapeFamily(name string, vertices []math.Vec3) *shapeFamily {
	return &shapeFamily{
		name:     name,
		vertices: vertices,
		edges:    edgesByMinDistance(vertices),
	}
}

// edgesByMinDistance connects every vertex pair whose distance equals the
// smallest pairwise distance. For the regular and quasi-regular solids used
// here that is exactly the edge set.
func edgesByMinDistance(vertices []math.Vec3) [][2]int {
	minDist := math.K_INFINITY
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			minDist = min(minDist, vertices[i].Distance(vertices[j]))
		}
	}
	var edges [][2]int
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if vertices[i].Distance(vertices[j]) <= minDist*(1+1e-4) {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// Corner at index i has x, y, z signs taken from bits 0, 1, 2.
func cubeCorners() []math.Vec3 {
	out := make([]math.Vec3, 8)
	for i := range out {
		sign := func(bit int) float32 {
			if i&(1<<bit) != 0 {
				return 1
			}
			return -1
		}
		out[i] = math.NewVec3(sign(0), sign(1), sign(2))
	}
	return out
}

func normalizedAll(vs []math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, len(vs))
	for i, v := range vs {
		out[i] = v.Normalized()
	}
	return out
}

var tetrahedronVertices = []float32{1, 1, 1, -1, -1, 1, -1, 1, -1, 1, -1, -1}
var tetrahedronFaces = []uint32{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1}

var octahedronVertices = []float32{1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1}
var octahedronFaces = []uint32{0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2, 1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2}

var icosahedronVertices = func() []float32 {
	t := math.K_PHI
	return []float32{
		-1, t, 0, 1, t, 0, -1, -t, 0, 1, -t, 0,
		0, -1, t, 0, 1, t, 0, -1, -t, 0, 1, -t,
		t, 0, -1, t, 0, 1, -t, 0, -1, -t, 0, 1,
	}
}()

var icosahedronFaces = []uint32{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

var dodecahedronVertices = func() []float32 {
	t := math.K_PHI
	r := 1 / t
	return []float32{
		-1, -1, -1, -1, -1, 1, -1, 1, -1, -1, 1, 1,
		1, -1, -1, 1, -1, 1, 1, 1, -1, 1, 1, 1,
		0, -r, -t, 0, -r, t, 0, r, -t, 0, r, t,
		-r, -t, 0, -r, t, 0, r, -t, 0, r, t, 0,
		-t, 0, -r, t, 0, -r, -t, 0, r, t, 0, r,
	}
}()

var dodecahedronFaces = []uint32{
	3, 11, 7, 3, 7, 15, 3, 15, 13,
	7, 19, 17, 7, 17, 6, 7, 6, 15,
	17, 4, 8, 17, 8, 10, 17, 10, 6,
	8, 0, 16, 8, 16, 2, 8, 2, 10,
	0, 12, 1, 0, 1, 18, 0, 18, 16,
	6, 10, 2, 6, 2, 13, 6, 13, 15,
	2, 16, 18, 2, 18, 3, 2, 3, 13,
	18, 1, 9, 18, 9, 11, 18, 11, 3,
	4, 14, 12, 4, 12, 0, 4, 0, 8,
	11, 9, 5, 11, 5, 19, 11, 19, 7,
	19, 5, 14, 19, 14, 4, 19, 4, 17,
	1, 12, 14, 1, 14, 5, 1, 5, 9,
}

func vec3List(flat []float32) []math.Vec3 {
	out := make([]math.Vec3, len(flat)/3)
	for i := range out {
		out[i] = math.NewVec3FromSlice(flat, i)
	}
	return out
}

// cuboctahedron vertices are the permutations of (±1, ±1, 0).
func cuboctahedronCorners() []math.Vec3 {
	var out []math.Vec3
	for _, a := range []float32{-1, 1} {
		for _, b := range []float32{-1, 1} {
			out = append(out,
				math.NewVec3(a, b, 0),
				math.NewVec3(a, 0, b),
				math.NewVec3(0, a, b),
			)
		}
	}
	return out
}

var (
	cubeFamily          = newShapeFamily("cube", cubeCorners())
	tetrahedronFamily   = newShapeFamily("tetrahedron", normalizedAll(vec3List(tetrahedronVertices)))
	octahedronFamily    = newShapeFamily("octahedron", vec3List(octahedronVertices))
	cuboctahedronFamily = newShapeFamily("cuboctahedron", normalizedAll(cuboctahedronCorners()))
	icosahedronFamily   = newShapeFamily("icosahedron", normalizedAll(vec3List(icosahedronVertices)))
)
