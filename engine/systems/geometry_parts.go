package systems

import (
	"fmt"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

// meshPart is an indexed sub-geometry waiting to be merged.
type meshPart struct {
	positions []float32
	indices   []uint32
	// copyIndex is the compound copy this part is the outer shell of, or -1.
	copyIndex int
	// corners[k] is the vertex index holding canonical corner k.
	corners []uint32
}

func (p *meshPart) vertexCount() int {
	return len(p.positions) / 3
}

/**
 * @brief Scales, then rotates, then translates every vertex of the part.
 */
func (p *meshPart) transform(scale math.Vec3, rotation math.Euler, offset math.Vec3) *meshPart {
	q := math.NewQuatFromEuler(rotation)
	identity := rotation.IsZero()
	for i := 0; i < p.vertexCount(); i++ {
		v := math.NewVec3FromSlice(p.positions, i).Mul(scale)
		if !identity {
			v = v.ApplyQuaternion(q)
		}
		v.Add(offset).Store(p.positions, i)
	}
	return p
}

func (p *meshPart) rotate(rotation math.Euler) *meshPart {
	return p.transform(math.NewVec3One(), rotation, math.NewVec3Zero())
}

// markCanonical records where each family corner (scaled by scale) sits in
// the part. Must be called before the part is transformed.
func (p *meshPart) markCanonical(family *shapeFamily, scale float32, copyIndex int) (*meshPart, error) {
	corners := make([]uint32, len(family.vertices))
	for k, c := range family.vertices {
		target := c.MulScalar(scale)
		found := -1
		for i := 0; i < p.vertexCount(); i++ {
			if math.NewVec3FromSlice(p.positions, i).DistanceSquared(target) < 1e-10 {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: %s corner %d not present in part", core.ErrHyperframeMetadata, family.name, k)
		}
		corners[k] = uint32(found)
	}
	p.copyIndex = copyIndex
	p.corners = corners
	return p, nil
}

func newPart(positions []float32, indices []uint32) *meshPart {
	return &meshPart{positions: positions, indices: indices, copyIndex: -1}
}

/**
 * @brief Merges parts into one flat geometry, recomputes normals and stamps
 * the canonical vertex map of every marked part.
 */
func mergeParts(name string, parts []*meshPart) (*metadata.Geometry, error) {
	total := 0
	indexTotal := 0
	for _, p := range parts {
		total += len(p.positions)
		indexTotal += len(p.indices)
	}
	if len(parts) == 0 || total == 0 {
		err := fmt.Errorf("%w: merge of %d parts for %s", core.ErrEmptyGeometry, len(parts), name)
		core.LogError("%s", err)
		return nil, err
	}

	positions := make([]float32, 0, total)
	indices := make([]uint32, 0, indexTotal)
	canonical := map[string]uint32{}
	for _, p := range parts {
		offset := uint32(len(positions) / 3)
		positions = append(positions, p.positions...)
		for _, idx := range p.indices {
			indices = append(indices, idx+offset)
		}
		if p.copyIndex < 0 {
			continue
		}
		for k, c := range p.corners {
			key := metadata.CanonicalKey(p.copyIndex, k)
			if _, ok := canonical[key]; !ok {
				canonical[key] = c + offset
			}
		}
	}

	g := metadata.NewGeometry(name, positions, indices)
	g.ComputeNormals()
	g.UserData.BaseType = name
	g.UserData.ComponentCount = len(parts)
	g.UserData.IsCompound = len(parts) > 1
	if len(canonical) > 0 {
		g.UserData.CanonicalVertexMap = canonical
	}
	return g, nil
}

/**
 * @brief An axis aligned box made of 24 vertices (4 per face) so faces keep
 * flat normals.
 */
func boxPart(width, height, depth float32) *meshPart {
	hx, hy, hz := width*0.5, height*0.5, depth*0.5
	faces := [6][4]math.Vec3{
		// front
		{{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz}, {X: hx, Y: -hy, Z: hz}},
		// back
		{{X: hx, Y: -hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: -hy, Z: -hz}},
		// left
		{{X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}},
		// right
		{{X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: -hy, Z: -hz}},
		// bottom
		{{X: hx, Y: -hy, Z: hz}, {X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}},
		// top
		{{X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}},
	}
	positions := make([]float32, 0, 24*3)
	indices := make([]uint32, 0, 36)
	for i, f := range faces {
		for _, v := range f {
			positions = append(positions, v.X, v.Y, v.Z)
		}
		o := uint32(i * 4)
		indices = append(indices, o, o+1, o+2, o, o+3, o+1)
	}
	return newPart(positions, indices)
}

// spherePart is a UV sphere with poles on the Y axis.
func spherePart(radius float32, widthSegments, heightSegments int) *meshPart {
	var positions []float32
	grid := make([][]uint32, heightSegments+1)
	index := uint32(0)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			positions = append(positions,
				-radius*math.Cos(u*math.K_PI_2)*math.Sin(v*math.K_PI),
				radius*math.Cos(v*math.K_PI),
				radius*math.Sin(u*math.K_PI_2)*math.Sin(v*math.K_PI),
			)
			grid[iy] = append(grid[iy], index)
			index++
		}
	}
	var indices []uint32
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return newPart(positions, indices)
}

/**
 * @brief A polyhedron projected onto a sphere of the given radius. Each face
 * is split into (detail+1)^2 triangles. Faces do not share vertices.
 */
func polyhedronPart(vertices []float32, faces []uint32, radius float32, detail int) *meshPart {
	n := detail + 1
	var positions []float32
	emit := func(v math.Vec3) {
		v = v.Normalized().MulScalar(radius)
		positions = append(positions, v.X, v.Y, v.Z)
	}
	for f := 0; f+2 < len(faces); f += 3 {
		a := math.NewVec3FromSlice(vertices, int(faces[f]))
		b := math.NewVec3FromSlice(vertices, int(faces[f+1]))
		c := math.NewVec3FromSlice(vertices, int(faces[f+2]))
		point := func(i, j int) math.Vec3 {
			return a.Add(b.Sub(a).MulScalar(float32(i) / float32(n))).Add(c.Sub(a).MulScalar(float32(j) / float32(n)))
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n-i; j++ {
				emit(point(i, j))
				emit(point(i+1, j))
				emit(point(i, j+1))
				if j < n-1-i {
					emit(point(i+1, j))
					emit(point(i+1, j+1))
					emit(point(i, j+1))
				}
			}
		}
	}
	indices := make([]uint32, len(positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return newPart(positions, indices)
}

// torusPart lies in the XY plane around the Z axis.
func torusPart(radius, tube float32, radialSegments, tubularSegments int) *meshPart {
	var positions []float32
	for j := 0; j <= radialSegments; j++ {
		for i := 0; i <= tubularSegments; i++ {
			u := float32(i) / float32(tubularSegments) * math.K_PI_2
			v := float32(j) / float32(radialSegments) * math.K_PI_2
			positions = append(positions,
				(radius+tube*math.Cos(v))*math.Cos(u),
				(radius+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
		}
	}
	var indices []uint32
	stride := uint32(tubularSegments + 1)
	for j := uint32(1); j <= uint32(radialSegments); j++ {
		for i := uint32(1); i <= uint32(tubularSegments); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return newPart(positions, indices)
}

// cuboctahedronPart has its 12 vertices at the given radius.
func cuboctahedronPart(radius float32) *meshPart {
	s := radius / math.K_SQRT_TWO
	var positions []float32
	tri := func(vs ...math.Vec3) {
		for _, v := range vs {
			v = v.MulScalar(s)
			positions = append(positions, v.X, v.Y, v.Z)
		}
	}
	signs := []float32{-1, 1}
	for _, sx := range signs {
		for _, sy := range signs {
			for _, sz := range signs {
				tri(math.NewVec3(sx, sy, 0), math.NewVec3(sx, 0, sz), math.NewVec3(0, sy, sz))
			}
		}
	}
	for _, sg := range signs {
		squares := [3][4]math.Vec3{
			{{X: sg, Y: 1}, {X: sg, Z: 1}, {X: sg, Y: -1}, {X: sg, Z: -1}},
			{{X: 1, Y: sg}, {Y: sg, Z: 1}, {X: -1, Y: sg}, {Y: sg, Z: -1}},
			{{X: 1, Z: sg}, {Y: 1, Z: sg}, {X: -1, Z: sg}, {Y: -1, Z: sg}},
		}
		for _, q := range squares {
			tri(q[0], q[1], q[2])
			tri(q[0], q[2], q[3])
		}
	}
	indices := make([]uint32, len(positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return newPart(positions, indices)
}

// frustumPart joins an outer quad to an inner quad with four side faces.
func frustumPart(outer, inner [4]math.Vec3) *meshPart {
	positions := make([]float32, 0, 16*3)
	indices := make([]uint32, 0, 24)
	for k := 0; k < 4; k++ {
		n := (k + 1) % 4
		o := uint32(len(positions) / 3)
		for _, v := range []math.Vec3{outer[k], outer[n], inner[n], inner[k]} {
			positions = append(positions, v.X, v.Y, v.Z)
		}
		indices = append(indices, o, o+1, o+2, o, o+2, o+3)
	}
	return newPart(positions, indices)
}

// cylinderPart is an open unit cylinder: radius 1, height 1, centred on
// the origin along +Y.
func cylinderPart(radialSegments int) *meshPart {
	var positions []float32
	for _, y := range []float32{0.5, -0.5} {
		for x := 0; x <= radialSegments; x++ {
			theta := float32(x) / float32(radialSegments) * math.K_PI_2
			positions = append(positions, math.Sin(theta), y, math.Cos(theta))
		}
	}
	var indices []uint32
	stride := uint32(radialSegments + 1)
	for x := uint32(0); x < uint32(radialSegments); x++ {
		a := x
		b := stride + x
		c := stride + x + 1
		d := x + 1
		indices = append(indices, a, b, d, b, c, d)
	}
	return newPart(positions, indices)
}
