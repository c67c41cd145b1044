package math

import (
	"fmt"
	m "math"
)

/**
 * @brief Generates smooth vertex normals for a flat position buffer. Face
 * normals are accumulated area-weighted on each referenced vertex and then
 * normalized. A nil index buffer is treated as a plain triangle list.
 */
func GeometryGenerateNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	vertexCount := len(positions) / 3

	triangle := func(i0, i1, i2 int) {
		p0 := NewVec3FromSlice(positions, i0)
		p1 := NewVec3FromSlice(positions, i1)
		p2 := NewVec3FromSlice(positions, i2)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, i := range [3]int{i0, i1, i2} {
			NewVec3FromSlice(normals, i).Add(n).Store(normals, i)
		}
	}

	if indices == nil {
		for i := 0; i+2 < vertexCount; i += 3 {
			triangle(i, i+1, i+2)
		}
	} else {
		for i := 0; i+2 < len(indices); i += 3 {
			triangle(int(indices[i]), int(indices[i+1]), int(indices[i+2]))
		}
	}

	for i := 0; i < vertexCount; i++ {
		NewVec3FromSlice(normals, i).Normalized().Store(normals, i)
	}
	return normals
}

/**
 * @brief Welds vertices whose positions agree within precision decimal
 * places and rewrites the index buffer accordingly. Returns the welded
 * positions and indices.
 */
func GeometryDeduplicateVertices(positions []float32, indices []uint32, precision int) ([]float32, []uint32) {
	vertexCount := len(positions) / 3
	if indices == nil {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	remap := make([]uint32, vertexCount)
	seen := make(map[string]uint32, vertexCount)
	out := make([]float32, 0, len(positions))
	for i := 0; i < vertexCount; i++ {
		key := PositionKey(NewVec3FromSlice(positions, i), precision)
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := uint32(len(out) / 3)
		seen[key] = idx
		remap[i] = idx
		out = append(out, positions[i*3], positions[i*3+1], positions[i*3+2])
	}

	outIndices := make([]uint32, len(indices))
	for i, idx := range indices {
		outIndices[i] = remap[idx]
	}
	return out, outIndices
}

// PositionKey quantizes p to the given number of decimal places.
func PositionKey(p Vec3, precision int) string {
	scale := m.Pow(10, float64(precision))
	q := func(v float32) int64 {
		return int64(m.Round(float64(v) * scale))
	}
	return fmt.Sprintf("%d,%d,%d", q(p.X), q(p.Y), q(p.Z))
}

/**
 * @brief Computes the axis aligned extents of a flat position buffer.
 * An empty buffer yields zero extents.
 */
func ExtentsFromPositions(positions []float32) Extents3D {
	if len(positions) < 3 {
		return Extents3D{}
	}
	e := Extents3D{
		Min: NewVec3(K_INFINITY, K_INFINITY, K_INFINITY),
		Max: NewVec3(-K_INFINITY, -K_INFINITY, -K_INFINITY),
	}
	for i := 0; i+2 < len(positions); i += 3 {
		e.Min.X = min(e.Min.X, positions[i])
		e.Min.Y = min(e.Min.Y, positions[i+1])
		e.Min.Z = min(e.Min.Z, positions[i+2])
		e.Max.X = max(e.Max.X, positions[i])
		e.Max.Y = max(e.Max.Y, positions[i+1])
		e.Max.Z = max(e.Max.Z, positions[i+2])
	}
	return e
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}
