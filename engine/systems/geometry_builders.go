package systems

import (
	"fmt"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

// Aesthetic tuning. Changing these changes the look, not the structure.
const (
	defaultBoxSize  float32 = 1.5
	defaultRadius   float32 = 1.0
	innerLayerRatio float32 = 0.5
	tinyLayerRatio  float32 = 0.25
	stellationRatio float32 = 1.0 + 1.0/(math.K_PHI*math.K_PHI)
)

const (
	megaTesseractTilt     = math.K_PI / 16
	floatingCityAccentMin = 1.0
	floatingCityAccentMax = 1.6
)

type geometryBuilder func(opts metadata.GeometryOptions) (*metadata.Geometry, error)

func invalidOptions(objectType resources.ObjectType, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrInvalidOptions, objectType, err)
}

func defaultBuilders() map[resources.ObjectType]geometryBuilder {
	return map[resources.ObjectType]geometryBuilder{
		resources.ObjectBox:           buildBox,
		resources.ObjectSphere:        buildSphere,
		resources.ObjectTetrahedron:   polyhedronBuilder(resources.ObjectTetrahedron, tetrahedronVertices, tetrahedronFaces, tetrahedronFamily),
		resources.ObjectOctahedron:    polyhedronBuilder(resources.ObjectOctahedron, octahedronVertices, octahedronFaces, octahedronFamily),
		resources.ObjectIcosahedron:   polyhedronBuilder(resources.ObjectIcosahedron, icosahedronVertices, icosahedronFaces, icosahedronFamily),
		resources.ObjectDodecahedron:  polyhedronBuilder(resources.ObjectDodecahedron, dodecahedronVertices, dodecahedronFaces, nil),
		resources.ObjectTorus:         buildTorus,
		resources.ObjectCuboctahedron: buildCuboctahedron,

		resources.ObjectCompoundBox:         buildCompoundBox,
		resources.ObjectCompoundTetrahedron: compoundPolyhedronBuilder(resources.ObjectCompoundTetrahedron, tetrahedronVertices, tetrahedronFaces, tetrahedronFamily, math.K_HALF_PI),
		resources.ObjectCompoundOctahedron:  compoundPolyhedronBuilder(resources.ObjectCompoundOctahedron, octahedronVertices, octahedronFaces, octahedronFamily, math.K_QUARTER_PI),
		resources.ObjectCompoundSphere:      buildCompoundSphere,
		resources.ObjectMegaTesseract:       buildMegaTesseract,
		resources.ObjectNineCompound:        buildNineCompound,

		resources.ObjectGoldenTori:   buildGoldenTori,
		resources.ObjectFloatingCity: buildFloatingCity,

		resources.ObjectTesseract:       buildTesseract,
		resources.ObjectCell16:          buildCell16,
		resources.ObjectCell24:          buildCell24,
		resources.ObjectStellatedLayers: buildStellatedLayers,
	}
}

func nestedLayers(outer float32) map[string]float32 {
	return map[string]float32{
		"outer": outer,
		"inner": outer * innerLayerRatio,
	}
}

func stampCopies(g *metadata.Geometry, rotations []math.Euler, layers map[string]float32) *metadata.Geometry {
	g.UserData.Rotations = rotations
	g.UserData.Layers = layers
	return g
}

// cubeCopies builds one marked box per rotation.
func cubeCopies(size float32, rotations []math.Euler) ([]*meshPart, error) {
	parts := make([]*meshPart, 0, len(rotations))
	for c, rot := range rotations {
		p, err := boxPart(size, size, size).markCanonical(cubeFamily, size*0.5, c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p.rotate(rot))
	}
	return parts, nil
}

func buildBox(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", defaultBoxSize)
	if err != nil {
		return nil, invalidOptions(resources.ObjectBox, err)
	}
	rotations := []math.Euler{{}}
	parts, err := cubeCopies(size, rotations)
	if err != nil {
		return nil, err
	}
	g, err := mergeParts(string(resources.ObjectBox), parts)
	if err != nil {
		return nil, err
	}
	return stampCopies(g, rotations, nestedLayers(size*0.5)), nil
}

func buildSphere(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectSphere, err)
	}
	ws, err := opts.Int("widthSegments", 32, 3, 256)
	if err != nil {
		return nil, invalidOptions(resources.ObjectSphere, err)
	}
	hs, err := opts.Int("heightSegments", 16, 2, 256)
	if err != nil {
		return nil, invalidOptions(resources.ObjectSphere, err)
	}
	return mergeParts(string(resources.ObjectSphere), []*meshPart{spherePart(radius, ws, hs)})
}

func polyhedronBuilder(objectType resources.ObjectType, vertices []float32, faces []uint32, family *shapeFamily) geometryBuilder {
	return func(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
		radius, err := opts.Positive("radius", defaultRadius)
		if err != nil {
			return nil, invalidOptions(objectType, err)
		}
		detail, err := opts.Int("detail", 0, 0, 5)
		if err != nil {
			return nil, invalidOptions(objectType, err)
		}
		part := polyhedronPart(vertices, faces, radius, detail)
		if family != nil {
			if part, err = part.markCanonical(family, radius, 0); err != nil {
				return nil, err
			}
		}
		g, err := mergeParts(string(objectType), []*meshPart{part})
		if err != nil {
			return nil, err
		}
		if family == nil {
			return g, nil
		}
		return stampCopies(g, []math.Euler{{}}, nestedLayers(radius)), nil
	}
}

func buildTorus(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectTorus, err)
	}
	tube, err := opts.Positive("tube", 0.4)
	if err != nil {
		return nil, invalidOptions(resources.ObjectTorus, err)
	}
	rs, err := opts.Int("radialSegments", 16, 3, 256)
	if err != nil {
		return nil, invalidOptions(resources.ObjectTorus, err)
	}
	ts, err := opts.Int("tubularSegments", 64, 3, 512)
	if err != nil {
		return nil, invalidOptions(resources.ObjectTorus, err)
	}
	return mergeParts(string(resources.ObjectTorus), []*meshPart{torusPart(radius, tube, rs, ts)})
}

func buildCuboctahedron(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCuboctahedron, err)
	}
	part, err := cuboctahedronPart(radius).markCanonical(cuboctahedronFamily, radius, 0)
	if err != nil {
		return nil, err
	}
	g, err := mergeParts(string(resources.ObjectCuboctahedron), []*meshPart{part})
	if err != nil {
		return nil, err
	}
	return stampCopies(g, []math.Euler{{}}, nestedLayers(radius)), nil
}

func buildCompoundBox(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", defaultBoxSize)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCompoundBox, err)
	}
	rotations := []math.Euler{{}, {Y: math.K_QUARTER_PI}}
	parts, err := cubeCopies(size, rotations)
	if err != nil {
		return nil, err
	}
	g, err := mergeParts(string(resources.ObjectCompoundBox), parts)
	if err != nil {
		return nil, err
	}
	return stampCopies(g, rotations, nestedLayers(size*0.5)), nil
}

// compoundPolyhedronBuilder merges an unrotated copy with one turned by
// twist about Y.
func compoundPolyhedronBuilder(objectType resources.ObjectType, vertices []float32, faces []uint32, family *shapeFamily, twist float32) geometryBuilder {
	return func(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
		radius, err := opts.Positive("radius", defaultRadius)
		if err != nil {
			return nil, invalidOptions(objectType, err)
		}
		rotations := []math.Euler{{}, {Y: twist}}
		parts := make([]*meshPart, 0, len(rotations))
		for c, rot := range rotations {
			p, err := polyhedronPart(vertices, faces, radius, 0).markCanonical(family, radius, c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p.rotate(rot))
		}
		g, err := mergeParts(string(objectType), parts)
		if err != nil {
			return nil, err
		}
		return stampCopies(g, rotations, nestedLayers(radius)), nil
	}
}

func buildCompoundSphere(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCompoundSphere, err)
	}
	segments, err := opts.Int("widthSegments", 24, 3, 256)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCompoundSphere, err)
	}
	var parts []*meshPart
	scale := float32(1)
	for i := 0; i < 3; i++ {
		p := spherePart(radius*scale, segments, segments/2+1)
		parts = append(parts, p.rotate(math.Euler{X: float32(i) * math.K_PI / math.K_PHI}))
		scale /= math.K_PHI
	}
	return mergeParts(string(resources.ObjectCompoundSphere), parts)
}

// Four compound-box pairs stepped by PI/8 about Y. Pair p is tilted about
// X by p*PI/16 with alternating sign so no two copies coincide.
func megaTesseractRotations() []math.Euler {
	var out []math.Euler
	for p := 0; p < 4; p++ {
		tilt := float32(p) * megaTesseractTilt
		if p%2 == 1 {
			tilt = -tilt
		}
		y := float32(p) * math.K_EIGHTH_PI
		out = append(out,
			math.Euler{X: tilt, Y: y},
			math.Euler{X: tilt, Y: y + math.K_QUARTER_PI},
		)
	}
	return out
}

func buildMegaTesseract(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", defaultBoxSize)
	if err != nil {
		return nil, invalidOptions(resources.ObjectMegaTesseract, err)
	}
	rotations := megaTesseractRotations()
	parts, err := cubeCopies(size, rotations)
	if err != nil {
		return nil, err
	}
	g, err := mergeParts(string(resources.ObjectMegaTesseract), parts)
	if err != nil {
		return nil, err
	}
	return stampCopies(g, rotations, nestedLayers(size*0.5)), nil
}

func nineCompoundRotations() []math.Euler {
	out := make([]math.Euler, 9)
	for i := range out {
		out[i] = math.Euler{
			X: float32(i%3) * math.K_PI / 6,
			Y: float32(i) * math.K_PI / 9,
			Z: float32(i/3) * math.K_PI / 12,
		}
	}
	return out
}

func buildNineCompound(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", defaultBoxSize)
	if err != nil {
		return nil, invalidOptions(resources.ObjectNineCompound, err)
	}
	rotations := nineCompoundRotations()
	parts, err := cubeCopies(size, rotations)
	if err != nil {
		return nil, err
	}
	g, err := mergeParts(string(resources.ObjectNineCompound), parts)
	if err != nil {
		return nil, err
	}
	return stampCopies(g, rotations, nestedLayers(size*0.5)), nil
}

func buildGoldenTori(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectGoldenTori, err)
	}
	tube, err := opts.Positive("tube", 0.06)
	if err != nil {
		return nil, invalidOptions(resources.ObjectGoldenTori, err)
	}
	count, err := opts.Int("count", 5, 1, 24)
	if err != nil {
		return nil, invalidOptions(resources.ObjectGoldenTori, err)
	}
	parts := make([]*meshPart, 0, count)
	scale := float32(1)
	for i := 0; i < count; i++ {
		a := float32(i) * math.K_GOLDEN_ANGLE
		p := torusPart(radius*scale, tube*scale, 12, 48)
		parts = append(parts, p.rotate(math.Euler{X: a, Y: a / math.K_PHI}))
		scale /= math.Sqrt(math.K_PHI)
	}
	return mergeParts(string(resources.ObjectGoldenTori), parts)
}

func buildFloatingCity(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", 2)
	if err != nil {
		return nil, invalidOptions(resources.ObjectFloatingCity, err)
	}
	count, err := opts.Int("count", 12, 1, 200)
	if err != nil {
		return nil, invalidOptions(resources.ObjectFloatingCity, err)
	}
	seed, err := opts.Int("seed", 7, 0, 1<<31-1)
	if err != nil {
		return nil, invalidOptions(resources.ObjectFloatingCity, err)
	}
	rnd := math.NewRandom(uint64(seed))

	const platform float32 = 0.1
	parts := []*meshPart{boxPart(size, platform, size)}
	extent := size * 0.4
	for i := 0; i < count; i++ {
		w := rnd.FloatInRange(0.1, 0.25) * size / 2
		h := rnd.FloatInRange(0.2, 1.2) * size / 2
		x := rnd.FloatInRange(-extent, extent)
		z := rnd.FloatInRange(-extent, extent)
		parts = append(parts, boxPart(w, h, w).transform(math.NewVec3One(), math.Euler{}, math.NewVec3(x, platform/2+h/2, z)))
	}
	for i := 0; i < count/2; i++ {
		r := rnd.FloatInRange(0.03, 0.08) * size / 2
		pos := math.NewVec3(
			rnd.FloatInRange(-extent, extent),
			rnd.FloatInRange(floatingCityAccentMin, floatingCityAccentMax)*size/2,
			rnd.FloatInRange(-extent, extent),
		)
		parts = append(parts, spherePart(r, 8, 6).transform(math.NewVec3One(), math.Euler{}, pos))
	}
	g, err := mergeParts(string(resources.ObjectFloatingCity), parts)
	if err != nil {
		return nil, err
	}
	g.UserData.Decorative = true
	return g, nil
}

// cubeFaceQuad returns the 4 corners of the cube face on axis (0..2) with
// the given sign, in cyclic order.
func cubeFaceQuad(half float32, axis int, sign float32) [4]math.Vec3 {
	var quad [4]math.Vec3
	cyc := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for k, uv := range cyc {
		c := [3]float32{}
		c[axis] = sign * half
		c[(axis+1)%3] = uv[0] * half
		c[(axis+2)%3] = uv[1] * half
		quad[k] = math.NewVec3(c[0], c[1], c[2])
	}
	return quad
}

func buildTesseract(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	size, err := opts.Positive("size", defaultBoxSize)
	if err != nil {
		return nil, invalidOptions(resources.ObjectTesseract, err)
	}
	outer := size * 0.5
	inner := outer * innerLayerRatio
	outerPart, err := boxPart(size, size, size).markCanonical(cubeFamily, outer, 0)
	if err != nil {
		return nil, err
	}
	parts := []*meshPart{outerPart, boxPart(inner*2, inner*2, inner*2)}
	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float32{-1, 1} {
			parts = append(parts, frustumPart(cubeFaceQuad(outer, axis, sign), cubeFaceQuad(inner, axis, sign)))
		}
	}
	g, err := mergeParts(string(resources.ObjectTesseract), parts)
	if err != nil {
		return nil, err
	}
	layers := nestedLayers(outer)
	layers["tiny"] = outer * tinyLayerRatio
	return stampCopies(g, []math.Euler{{}}, layers), nil
}

func buildCell16(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCell16, err)
	}
	outer, err := polyhedronPart(octahedronVertices, octahedronFaces, radius, 0).markCanonical(octahedronFamily, radius, 0)
	if err != nil {
		return nil, err
	}
	twist := math.Euler{Y: math.K_QUARTER_PI}
	inner := polyhedronPart(octahedronVertices, octahedronFaces, radius*innerLayerRatio, 0).rotate(twist)
	g, err := mergeParts(string(resources.ObjectCell16), []*meshPart{outer, inner})
	if err != nil {
		return nil, err
	}
	g.UserData.LayerRotations = map[string]math.Euler{"inner": twist}
	return stampCopies(g, []math.Euler{{}}, nestedLayers(radius)), nil
}

func buildCell24(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectCell24, err)
	}
	outer, err := cuboctahedronPart(radius).markCanonical(cuboctahedronFamily, radius, 0)
	if err != nil {
		return nil, err
	}
	parts := []*meshPart{
		outer,
		polyhedronPart(octahedronVertices, octahedronFaces, radius/math.K_SQRT_TWO, 0),
		cuboctahedronPart(radius * innerLayerRatio),
	}
	g, err := mergeParts(string(resources.ObjectCell24), parts)
	if err != nil {
		return nil, err
	}
	return stampCopies(g, []math.Euler{{}}, nestedLayers(radius)), nil
}

func layerName(i int) string {
	return fmt.Sprintf("layer%d", i)
}

func buildStellatedLayers(opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	radius, err := opts.Positive("radius", defaultRadius)
	if err != nil {
		return nil, invalidOptions(resources.ObjectStellatedLayers, err)
	}
	count, err := opts.Int("layers", 3, 2, 6)
	if err != nil {
		return nil, invalidOptions(resources.ObjectStellatedLayers, err)
	}

	outer, err := polyhedronPart(icosahedronVertices, icosahedronFaces, radius, 0).markCanonical(icosahedronFamily, radius, 0)
	if err != nil {
		return nil, err
	}
	parts := []*meshPart{outer, stellationSpikes(outer, radius*stellationRatio)}

	layers := map[string]float32{"outer": radius}
	layerRotations := map[string]math.Euler{}
	r := radius
	for i := 1; i < count; i++ {
		r /= math.K_PHI
		twist := math.Euler{Y: float32(i) * math.K_PI / 5}
		parts = append(parts, polyhedronPart(icosahedronVertices, icosahedronFaces, r, 0).rotate(twist))
		layers[layerName(i)] = r
		layerRotations[layerName(i)] = twist
	}
	g, err := mergeParts(string(resources.ObjectStellatedLayers), parts)
	if err != nil {
		return nil, err
	}
	g.UserData.LayerRotations = layerRotations
	return stampCopies(g, []math.Euler{{}}, layers), nil
}

// stellationSpikes raises a three sided pyramid on every triangle of shell.
func stellationSpikes(shell *meshPart, apexRadius float32) *meshPart {
	var positions []float32
	for f := 0; f+2 < len(shell.indices); f += 3 {
		a := math.NewVec3FromSlice(shell.positions, int(shell.indices[f]))
		b := math.NewVec3FromSlice(shell.positions, int(shell.indices[f+1]))
		c := math.NewVec3FromSlice(shell.positions, int(shell.indices[f+2]))
		apex := a.Add(b).Add(c).Normalized().MulScalar(apexRadius)
		for _, v := range []math.Vec3{a, b, apex, b, c, apex, c, a, apex} {
			positions = append(positions, v.X, v.Y, v.Z)
		}
	}
	indices := make([]uint32, len(positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return newPart(positions, indices)
}
