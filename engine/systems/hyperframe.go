package systems

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

// Strut radii, thickest for the primary skeleton and thinner for each
// level of nesting.
const (
	primaryStrutRadius           float32 = 0.004
	connectorStrutRadius         float32 = 0.003
	crossConnectorStrutRadius    float32 = 0.0025
	tertiaryStrutRadius          float32 = 0.002
	tertiaryConnectorStrutRadius float32 = 0.0015

	// SkeletonOpacity is fixed; the wireframe blend never touches it.
	SkeletonOpacity float32 = 0.8
)

type layerResolver func(u metadata.GeometryUserData) ([]string, error)

// frameSpec drives the shared hyperframe skeleton for one object type.
type frameSpec struct {
	family *shapeFamily
	// nested returns the layer names below "outer", outermost first.
	nested layerResolver
	// crossConnect joins every rotated copy to copy 0, corner by corner.
	crossConnect bool
}

func fixedLayers(names ...string) layerResolver {
	return func(u metadata.GeometryUserData) ([]string, error) {
		for _, n := range names {
			if _, ok := u.Layers[n]; !ok {
				return nil, fmt.Errorf("%w: %s needs layer %q", core.ErrHyperframeMetadata, u.BaseType, n)
			}
		}
		return names, nil
	}
}

// layerSeries reads layer1, layer2, ... until the first missing name.
func layerSeries(u metadata.GeometryUserData) ([]string, error) {
	var names []string
	for i := 1; ; i++ {
		if _, ok := u.Layers[layerName(i)]; !ok {
			break
		}
		names = append(names, layerName(i))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s has no nested layers", core.ErrHyperframeMetadata, u.BaseType)
	}
	return names, nil
}

func defaultFrameSpecs() map[resources.ObjectType]frameSpec {
	inner := fixedLayers("inner")
	return map[resources.ObjectType]frameSpec{
		resources.ObjectBox:           {family: cubeFamily, nested: inner},
		resources.ObjectCompoundBox:   {family: cubeFamily, nested: inner, crossConnect: true},
		resources.ObjectMegaTesseract: {family: cubeFamily, nested: inner, crossConnect: true},
		resources.ObjectNineCompound:  {family: cubeFamily, nested: inner, crossConnect: true},
		resources.ObjectTesseract:     {family: cubeFamily, nested: fixedLayers("inner", "tiny")},

		resources.ObjectTetrahedron:         {family: tetrahedronFamily, nested: inner},
		resources.ObjectCompoundTetrahedron: {family: tetrahedronFamily, nested: inner, crossConnect: true},

		resources.ObjectOctahedron: {family: octahedronFamily, nested: inner},
		// Only the ±Y poles of the two copies coincide; those cross struts are skipped.
		resources.ObjectCompoundOctahedron: {family: octahedronFamily, nested: inner, crossConnect: true},
		resources.ObjectCell16:             {family: octahedronFamily, nested: inner},

		resources.ObjectCuboctahedron: {family: cuboctahedronFamily, nested: inner},
		resources.ObjectCell24:        {family: cuboctahedronFamily, nested: inner},

		resources.ObjectIcosahedron:     {family: icosahedronFamily, nested: inner},
		resources.ObjectStellatedLayers: {family: icosahedronFamily, nested: layerSeries},
	}
}

type HyperframeSystemConfig struct {
	/** @brief Sides of each strut cylinder. */
	StrutSegments uint8
	/** @brief Also emit space diagonals into HyperframeResult.Diagonals. */
	Diagonals bool
}

/**
 * @brief Builds the centerLines/curvedLines strut skeletons that suggest a
 * 4D projection. Canonical corners come from closed-form vertex lists; only
 * the outer shell is matched against the actual geometry.
 */
type HyperframeSystem struct {
	Config *HyperframeSystemConfig
	specs  map[resources.ObjectType]frameSpec
}

func NewHyperframeSystem(config *HyperframeSystemConfig) (*HyperframeSystem, error) {
	if config.StrutSegments < 3 {
		err := fmt.Errorf("func NewHyperframeSystem - config.StrutSegments must be >= 3")
		core.LogError("%s", err)
		return nil, err
	}
	return &HyperframeSystem{
		Config: config,
		specs:  defaultFrameSpecs(),
	}, nil
}

// Supports reports whether objectType has a registered hyperframe.
func (hs *HyperframeSystem) Supports(objectType resources.ObjectType) bool {
	_, ok := hs.specs[objectType]
	return ok
}

/**
 * @brief Builds the hyperframe for g. Returns core.ErrNoHyperframe when the
 * geometry's base type has no registered frame.
 */
func (hs *HyperframeSystem) Build(g *metadata.Geometry, centerColor, connectorColor colorful.Color) (*metadata.HyperframeResult, error) {
	if g == nil {
		err := fmt.Errorf("%w: nil geometry", core.ErrHyperframeNoVertex)
		core.LogError("%s", err)
		return nil, err
	}
	u := g.UserData
	spec, ok := hs.specs[resources.ObjectType(u.BaseType)]
	if !ok || u.Decorative {
		return nil, fmt.Errorf("%w: %q", core.ErrNoHyperframe, u.BaseType)
	}

	positions := g.OriginalPositions
	if len(positions) == 0 {
		positions = g.Positions
	}
	if len(positions) < 3 {
		err := fmt.Errorf("%w: %s", core.ErrHyperframeNoVertex, u.BaseType)
		core.LogError("%s", err)
		return nil, err
	}

	plan, err := newFramePlan(spec, u)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	outer, err := plan.matchOuter(positions)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	segments := int(hs.Config.StrutSegments)
	center := newStrutGroup("centerLines", metadata.NewUnlitMaterial("hyperframe", centerColor, SkeletonOpacity), segments)
	curved := newStrutGroup("curvedLines", metadata.NewUnlitMaterial("hyperframeLine", connectorColor, SkeletonOpacity), segments)

	for c := range u.Rotations {
		prev := outer[c]
		for depth, layer := range plan.nested {
			pts := plan.layerCorners(c, layer)
			edgeRadius, hopRadius := primaryStrutRadius, connectorStrutRadius
			if depth > 0 {
				edgeRadius, hopRadius = tertiaryStrutRadius, tertiaryConnectorStrutRadius
			}
			for _, e := range spec.family.edges {
				center.add(pts[e[0]], pts[e[1]], edgeRadius)
			}
			for k := range pts {
				curved.add(prev[k], pts[k], hopRadius)
			}
			prev = pts
		}
		if spec.crossConnect && c > 0 {
			for k := range outer[c] {
				curved.add(outer[c][k], outer[0][k], crossConnectorStrutRadius)
			}
		}
	}

	result := &metadata.HyperframeResult{
		CenterLines: center.group,
		CurvedLines: curved.group,
	}
	if hs.Config.Diagonals {
		diag := newStrutGroup("diagonals", metadata.NewUnlitMaterial("hyperframeDiagonal", connectorColor, SkeletonOpacity), segments)
		for c := range outer {
			for _, p := range oppositePairs(spec.family) {
				diag.add(outer[c][p[0]], outer[c][p[1]], tertiaryStrutRadius)
			}
		}
		result.Diagonals = diag.group
	}
	if skipped := center.skipped + curved.skipped; skipped > 0 {
		core.LogDebug("hyperframe %s: skipped %d degenerate struts", u.BaseType, skipped)
	}
	return result, nil
}

// framePlan resolves the metadata of one geometry against its frameSpec.
type framePlan struct {
	spec   frameSpec
	u      metadata.GeometryUserData
	nested []string
}

func newFramePlan(spec frameSpec, u metadata.GeometryUserData) (*framePlan, error) {
	if len(u.Rotations) == 0 {
		return nil, fmt.Errorf("%w: %s has no copy rotations", core.ErrHyperframeMetadata, u.BaseType)
	}
	if s, ok := u.Layers["outer"]; !ok || s <= 0 {
		return nil, fmt.Errorf("%w: %s needs a positive outer layer", core.ErrHyperframeMetadata, u.BaseType)
	}
	nested, err := spec.nested(u)
	if err != nil {
		return nil, err
	}
	return &framePlan{spec: spec, u: u, nested: nested}, nil
}

// layerCorners returns the canonical corners of one layer of copy c: scaled,
// turned by the layer rotation, then by the copy rotation.
func (p *framePlan) layerCorners(c int, layer string) []math.Vec3 {
	scale := p.u.Layers[layer]
	layerRot, hasLayerRot := p.u.LayerRotations[layer]
	copyRot := p.u.Rotations[c]
	out := make([]math.Vec3, len(p.spec.family.vertices))
	for k, v := range p.spec.family.vertices {
		v = v.MulScalar(scale)
		if hasLayerRot && !layerRot.IsZero() {
			v = v.ApplyEuler(layerRot)
		}
		if !copyRot.IsZero() {
			v = v.ApplyEuler(copyRot)
		}
		out[k] = v
	}
	return out
}

/**
 * @brief Resolves the actual outer-shell vertex of every copy and corner.
 * The canonical vertex map is used when present; otherwise each canonical
 * corner is matched by nearest-vertex search.
 */
func (p *framePlan) matchOuter(positions []float32) ([][]math.Vec3, error) {
	vertexCount := len(positions) / 3
	out := make([][]math.Vec3, len(p.u.Rotations))
	for c := range p.u.Rotations {
		canonical := p.layerCorners(c, "outer")
		out[c] = make([]math.Vec3, len(canonical))
		for k, target := range canonical {
			if p.u.CanonicalVertexMap == nil {
				out[c][k] = math.NewVec3FromSlice(positions, NearestVertex(positions, target))
				continue
			}
			idx, ok := p.u.CanonicalVertexMap[metadata.CanonicalKey(c, k)]
			if !ok || int(idx) >= vertexCount {
				return nil, fmt.Errorf("%w: %s canonical vertex %s missing or out of range", core.ErrHyperframeMetadata, p.u.BaseType, metadata.CanonicalKey(c, k))
			}
			out[c][k] = math.NewVec3FromSlice(positions, int(idx))
		}
	}
	return out, nil
}

/**
 * @brief Returns the index of the vertex closest to target, scanning the
 * whole buffer. Ties keep the first vertex found. Returns -1 for an empty
 * buffer.
 */
func NearestVertex(positions []float32, target math.Vec3) int {
	best := -1
	bestDist := float32(0)
	for i := 0; i < len(positions)/3; i++ {
		d := math.NewVec3FromSlice(positions, i).DistanceSquared(target)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// oppositePairs lists the corner pairs (i < j) that are antipodal.
func oppositePairs(family *shapeFamily) [][2]int {
	var out [][2]int
	for i, a := range family.vertices {
		for j := i + 1; j < len(family.vertices); j++ {
			if a.Add(family.vertices[j]).LengthSquared() < 1e-8 {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}
