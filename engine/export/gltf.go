package export

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

const generator = "geomstudio"

// Options selects what goes into an exported document.
type Options struct {
	Wireframe  bool
	Hyperframe bool
}

func DefaultOptions() Options {
	return Options{Wireframe: true, Hyperframe: true}
}

type builder struct {
	doc       *gltf.Document
	materials map[*metadata.Material]uint32
}

/**
 * @brief Converts scene objects into a glTF document. Every object becomes a
 * node; its solid and each strut group become primitives with vertex
 * positions baked into world space, so the document needs no node
 * transforms. Objects without a live solid geometry are skipped.
 * @returns core.ErrEmptyGeometry when nothing could be exported.
 */
func Document(objects []*metadata.SceneObject, opts Options) (*gltf.Document, error) {
	b := &builder{
		doc:       gltf.NewDocument(),
		materials: make(map[*metadata.Material]uint32),
	}
	b.doc.Asset.Generator = generator

	for _, o := range objects {
		if o == nil || o.Geometry() == nil || o.Geometry().IsDisposed() {
			continue
		}
		mesh := &gltf.Mesh{Name: fmt.Sprintf("%s_%d", o.ObjectType, o.Index)}
		mesh.Primitives = append(mesh.Primitives, b.solid(o.Solid))

		var groups []*metadata.Group
		if opts.Wireframe && o.Wireframe != nil {
			groups = append(groups, o.Wireframe)
		}
		if opts.Hyperframe {
			groups = append(groups, o.CenterLines, o.CurvedLines, o.Diagonals)
		}
		for _, g := range groups {
			if p := b.group(g); p != nil {
				mesh.Primitives = append(mesh.Primitives, p)
			}
		}

		b.doc.Meshes = append(b.doc.Meshes, mesh)
		b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{
			Name: mesh.Name,
			Mesh: gltf.Index(uint32(len(b.doc.Meshes) - 1)),
		})
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, uint32(len(b.doc.Nodes)-1))
	}

	if len(b.doc.Nodes) == 0 {
		err := fmt.Errorf("export: %w", core.ErrEmptyGeometry)
		core.LogError("%s", err)
		return nil, err
	}
	return b.doc, nil
}

// SaveGLB writes the objects as a binary glTF file.
func SaveGLB(path string, objects []*metadata.SceneObject, opts Options) error {
	doc, err := Document(objects, opts)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		core.LogError("cannot write %s: %s", path, err)
		return err
	}
	core.LogInfo("exported %d objects to %s", len(doc.Nodes), path)
	return nil
}

func (b *builder) solid(m *metadata.Mesh) *gltf.Primitive {
	g := m.Geometry
	world := m.Transform.GetWorld()
	positions := make([][3]float32, g.VertexCount())
	flat := make([]float32, 0, len(g.Positions))
	for i := range positions {
		v := g.Vertex(i).Transform(world)
		positions[i] = [3]float32{v.X, v.Y, v.Z}
		flat = append(flat, v.X, v.Y, v.Z)
	}
	return b.primitive(positions, flat, g.Indices, m.Material)
}

// group merges every strut of g into one primitive, transforming the
// shared unit cylinder once per strut.
func (b *builder) group(g *metadata.Group) *gltf.Primitive {
	if g.Len() == 0 {
		return nil
	}
	var positions [][3]float32
	var flat []float32
	var indices []uint32
	for _, child := range g.Children {
		if child.Geometry == nil {
			continue
		}
		world := child.Transform.GetWorld()
		base := uint32(len(positions))
		for i := 0; i < child.Geometry.VertexCount(); i++ {
			v := child.Geometry.Vertex(i).Transform(world)
			positions = append(positions, [3]float32{v.X, v.Y, v.Z})
			flat = append(flat, v.X, v.Y, v.Z)
		}
		for _, idx := range child.Geometry.Indices {
			indices = append(indices, base+idx)
		}
	}
	if len(indices) == 0 {
		return nil
	}
	return b.primitive(positions, flat, indices, g.Material)
}

func (b *builder) primitive(positions [][3]float32, flat []float32, indices []uint32, mat *metadata.Material) *gltf.Primitive {
	normals := math.GeometryGenerateNormals(flat, indices)
	packed := make([][3]float32, len(positions))
	for i := range packed {
		packed[i] = [3]float32{normals[i*3], normals[i*3+1], normals[i*3+2]}
	}

	posAccessor := modeler.WritePosition(b.doc, positions)
	normalAccessor := modeler.WriteNormal(b.doc, packed)
	indicesAccessor := modeler.WriteIndices(b.doc, indices)

	return &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(b.material(mat)),
	}
}

// material returns the document index for m, adding it on first use.
func (b *builder) material(m *metadata.Material) uint32 {
	if idx, ok := b.materials[m]; ok {
		return idx
	}
	c := m.Color.Clamped()
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{float32(c.R), float32(c.G), float32(c.B), m.EffectiveOpacity()},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(roughness(m)),
	}
	mat := &gltf.Material{
		Name:                 m.Name,
		PBRMetallicRoughness: pbr,
		AlphaMode:            gltf.AlphaOpaque,
	}
	if m.EffectiveOpacity() < 1 {
		mat.AlphaMode = gltf.AlphaBlend
	}
	if m.EmissiveIntensity > 0 {
		e := m.Emissive.Clamped()
		k := math.Clamp(m.EmissiveIntensity, 0, 1)
		mat.EmissiveFactor = [3]float32{float32(e.R) * k, float32(e.G) * k, float32(e.B) * k}
	}
	b.doc.Materials = append(b.doc.Materials, mat)
	idx := uint32(len(b.doc.Materials) - 1)
	b.materials[m] = idx
	return idx
}

// roughness maps Phong shininess in [1, 100] onto PBR roughness.
func roughness(m *metadata.Material) float32 {
	if m.Unlit {
		return 1
	}
	return 1 - math.Clamp((m.Shininess-1)/99, 0, 1)
}
