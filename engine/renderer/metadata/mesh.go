package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/geomstudio/engine/math"
)

type Mesh struct {
	ID        uuid.UUID
	Name      string
	Geometry  *Geometry
	Material  *Material
	Transform *math.Transform
	/** @brief Edge length a strut was built for. Zero for non-strut meshes. */
	BaseLength float32
}

func NewMesh(name string, geometry *Geometry, material *Material) *Mesh {
	return &Mesh{
		ID:        uuid.New(),
		Name:      name,
		Geometry:  geometry,
		Material:  material,
		Transform: math.NewTransform(),
	}
}

/**
 * @brief A set of meshes sharing one material and one parent transform.
 * Strut skeletons are groups of cylinder meshes sharing a unit geometry.
 */
type Group struct {
	Name      string
	Children  []*Mesh
	Material  *Material
	Transform *math.Transform
}

func NewGroup(name string, material *Material) *Group {
	return &Group{
		Name:      name,
		Material:  material,
		Transform: math.NewTransform(),
	}
}

// Add parents the mesh to the group transform and appends it.
func (g *Group) Add(m *Mesh) {
	m.Transform.Parent = g.Transform
	g.Children = append(g.Children, m)
}

func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Children)
}

// Dispose releases the group material and every child geometry. Shared
// geometries are released once.
func (g *Group) Dispose() {
	if g == nil {
		return
	}
	seen := make(map[*Geometry]struct{})
	for _, c := range g.Children {
		if c.Geometry == nil {
			continue
		}
		if _, ok := seen[c.Geometry]; ok {
			continue
		}
		seen[c.Geometry] = struct{}{}
		c.Geometry.Dispose()
	}
	if g.Material != nil {
		g.Material.Dispose()
	}
	g.Children = nil
}
