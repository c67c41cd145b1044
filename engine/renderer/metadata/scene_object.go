package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/geomstudio/engine/math"
)

/**
 * @brief The runtime registry entry for one on-screen object. The solid,
 * wireframe and hyperframe groups are parented to Transform so they move
 * together.
 */
type SceneObject struct {
	ID uuid.UUID
	/** @brief Position of the object within its scene, starting at 0. */
	Index      int
	ObjectType string
	/** @brief Root transform driven by the animation engine. */
	Transform *math.Transform
	/** @brief Accumulated Euler rotation, mirrored into Transform. */
	Rotation math.Euler

	Solid       *Mesh
	Wireframe   *Group
	CenterLines *Group
	CurvedLines *Group
	Diagonals   *Group

	/** @brief Resting position the animation styles offset from. */
	OriginalPosition math.Vec3
	/** @brief Per-object phase offset so objects do not move in lockstep. */
	Phase float32
}

func NewSceneObject(objectType string, index int, solid *Mesh, position math.Vec3, phase float32) *SceneObject {
	o := &SceneObject{
		ID:               uuid.New(),
		Index:            index,
		ObjectType:       objectType,
		Transform:        math.NewTransform(),
		Solid:            solid,
		OriginalPosition: position,
		Phase:            phase,
	}
	o.Transform.SetPosition(position)
	if solid != nil {
		solid.Transform.Parent = o.Transform
	}
	return o
}

// Geometry returns the solid geometry or nil.
func (o *SceneObject) Geometry() *Geometry {
	if o == nil || o.Solid == nil {
		return nil
	}
	return o.Solid.Geometry
}

// OriginalPositions returns the creation-time vertex snapshot of the solid.
func (o *SceneObject) OriginalPositions() []float32 {
	if g := o.Geometry(); g != nil {
		return g.OriginalPositions
	}
	return nil
}

// AttachWireframe parents g to the object root.
func (o *SceneObject) AttachWireframe(g *Group) {
	o.Wireframe = attach(o, g)
}

// AttachHyperframe parents the hyperframe groups to the object root.
func (o *SceneObject) AttachHyperframe(h *HyperframeResult) {
	if h == nil {
		return
	}
	o.CenterLines = attach(o, h.CenterLines)
	o.CurvedLines = attach(o, h.CurvedLines)
	o.Diagonals = attach(o, h.Diagonals)
}

func attach(o *SceneObject, g *Group) *Group {
	if g != nil {
		g.Transform.Parent = o.Transform
	}
	return g
}

// Groups returns the non-nil strut groups in draw order.
func (o *SceneObject) Groups() []*Group {
	out := make([]*Group, 0, 4)
	for _, g := range []*Group{o.Wireframe, o.CenterLines, o.CurvedLines, o.Diagonals} {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

// SetRotation stores the Euler rotation and applies it to the root transform.
func (o *SceneObject) SetRotation(e math.Euler) {
	o.Rotation = e
	o.Transform.SetRotationEuler(e)
}

// Dispose releases every geometry and material owned by the object.
func (o *SceneObject) Dispose() {
	if o.Solid != nil {
		if o.Solid.Geometry != nil {
			o.Solid.Geometry.Dispose()
		}
		if o.Solid.Material != nil {
			o.Solid.Material.Dispose()
		}
	}
	for _, g := range o.Groups() {
		g.Dispose()
	}
	o.Solid = nil
	o.Wireframe = nil
	o.CenterLines = nil
	o.CurvedLines = nil
	o.Diagonals = nil
}
