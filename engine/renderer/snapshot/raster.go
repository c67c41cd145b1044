package snapshot

import (
	"image/color"
	stdmath "math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

type projector struct {
	viewProj math.Mat4
	width    float32
	height   float32
	// pixels per world unit at distance 1
	focal float32
}

// project maps a world point to pixel coordinates. w is the view depth,
// ok is false behind the near plane.
func (p projector) project(v math.Vec3) (pt math.Vec2, w float32, ok bool) {
	c := v.ToVec4(1).Transform(p.viewProj)
	if c.W < minClipW {
		return math.Vec2{}, c.W, false
	}
	x := c.X / c.W
	y := c.Y / c.W
	return math.NewVec2((x+1)*0.5*p.width, (1-y)*0.5*p.height), c.W, true
}

func (b *Backend) collectObject(p projector, o *metadata.SceneObject, packet *metadata.RenderPacket) {
	if o == nil {
		return
	}
	if o.Solid != nil && o.Solid.Geometry != nil && !o.Solid.Geometry.IsDisposed() && !o.Solid.Material.IsDisposed() {
		b.collectSolid(p, o.Solid, packet)
	}
	for _, g := range o.Groups() {
		b.collectGroup(p, g)
	}
}

func (b *Backend) collectSolid(p projector, m *metadata.Mesh, packet *metadata.RenderPacket) {
	opacity := m.Material.EffectiveOpacity()
	if opacity <= 0 {
		return
	}
	g := m.Geometry
	world := m.Transform.GetWorld()
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Vertex(int(g.Indices[i])).Transform(world)
		bv := g.Vertex(int(g.Indices[i+1])).Transform(world)
		c := g.Vertex(int(g.Indices[i+2])).Transform(world)

		pa, wa, okA := p.project(a)
		pb, wb, okB := p.project(bv)
		pc, wc, okC := p.project(c)
		if !okA || !okB || !okC {
			continue
		}

		n := bv.Sub(a).Cross(c.Sub(a))
		if n.LengthSquared() == 0 {
			continue
		}
		n = n.Normalized()
		toCam := packet.CameraPos.Sub(a)
		if n.Dot(toCam) < 0 {
			n = n.Negate()
		}
		lit := shade(m.Material, n, toCam.Normalized(), packet.Lighting)
		b.items = append(b.items, drawItem{
			depth:  (wa + wb + wc) / 3,
			points: []math.Vec2{pa, pb, pc},
			color:  toNRGBA(lit, opacity),
		})
	}
}

// collectGroup draws every strut as a screen space quad between the ends
// of its unit cylinder.
func (b *Backend) collectGroup(p projector, g *metadata.Group) {
	if g.Material.IsDisposed() {
		return
	}
	opacity := g.Material.EffectiveOpacity()
	if opacity <= 0 {
		return
	}
	col := toNRGBA(g.Material.Color, opacity)
	for _, child := range g.Children {
		world := child.Transform.GetWorld()
		a := math.NewVec3(0, -0.5, 0).Transform(world)
		e := math.NewVec3(0, 0.5, 0).Transform(world)
		pa, wa, okA := p.project(a)
		pe, we, okE := p.project(e)
		if !okA || !okE {
			continue
		}
		dir := pe.Sub(pa)
		l := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
		if l == 0 {
			continue
		}
		depth := (wa + we) / 2
		half := max(child.Transform.Scale.X*p.focal/depth, minStrutWidth) * 0.5
		nx, ny := -dir.Y/l*half, dir.X/l*half
		b.items = append(b.items, drawItem{
			depth: depth,
			points: []math.Vec2{
				math.NewVec2(pa.X+nx, pa.Y+ny),
				math.NewVec2(pe.X+nx, pe.Y+ny),
				math.NewVec2(pe.X-nx, pe.Y-ny),
				math.NewVec2(pa.X-nx, pa.Y-ny),
			},
			color: col,
		})
	}
}

func (b *Backend) collectOrb(p projector, orb metadata.Orb) {
	c, w, ok := p.project(orb.Position)
	if !ok || orb.Opacity <= 0 {
		return
	}
	r := max(orb.Radius*p.focal/w, 1)
	pts := make([]math.Vec2, orbSegments)
	for i := range pts {
		a := float32(i) / orbSegments * math.K_PI_2
		pts[i] = math.NewVec2(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	b.items = append(b.items, drawItem{
		depth:  w,
		points: pts,
		color:  toNRGBA(orb.Color, orb.Opacity),
	})
}

/**
 * @brief Blinn-Phong with one ambient and one directional light. The
 * directional light shines from its position towards the origin.
 */
func shade(m *metadata.Material, n, toCam math.Vec3, l metadata.Lighting) colorful.Color {
	if m.Unlit {
		return m.Color
	}
	ld := l.DirectionalPosition
	if ld.LengthSquared() == 0 {
		ld = math.NewVec3Up()
	}
	ld = ld.Normalized()

	diffuse := max(n.Dot(ld), 0) * l.DirectionalIntensity
	h := ld.Add(toCam).Normalized()
	spec := float32(stdmath.Pow(float64(max(n.Dot(h), 0)), float64(max(m.Shininess, 1)))) *
		m.SpecularIntensity * l.DirectionalIntensity

	channel := func(base, amb, dir, emissive, specular float64) float64 {
		v := base*(amb*float64(l.AmbientIntensity)+dir*float64(diffuse)) +
			emissive*float64(m.EmissiveIntensity) +
			specular*float64(spec)
		return min(max(v, 0), 1)
	}
	return colorful.Color{
		R: channel(m.Color.R, l.AmbientColor.R, l.DirectionalColor.R, m.Emissive.R, m.Specular.R),
		G: channel(m.Color.G, l.AmbientColor.G, l.DirectionalColor.G, m.Emissive.G, m.Specular.G),
		B: channel(m.Color.B, l.AmbientColor.B, l.DirectionalColor.B, m.Emissive.B, m.Specular.B),
	}
}

func toNRGBA(c colorful.Color, opacity float32) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Clamp(opacity, 0, 1)*255 + 0.5)}
}
