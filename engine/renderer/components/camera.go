package components

import (
	"github.com/spaghettifunk/geomstudio/engine/math"
)

/**
 * @brief Represents a perspective camera looking at a target point.
 * Ideally, these are created and managed by the camera system.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	Up     math.Vec3
	/** @brief Vertical field of view in radians. */
	FOV  float32
	Near float32
	Far  float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3(0, 0, 5)
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.FOV = math.DegToRad(75)
	c.Near = 0.1
	c.Far = 1000
	c.IsDirty = true
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// Distance returns the distance between the camera and its target.
func (c *Camera) Distance() float32 {
	return c.Position.Distance(c.Target)
}

/**
 * @brief Places the camera on a sphere around the target.
 * @param azimuth Angle around the Y axis, 0 on +Z.
 * @param polar Angle from +Y, clamped away from the poles.
 */
func (c *Camera) SetSpherical(radius, azimuth, polar float32) {
	const limit = 0.01
	polar = math.Clamp(polar, limit, math.K_PI-limit)
	sp := math.Sin(polar)
	offset := math.NewVec3(
		radius*sp*math.Sin(azimuth),
		radius*math.Cos(polar),
		radius*sp*math.Cos(azimuth),
	)
	c.SetPosition(c.Target.Add(offset))
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, c.Up)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) Projection(aspect float32) math.Mat4 {
	return math.NewMat4Perspective(c.FOV, aspect, c.Near, c.Far)
}
