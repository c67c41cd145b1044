package math

func NewQuatIdentity() Quaternion {
	return Quaternion{W: 1}
}

func (q Quaternion) Normal() float32 {
	return ksqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalized() Quaternion {
	n := q.Normal()
	if n == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quaternion) Dot(o Quaternion) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

/**
 * @brief Hamilton product q * o. The resulting rotation applies o first.
 */
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.X*o.W + q.Y*o.Z - q.Z*o.Y + q.W*o.X,
		Y: -q.X*o.Z + q.Y*o.W + q.Z*o.X + q.W*o.Y,
		Z: q.X*o.Y - q.Y*o.X + q.Z*o.W + q.W*o.Z,
		W: -q.X*o.X - q.Y*o.Y - q.Z*o.Z + q.W*o.W,
	}
}

/**
 * @brief Creates a rotation matrix from the given quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalized()
	x, y, z, w := n.X, n.Y, n.Z, n.W
	out := NewMat4Identity()
	out.Data[0] = 1 - 2*(y*y+z*z)
	out.Data[1] = 2 * (x*y + z*w)
	out.Data[2] = 2 * (x*z - y*w)
	out.Data[4] = 2 * (x*y - z*w)
	out.Data[5] = 1 - 2*(x*x+z*z)
	out.Data[6] = 2 * (y*z + x*w)
	out.Data[8] = 2 * (x*z + y*w)
	out.Data[9] = 2 * (y*z - x*w)
	out.Data[10] = 1 - 2*(x*x+y*y)
	return out
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	a := axis.Normalized()
	half := 0.5 * angle
	s := ksin(half)
	q := Quaternion{X: s * a.X, Y: s * a.Y, Z: s * a.Z, W: kcos(half)}
	if normalize {
		return q.Normalized()
	}
	return q
}

/**
 * @brief Creates a quaternion from Euler angles applied in X, Y, Z order.
 */
func NewQuatFromEuler(e Euler) Quaternion {
	c1, c2, c3 := kcos(e.X/2), kcos(e.Y/2), kcos(e.Z/2)
	s1, s2, s3 := ksin(e.X/2), ksin(e.Y/2), ksin(e.Z/2)
	return Quaternion{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

/**
 * @brief Creates the shortest-arc rotation taking unit vector from onto unit
 * vector to. Opposite vectors rotate half a turn about an arbitrary
 * perpendicular axis.
 */
func NewQuatFromUnitVectors(from, to Vec3) Quaternion {
	r := from.Dot(to) + 1
	var q Quaternion
	if r < K_FLOAT_EPSILON {
		r = 0
		if kabs(from.X) > kabs(from.Z) {
			q = Quaternion{X: -from.Y, Y: from.X, Z: 0, W: r}
		} else {
			q = Quaternion{X: 0, Y: -from.Z, Z: from.Y, W: r}
		}
	} else {
		c := from.Cross(to)
		q = Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: r}
	}
	return q.Normalized()
}

/**
 * @brief Calculates spherical linear interpolation of a given percentage
 * between two quaternions.
 */
func (q Quaternion) Slerp(o Quaternion, percentage float32) Quaternion {
	v0 := q.Normalized()
	v1 := o.Normalized()
	dot := v0.Dot(v1)
	if dot < 0 {
		v1 = Quaternion{X: -v1.X, Y: -v1.Y, Z: -v1.Z, W: -v1.W}
		dot = -dot
	}
	const dotThreshold float32 = 0.9995
	if dot > dotThreshold {
		out := Quaternion{
			X: v0.X + (v1.X-v0.X)*percentage,
			Y: v0.Y + (v1.Y-v0.Y)*percentage,
			Z: v0.Z + (v1.Z-v0.Z)*percentage,
			W: v0.W + (v1.W-v0.W)*percentage,
		}
		return out.Normalized()
	}
	theta0 := kacos(dot)
	theta := theta0 * percentage
	sinTheta := ksin(theta)
	sinTheta0 := ksin(theta0)
	s0 := kcos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Quaternion{
		X: v0.X*s0 + v1.X*s1,
		Y: v0.Y*s0 + v1.Y*s1,
		Z: v0.Z*s0 + v1.Z*s1,
		W: v0.W*s0 + v1.W*s1,
	}
}
