package math

// ReflectionMatrix returns the affine matrix that mirrors points across pl.
// pl.Normal must be unit length.
func ReflectionMatrix(pl Plane) Mat4 {
	nx, ny, nz, d := pl.Normal.X, pl.Normal.Y, pl.Normal.Z, pl.D

	return Mat4{
		1 - 2*nx*nx, -2 * ny * nx, -2 * nz * nx, 0,
		-2 * nx * ny, 1 - 2*ny*ny, -2 * nz * ny, 0,
		-2 * nx * nz, -2 * ny * nz, 1 - 2*nz*nz, 0,
		-2 * d * nx, -2 * d * ny, -2 * d * nz, 1,
	}
}

// CameraSpacePlane transforms the plane through pos with the given world
// normal into the view space of view. The point is first pushed along the
// normal by clipOffset. sideSign selects which half-space is kept: +1 keeps
// the side the normal points to, -1 the opposite side.
func CameraSpacePlane(view Mat4, pos, normal Vec3, clipOffset, sideSign float32) Vec4 {
	offsetPos := pos.Add(normal.Scale(clipOffset))
	cPos := view.TransformPoint(offsetPos)
	cNormal := view.TransformDirection(normal).Normalize().Scale(sideSign)

	return Vec4{cNormal.X, cNormal.Y, cNormal.Z, -cPos.Dot(cNormal)}
}

// ObliqueProjection replaces the near plane of proj with clipPlane, given in
// view space with its positive side facing the visible volume. The far plane
// is tilted as little as possible so depth precision stays usable.
//
// See Lengyel, "Oblique View Frustum Depth Projection and Clipping" (2005).
func ObliqueProjection(proj Mat4, clipPlane Vec4) Mat4 {
	corner := Vec4{sgn(clipPlane[0]), sgn(clipPlane[1]), 1, 1}
	q := proj.Inverse().MulVec4(corner)

	denom := clipPlane.Dot(q)
	if denom == 0 {
		return proj
	}
	c := clipPlane.Scale(2 / denom)

	result := proj
	result.SetRow(2, c.Sub(proj.Row(3)))
	return result
}
