package math

// Plane is the set of points x with Normal·x + D = 0.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromPointNormal returns the plane through point with the given normal.
// normal is expected to be unit length.
func PlaneFromPointNormal(point, normal Vec3) Plane {
	return Plane{Normal: normal, D: -normal.Dot(point)}
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}

// Vec4 returns the plane as (nx, ny, nz, d).
func (pl Plane) Vec4() Vec4 {
	return Vec4{pl.Normal.X, pl.Normal.Y, pl.Normal.Z, pl.D}
}

// Offset returns the plane pushed along its normal by dist.
func (pl Plane) Offset(dist float32) Plane {
	return Plane{Normal: pl.Normal, D: pl.D - dist}
}
