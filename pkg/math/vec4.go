package math

// Vec4 is a 4-component vector. Planes are stored as (nx, ny, nz, d).
type Vec4 [4]float32

// XYZ returns the first three components.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Dot returns the 4D dot product.
func (v Vec4) Dot(other Vec4) float32 {
	return v[0]*other[0] + v[1]*other[1] + v[2]*other[2] + v[3]*other[3]
}

// Scale returns v * s.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v[0] - other[0], v[1] - other[1], v[2] - other[2], v[3] - other[3]}
}

// Point returns p as a homogeneous point (w=1).
func Point(p Vec3) Vec4 {
	return Vec4{p.X, p.Y, p.Z, 1}
}

// sgn returns the sign of x, treating zero as zero.
func sgn(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
