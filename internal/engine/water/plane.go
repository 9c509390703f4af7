package water

import (
	"github.com/Faultbox/midgard-water/internal/engine/material"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Plane holds water quad geometry ready for GPU upload.
type Plane struct {
	Vertices []float32 // x,y,z for each of 4 vertices
	Level    float32   // world Y of the surface
	Min, Max math.Vec3
}

// BuildPlane creates a horizontal quad at level covering the given XZ bounds.
func BuildPlane(minX, maxX, minZ, maxZ, level float32) *Plane {
	// BL, BR, TR, TL for TRIANGLE_FAN rendering
	vertices := []float32{
		minX, level, minZ,
		maxX, level, minZ,
		maxX, level, maxZ,
		minX, level, maxZ,
	}

	return &Plane{
		Vertices: vertices,
		Level:    level,
		Min:      math.Vec3{X: minX, Y: level, Z: minZ},
		Max:      math.Vec3{X: maxX, Y: level, Z: maxZ},
	}
}

// Center returns the middle of the quad.
func (p *Plane) Center() math.Vec3 {
	return p.Min.Add(p.Max).Scale(0.5)
}

// Renderable is the drawable a surface belongs to.
type Renderable interface {
	Visible() bool
	SharedMaterial() *material.Material
	Bounds() (min, max math.Vec3)
}

// Mesh is a Renderable made of a water plane and its material. A nil *Mesh
// is an invisible renderable without material.
type Mesh struct {
	Plane    *Plane
	Material *material.Material
	Hidden   bool
}

// Visible reports whether the mesh is drawn.
func (m *Mesh) Visible() bool {
	return m != nil && !m.Hidden && m.Plane != nil
}

// SharedMaterial returns the mesh material.
func (m *Mesh) SharedMaterial() *material.Material {
	if m == nil {
		return nil
	}
	return m.Material
}

// Bounds returns the world-space box of the plane.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if m == nil || m.Plane == nil {
		return math.Vec3{}, math.Vec3{}
	}
	return m.Plane.Min, m.Plane.Max
}
