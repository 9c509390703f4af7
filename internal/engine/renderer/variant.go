package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/material"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// waterKeywords in preference order.
var waterKeywords = []string{water.KeywordRefractive, water.KeywordReflective, water.KeywordSimple}

// waterVariant picks the shader variant for a material. Keywords set on the
// material take precedence over the global table.
func waterVariant(mat *material.Material, global func(string) bool) string {
	local := false
	for _, kw := range waterKeywords {
		on, ok := mat.Keyword(kw)
		local = local || ok
		if on {
			return kw
		}
	}
	if !local {
		for _, kw := range waterKeywords {
			if global(kw) {
				return kw
			}
		}
	}
	return water.KeywordSimple
}

// clearMask returns the buffers a camera clears before drawing.
func clearMask(flags camera.ClearFlags) uint32 {
	switch flags {
	case camera.ClearSkybox, camera.ClearSolidColor:
		return gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT
	case camera.ClearDepth:
		return gl.DEPTH_BUFFER_BIT
	}
	return 0
}

// cubeVertices returns a unit cube as position+normal triangles, wound
// counter-clockwise seen from outside.
func cubeVertices() []float32 {
	faces := []struct{ n, u, v math.Vec3 }{
		{math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{Z: 1}, math.Vec3{X: 1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{Y: 1}, math.Vec3{X: 1}},
	}

	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		c := f.n.Scale(0.5)
		corner := func(su, sv float32) math.Vec3 {
			return c.Add(f.u.Scale(su * 0.5)).Add(f.v.Scale(sv * 0.5))
		}
		quad := [6]math.Vec3{
			corner(-1, -1), corner(1, -1), corner(1, 1),
			corner(-1, -1), corner(1, 1), corner(-1, 1),
		}
		for _, p := range quad {
			out = append(out, p.X, p.Y, p.Z, f.n.X, f.n.Y, f.n.Z)
		}
	}
	return out
}

// boxModel returns the model matrix of an axis-aligned box.
func boxModel(center, size math.Vec3) math.Mat4 {
	return math.Mat4{
		size.X, 0, 0, 0,
		0, size.Y, 0, 0,
		0, 0, size.Z, 0,
		center.X, center.Y, center.Z, 1,
	}
}
