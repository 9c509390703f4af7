// Package lighting provides the directional sun light of the scene.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// SunDirection converts sun angles in degrees to the direction the light
// travels. Longitude rotates around Y starting at +Z, latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := float64(longitude) * gomath.Pi / 180
	lat := float64(latitude) * gomath.Pi / 180

	toSun := math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
	return toSun.Negate()
}
