package water

import (
	gomath "math"
	"time"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// WaveParams returns the scrolling offsets and per-layer scales of the two
// normal-map layers at a given time since the scene loaded.
func WaveParams(speed math.Vec4, scale float32, sinceLoad time.Duration) (offset, scale4 math.Vec4) {
	scale4 = math.Vec4{scale, scale, scale * 0.4, scale * 0.45}
	t := sinceLoad.Seconds() / 20
	for i := range offset {
		offset[i] = repeat(float64(speed[i]*scale4[i])*t, 1)
	}
	return offset, scale4
}

// Update feeds the wave animation into the material. It runs every frame
// regardless of visibility.
func (s *Surface) Update(sinceLoad time.Duration) {
	mat := s.material()
	if mat == nil {
		return
	}
	offset, scale4 := WaveParams(mat.Vector(WaveSpeedProperty), mat.Float(WaveScaleProperty), sinceLoad)
	mat.SetVector(WaveScale4Property, scale4)
	mat.SetVector(WaveOffsetProperty, offset)
}

// repeat wraps t into [0, length).
func repeat(t, length float64) float32 {
	v := t - gomath.Floor(t/length)*length
	return float32(gomath.Min(gomath.Max(v, 0), length))
}
