package camera

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// OrbitCamera orbits around a center point. Input moves goal angles and
// distance; Update eases the current values toward them with critically
// damped springs.
type OrbitCamera struct {
	Center math.Vec3

	// Current spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	// Goals set by input
	GoalDistance  float32
	GoalRotationX float32
	GoalRotationY float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	spring                    harmonica.Spring
	velDist, velPitch, velYaw float64
}

// NewOrbitCamera creates an orbit camera stepped at fps updates per second.
func NewOrbitCamera(fps int) *OrbitCamera {
	c := &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.4,
		MinDistance:     2.0,
		MaxDistance:     200.0,
		MinPitch:        -1.2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		spring:          harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	c.GoalDistance = c.Distance
	c.GoalRotationX = c.RotationX
	c.GoalRotationY = c.RotationY
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// HandleDrag updates the goal rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.GoalRotationY -= deltaX * c.DragSensitivity
	c.GoalRotationX += deltaY * c.DragSensitivity
	c.GoalRotationX = clamp(c.GoalRotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates the goal distance from a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.GoalDistance -= delta * c.GoalDistance * c.ZoomSensitivity
	c.GoalDistance = clamp(c.GoalDistance, c.MinDistance, c.MaxDistance)
}

// Update advances the springs by one step.
func (c *OrbitCamera) Update() {
	var d, p, y float64
	d, c.velDist = c.spring.Update(float64(c.Distance), c.velDist, float64(c.GoalDistance))
	p, c.velPitch = c.spring.Update(float64(c.RotationX), c.velPitch, float64(c.GoalRotationX))
	y, c.velYaw = c.spring.Update(float64(c.RotationY), c.velYaw, float64(c.GoalRotationY))
	c.Distance, c.RotationX, c.RotationY = float32(d), float32(p), float32(y)
}

// Apply places cam on the orbit, looking at the center.
func (c *OrbitCamera) Apply(cam *Camera) {
	cam.Position = c.Position()
	cam.LookAt(c.Center, math.Up)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
