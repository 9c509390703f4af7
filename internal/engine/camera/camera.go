// Package camera provides the camera model shared by viewing cameras and
// the auxiliary mirror cameras of water surfaces.
package camera

import (
	gomath "math"
	"sync/atomic"

	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// ID identifies a camera for the lifetime of the process.
type ID uint64

var lastID atomic.Uint64

// NextID returns a fresh camera ID.
func NextID() ID {
	return ID(lastID.Add(1))
}

// ClearFlags selects what a camera clears before drawing.
type ClearFlags int

const (
	ClearSkybox ClearFlags = iota
	ClearSolidColor
	ClearDepth
	ClearNothing
)

// Skybox is a per-camera sky override.
type Skybox struct {
	Enabled  bool
	Material string
}

// AllLayers is a culling mask that draws every layer.
const AllLayers = ^uint32(0)

// Camera describes a view into the scene.
type Camera struct {
	ID   ID
	Name string

	// Enabled cameras are drawn by the host every frame. Mirror cameras are
	// disabled and only rendered on demand.
	Enabled bool
	// Hidden cameras are internal and never saved with a scene.
	Hidden bool

	Position math.Vec3
	Forward  math.Vec3
	Up       math.Vec3

	ClearFlags ClearFlags
	Background [4]float32
	Skybox     Skybox

	Near             float32
	Far              float32
	Orthographic     bool
	FieldOfView      float32 // vertical, degrees
	Aspect           float32
	OrthographicSize float32 // half height

	CullingMask uint32
	Target      rendertarget.Target

	view *math.Mat4
	proj *math.Mat4
}

// New returns an enabled perspective camera at the origin looking down -Z.
func New(name string) *Camera {
	return &Camera{
		ID:               NextID(),
		Name:             name,
		Enabled:          true,
		Forward:          math.Vec3{X: 0, Y: 0, Z: -1},
		Up:               math.Up,
		ClearFlags:       ClearSkybox,
		Background:       [4]float32{0.19, 0.3, 0.47, 1},
		Near:             0.3,
		Far:              1000,
		FieldOfView:      60,
		Aspect:           16.0 / 9.0,
		OrthographicSize: 5,
		CullingMask:      AllLayers,
	}
}

// LookAt orients the camera toward target.
func (c *Camera) LookAt(target, up math.Vec3) {
	c.Forward = target.Sub(c.Position).Normalize()
	c.Up = up
}

// WorldToCamera returns the transform-derived view matrix, ignoring overrides.
func (c *Camera) WorldToCamera() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Forward), c.Up)
}

// ViewMatrix returns the override set with SetViewMatrix, or the
// transform-derived view matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	if c.view != nil {
		return *c.view
	}
	return c.WorldToCamera()
}

// SetViewMatrix overrides the view matrix until ResetViewMatrix.
func (c *Camera) SetViewMatrix(m math.Mat4) {
	c.view = &m
}

// ResetViewMatrix drops a view override.
func (c *Camera) ResetViewMatrix() {
	c.view = nil
}

// BaseProjection returns the projection built from the camera settings.
func (c *Camera) BaseProjection() math.Mat4 {
	if c.Orthographic {
		h := c.OrthographicSize
		w := h * c.Aspect
		return math.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	fovY := c.FieldOfView * gomath.Pi / 180
	return math.Perspective(fovY, c.Aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the override set with SetProjectionMatrix, or
// the settings-derived projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	if c.proj != nil {
		return *c.proj
	}
	return c.BaseProjection()
}

// SetProjectionMatrix overrides the projection until ResetProjectionMatrix.
func (c *Camera) SetProjectionMatrix(m math.Mat4) {
	c.proj = &m
}

// ResetProjectionMatrix drops a projection override.
func (c *Camera) ResetProjectionMatrix() {
	c.proj = nil
}

// ObliqueMatrix returns the camera projection with its near plane replaced
// by clipPlane, given in view space.
func (c *Camera) ObliqueMatrix(clipPlane math.Vec4) math.Mat4 {
	return math.ObliqueProjection(c.ProjectionMatrix(), clipPlane)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Draws reports whether the culling mask includes layer.
func (c *Camera) Draws(layer uint) bool {
	return c.CullingMask&(1<<layer) != 0
}
