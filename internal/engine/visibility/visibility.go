// Package visibility decides which registered objects a camera sees and
// tells them before they are drawn.
package visibility

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Receiver is notified each time a camera is about to draw it.
type Receiver interface {
	OnVisibleTo(cam *camera.Camera)
	Bounds() (min, max math.Vec3)
}

type plane struct {
	normal mgl32.Vec3
	d      float32
}

// Frustum is the six clip planes of a view-projection matrix, normals
// pointing inward. Order: left, right, bottom, top, near, far.
type Frustum [6]plane

// NewFrustum extracts the planes of viewProj.
func NewFrustum(viewProj math.Mat4) Frustum {
	m := mgl32.Mat4(viewProj)
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	raw := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}

	var f Frustum
	for i, p := range raw {
		n := p.Vec3()
		length := n.Len()
		if length == 0 {
			f[i] = plane{normal: n, d: p.W()}
			continue
		}
		f[i] = plane{normal: n.Mul(1 / length), d: p.W() / length}
	}
	return f
}

// IntersectsAABB reports whether the box is at least partly inside.
func (f Frustum) IntersectsAABB(lo, hi math.Vec3) bool {
	for _, p := range f {
		// Corner furthest along the plane normal.
		v := mgl32.Vec3{hi.X, hi.Y, hi.Z}
		if p.normal.X() < 0 {
			v[0] = lo.X
		}
		if p.normal.Y() < 0 {
			v[1] = lo.Y
		}
		if p.normal.Z() < 0 {
			v[2] = lo.Z
		}
		if p.normal.Dot(v)+p.d < 0 {
			return false
		}
	}
	return true
}

type entry struct {
	r     Receiver
	layer uint
}

// Dispatcher holds receivers and notifies the ones a camera sees.
type Dispatcher struct {
	entries []entry
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Add registers r on a layer.
func (d *Dispatcher) Add(r Receiver, layer uint) {
	d.entries = append(d.entries, entry{r: r, layer: layer})
}

// Len returns the number of registered receivers.
func (d *Dispatcher) Len() int {
	return len(d.entries)
}

// Notify calls OnVisibleTo on every receiver whose layer cam draws and whose
// bounds intersect cam's frustum. Receivers may call back into the renderer,
// and so into Notify, from OnVisibleTo. It returns how many were notified.
func (d *Dispatcher) Notify(cam *camera.Camera) int {
	if cam == nil {
		return 0
	}
	frustum := NewFrustum(cam.ViewProjection())

	notified := 0
	for _, e := range slices.Clone(d.entries) {
		if !cam.Draws(e.layer) {
			continue
		}
		lo, hi := e.r.Bounds()
		if !frustum.IntersectsAABB(lo, hi) {
			continue
		}
		e.r.OnVisibleTo(cam)
		notified++
	}
	return notified
}
