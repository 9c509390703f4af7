package visibility

import (
	"testing"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/pkg/math"
)

type box struct {
	lo, hi math.Vec3
	seen   []*camera.Camera
	onSeen func(cam *camera.Camera)
}

func (b *box) Bounds() (min, max math.Vec3) { return b.lo, b.hi }

func (b *box) OnVisibleTo(cam *camera.Camera) {
	b.seen = append(b.seen, cam)
	if b.onSeen != nil {
		b.onSeen(cam)
	}
}

func unitBox(x, y, z float32) *box {
	return &box{
		lo: math.Vec3{X: x - 1, Y: y - 1, Z: z - 1},
		hi: math.Vec3{X: x + 1, Y: y + 1, Z: z + 1},
	}
}

func lookingDownZ() *camera.Camera {
	cam := camera.New("main")
	cam.Position = math.Vec3{}
	cam.Forward = math.Vec3{X: 0, Y: 0, Z: -1}
	return cam
}

func TestFrustumAABB(t *testing.T) {
	cam := lookingDownZ()
	f := NewFrustum(cam.ViewProjection())

	tests := []struct {
		name string
		b    *box
		want bool
	}{
		{"in front", unitBox(0, 0, -10), true},
		{"behind", unitBox(0, 0, 10), false},
		{"far left", unitBox(-100, 0, -10), false},
		{"beyond far plane", unitBox(0, 0, -2000), false},
		{"straddling near plane", unitBox(0, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsAABB(tt.b.lo, tt.b.hi); got != tt.want {
				t.Errorf("IntersectsAABB = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotifyFiltersByFrustumAndLayer(t *testing.T) {
	d := NewDispatcher()
	visible := unitBox(0, 0, -10)
	behind := unitBox(0, 0, 10)
	masked := unitBox(0, 0, -20)
	d.Add(visible, 0)
	d.Add(behind, 0)
	d.Add(masked, 4)

	cam := lookingDownZ()
	cam.CullingMask = camera.AllLayers &^ (1 << 4)

	if n := d.Notify(cam); n != 1 {
		t.Errorf("Notify = %d, want 1", n)
	}
	if len(visible.seen) != 1 || visible.seen[0] != cam {
		t.Error("visible box not notified")
	}
	if len(behind.seen) != 0 || len(masked.seen) != 0 {
		t.Error("culled boxes notified")
	}
}

func TestNotifyNested(t *testing.T) {
	d := NewDispatcher()
	b := unitBox(0, 0, -10)
	inner := lookingDownZ()
	depth := 0
	b.onSeen = func(cam *camera.Camera) {
		if depth > 0 {
			return
		}
		depth++
		d.Notify(inner)
		depth--
	}
	d.Add(b, 0)

	d.Notify(lookingDownZ())
	if len(b.seen) != 2 || b.seen[1] != inner {
		t.Errorf("seen %d times, want outer then inner", len(b.seen))
	}
}

func TestNilCamera(t *testing.T) {
	d := NewDispatcher()
	a := unitBox(0, 0, -10)
	d.Add(a, 0)

	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
	if d.Notify(nil) != 0 || len(a.seen) != 0 {
		t.Error("nil camera notified receivers")
	}
}
