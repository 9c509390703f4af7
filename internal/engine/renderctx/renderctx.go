// Package renderctx holds the renderer state shared by every water surface:
// the single-flight mirror pass guard and scoped overrides of global
// renderer settings that must be restored on every exit path.
package renderctx

import "sync/atomic"

// Guard admits at most one mirror render pass at a time. Surfaces rendering
// into the same host share one Guard.
type Guard struct {
	inside atomic.Bool
}

// NewGuard returns a clear guard.
func NewGuard() *Guard {
	return &Guard{}
}

// TryEnter marks a mirror pass as in flight. It returns false when another
// pass already holds the guard; the caller must then skip its work. On
// success the returned release func clears the guard and is safe to call
// more than once.
func (g *Guard) TryEnter() (release func(), ok bool) {
	if !g.inside.CompareAndSwap(false, true) {
		return nil, false
	}
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			g.inside.Store(false)
		}
	}, true
}

// Active reports whether a mirror pass is in flight.
func (g *Guard) Active() bool {
	return g.inside.Load()
}

// Globals is the process-wide renderer state a mirror pass temporarily changes.
type Globals interface {
	PixelLightCount() int
	SetPixelLightCount(n int)
	InvertCulling() bool
	SetInvertCulling(invert bool)
}

// OverridePixelLights sets the pixel light budget to n and returns a func
// restoring the value seen on entry.
func OverridePixelLights(g Globals, n int) (restore func()) {
	prev := g.PixelLightCount()
	g.SetPixelLightCount(n)
	return func() { g.SetPixelLightCount(prev) }
}

// WithInvertedCulling runs fn with triangle winding inverted and restores
// the previous winding before returning, even if fn panics.
func WithInvertedCulling(g Globals, fn func() error) error {
	prev := g.InvertCulling()
	g.SetInvertCulling(true)
	defer g.SetInvertCulling(prev)
	return fn()
}
