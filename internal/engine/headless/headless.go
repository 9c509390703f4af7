// Package headless provides a renderer host without a GPU. It records
// every render request and target allocation so the water pipeline can be
// driven and inspected from tests and command line tools.
package headless

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// ErrAllocationFailed is returned by Allocate while FailAllocations is set.
var ErrAllocationFailed = errors.New("headless: target allocation failed")

// Target is an in-memory render target.
type Target struct {
	name      string
	size      int
	depthBits int
	texture   uint32
	released  bool
	host      *Host
}

func (t *Target) Name() string    { return t.name }
func (t *Target) Size() int       { return t.size }
func (t *Target) Texture() uint32 { return t.texture }

// DepthBits returns the requested depth precision.
func (t *Target) DepthBits() int { return t.depthBits }

// Released reports whether Release was called.
func (t *Target) Released() bool { return t.released }

// Release frees the target. Releasing twice is a no-op.
func (t *Target) Release() {
	if t.released {
		return
	}
	t.released = true
	t.host.releases++
	delete(t.host.live, t)
}

// RenderCall is one recorded Render request.
type RenderCall struct {
	Frame         uint64
	Camera        string
	CameraID      camera.ID
	Target        string
	TargetSize    int
	InvertCulling bool
	PixelLights   int
	CullingMask   uint32
	Position      math.Vec3
	View          math.Mat4
	Projection    math.Mat4
}

// Host implements the water host contract and rendertarget.Allocator.
type Host struct {
	// NoRenderTargets makes the host report no offscreen target support.
	NoRenderTargets bool
	// FailAllocations makes Allocate fail.
	FailAllocations bool
	// RenderErr is returned by Render when OnRender is nil.
	RenderErr error
	// OnRender runs inside Render, e.g. to notify surfaces seen by a
	// mirror camera. Its error is returned by Render.
	OnRender func(cam *camera.Camera, target rendertarget.Target) error

	frame       uint64
	pixelLights int
	invert      bool
	keywords    map[string]bool

	renders     []RenderCall
	nextTexture uint32
	allocations int
	releases    int
	live        map[*Target]struct{}
}

// New returns a host with the given pixel light budget.
func New(pixelLights int) *Host {
	return &Host{
		pixelLights: pixelLights,
		keywords:    make(map[string]bool),
		live:        make(map[*Target]struct{}),
	}
}

// Allocate creates a target.
func (h *Host) Allocate(name string, size, depthBits int) (rendertarget.Target, error) {
	if h.FailAllocations {
		return nil, fmt.Errorf("%s %dx%d: %w", name, size, size, ErrAllocationFailed)
	}
	h.nextTexture++
	h.allocations++
	t := &Target{name: name, size: size, depthBits: depthBits, texture: h.nextTexture, host: h}
	h.live[t] = struct{}{}
	return t, nil
}

// BeginFrame advances the frame counter and returns the new frame number.
func (h *Host) BeginFrame() uint64 {
	h.frame++
	return h.frame
}

// Frame returns the current frame number.
func (h *Host) Frame() uint64 { return h.frame }

// SupportsRenderTargets reports offscreen target support.
func (h *Host) SupportsRenderTargets() bool { return !h.NoRenderTargets }

// Render records the request and runs OnRender.
func (h *Host) Render(cam *camera.Camera, target rendertarget.Target) error {
	call := RenderCall{
		Frame:         h.frame,
		Camera:        cam.Name,
		CameraID:      cam.ID,
		InvertCulling: h.invert,
		PixelLights:   h.pixelLights,
		CullingMask:   cam.CullingMask,
		Position:      cam.Position,
		View:          cam.ViewMatrix(),
		Projection:    cam.ProjectionMatrix(),
	}
	if target != nil {
		call.Target = target.Name()
		call.TargetSize = target.Size()
	}
	h.renders = append(h.renders, call)
	logger.Debug("headless render",
		zap.Uint64("frame", h.frame),
		zap.String("camera", call.Camera),
		zap.String("target", call.Target),
		zap.Bool("invertCulling", call.InvertCulling),
	)

	if h.OnRender != nil {
		return h.OnRender(cam, target)
	}
	return h.RenderErr
}

// Renders returns the recorded render calls.
func (h *Host) Renders() []RenderCall { return h.renders }

// ResetRenders clears the recorded render calls.
func (h *Host) ResetRenders() { h.renders = nil }

// Allocations returns how many targets were created.
func (h *Host) Allocations() int { return h.allocations }

// Releases returns how many targets were released.
func (h *Host) Releases() int { return h.releases }

// Live returns how many targets are allocated and not released.
func (h *Host) Live() int { return len(h.live) }

func (h *Host) PixelLightCount() int         { return h.pixelLights }
func (h *Host) SetPixelLightCount(n int)     { h.pixelLights = n }
func (h *Host) InvertCulling() bool          { return h.invert }
func (h *Host) SetInvertCulling(invert bool) { h.invert = invert }

// SetShaderKeyword sets a global shader keyword.
func (h *Host) SetShaderKeyword(name string, enabled bool) {
	h.keywords[name] = enabled
}

// Keyword reports whether a global keyword is enabled.
func (h *Host) Keyword(name string) bool { return h.keywords[name] }

// EnabledKeywords returns the enabled global keywords, sorted.
func (h *Host) EnabledKeywords() []string {
	var out []string
	for name, on := range h.keywords {
		if on {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
