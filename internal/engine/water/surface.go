// Package water renders planar reflections and refractions for horizontal
// water surfaces by re-rendering the scene from mirrored cameras into
// offscreen targets that the surface material samples.
package water

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/material"
	"github.com/Faultbox/midgard-water/internal/engine/mirror"
	"github.com/Faultbox/midgard-water/internal/engine/renderctx"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Material properties read and written by a surface.
const (
	ReflectionTexture  = "_ReflectionTex"
	RefractionTexture  = "_RefractionTex"
	WaveSpeedProperty  = "WaveSpeed"
	WaveScaleProperty  = "_WaveScale"
	WaveOffsetProperty = "_WaveOffset"
	WaveScale4Property = "_WaveScale4"
)

// WaterLayer is the layer water surfaces live on. Mirror cameras never draw it.
const WaterLayer uint = 4

// Host is the renderer a surface renders its mirror passes with.
type Host interface {
	renderctx.Globals
	KeywordSetter
	TargetSupport

	// Frame returns the number of the frame being rendered.
	Frame() uint64
	// Render draws the scene from cam into target synchronously. It may
	// notify visible surfaces again, which the guard then drops.
	Render(cam *camera.Camera, target rendertarget.Target) error
}

// Settings are the per-surface knobs. They are read again every frame.
type Settings struct {
	Mode               Mode
	DisablePixelLights bool
	TextureSize        int
	ClipPlaneOffset    float32
	ReflectLayers      uint32
	RefractLayers      uint32
	// LocalKeywords writes the mode keywords into the surface material
	// instead of the host's global keyword table.
	LocalKeywords bool
}

// DefaultSettings returns refractive water with 256px targets.
func DefaultSettings() Settings {
	return Settings{
		Mode:               Refractive,
		DisablePixelLights: true,
		TextureSize:        256,
		ClipPlaneOffset:    0.07,
		ReflectLayers:      camera.AllLayers,
		RefractLayers:      camera.AllLayers,
	}
}

// Validate checks settings for values no frame could render with.
func (s Settings) Validate() error {
	if s.Mode < Simple || s.Mode > Refractive {
		return fmt.Errorf("invalid water mode %d", int(s.Mode))
	}
	if s.TextureSize <= 0 {
		return fmt.Errorf("%w: %d", rendertarget.ErrInvalidSize, s.TextureSize)
	}
	if s.ClipPlaneOffset < 0 {
		return fmt.Errorf("clip plane offset must not be negative: %v", s.ClipPlaneOffset)
	}
	return nil
}

// Phase is where a surface is within OnVisibleTo.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseRendering
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseRendering:
		return "rendering"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Stats counts what OnVisibleTo did.
type Stats struct {
	Frames    int // notifications that ran the pipeline
	Skipped   int // notifications failing a precondition
	Reentrant int // notifications dropped by the guard
	Failures  int // passes skipped after an error
	Panics    int // recovered panics
}

var lastSurfaceID atomic.Uint64

// Surface is one water plane with its mirror cameras and targets.
type Surface struct {
	Settings Settings

	Position math.Vec3
	Up       math.Vec3
	Layer    uint

	id         uint64
	host       Host
	guard      *renderctx.Guard
	renderable Renderable
	enabled    bool
	// destroyed counts Destroy calls, so a pass can tell that its surface
	// was torn down by a nested render.
	destroyed uint64

	phase    Phase
	hardware Mode
	lastMode Mode
	stats    Stats

	targets     *rendertarget.Pool
	reflections *mirror.Cache
	refractions *mirror.Cache
}

// New creates an enabled surface. The guard must be shared by every surface
// rendered through the same host. A nil renderable limits the surface to
// Simple mode.
func New(host Host, alloc rendertarget.Allocator, guard *renderctx.Guard, r Renderable, settings Settings) (*Surface, error) {
	if host == nil {
		return nil, errors.New("water surface needs a host")
	}
	if alloc == nil {
		return nil, errors.New("water surface needs a target allocator")
	}
	if guard == nil {
		return nil, errors.New("water surface needs a render guard")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("water settings: %w", err)
	}

	id := lastSurfaceID.Add(1)
	s := &Surface{
		Settings:    settings,
		Up:          math.Up,
		Layer:       WaterLayer,
		id:          id,
		host:        host,
		guard:       guard,
		renderable:  r,
		enabled:     true,
		targets:     rendertarget.NewPool(alloc, id),
		reflections: mirror.NewCache("reflection", id),
		refractions: mirror.NewCache("refraction", id),
	}
	if r != nil {
		lo, hi := r.Bounds()
		s.Position = lo.Add(hi).Scale(0.5)
	}
	return s, nil
}

// ID returns the surface's process-unique ID.
func (s *Surface) ID() uint64 { return s.id }

// Renderable returns the drawable the surface belongs to.
func (s *Surface) Renderable() Renderable { return s.renderable }

// Bounds returns the renderable's box, or a point at Position without one.
func (s *Surface) Bounds() (min, max math.Vec3) {
	if s.renderable == nil {
		return s.Position, s.Position
	}
	return s.renderable.Bounds()
}

// Phase returns the current orchestration phase.
func (s *Surface) Phase() Phase { return s.phase }

// LastMode returns the mode the most recent frame rendered with.
func (s *Surface) LastMode() Mode { return s.lastMode }

// Stats returns notification counters.
func (s *Surface) Stats() Stats { return s.stats }

// TargetStats returns the target pool counters.
func (s *Surface) TargetStats() rendertarget.Stats { return s.targets.Stats() }

// Target returns the current reflection or refraction target, or nil.
func (s *Surface) Target(kind rendertarget.Kind) rendertarget.Target {
	return s.targets.Target(kind)
}

// MirrorCamera returns the cached camera for a viewer and pass.
func (s *Surface) MirrorCamera(kind rendertarget.Kind, viewer camera.ID) (*camera.Camera, bool) {
	return s.cache(kind).Lookup(viewer)
}

// MirrorCameras returns how many mirror cameras the surface holds.
func (s *Surface) MirrorCameras() int {
	return s.reflections.Len() + s.refractions.Len()
}

// CamerasCreated returns how many mirror cameras the surface ever made.
func (s *Surface) CamerasCreated() int {
	return s.reflections.Created() + s.refractions.Created()
}

// ForgetViewer drops the mirror cameras of a viewer that went away.
func (s *Surface) ForgetViewer(viewer camera.ID) {
	s.reflections.Forget(viewer)
	s.refractions.Forget(viewer)
}

// Enabled reports whether the surface reacts to visibility notifications.
func (s *Surface) Enabled() bool { return s.enabled }

// SetEnabled toggles the surface. Disabling frees its targets and cameras.
func (s *Surface) SetEnabled(enabled bool) {
	if !enabled && s.enabled {
		s.Destroy()
	}
	s.enabled = enabled
}

// Destroy frees every target and mirror camera the surface owns. A
// surface used again afterwards recreates them lazily.
func (s *Surface) Destroy() {
	s.destroyed++
	s.targets.Release()
	s.reflections.Destroy()
	s.refractions.Destroy()
	if mat := s.material(); mat != nil {
		mat.SetTexture(ReflectionTexture, nil)
		mat.SetTexture(RefractionTexture, nil)
	}
}

// alive reports whether the surface is still enabled and was not destroyed
// since generation gen was observed.
func (s *Surface) alive(gen uint64) bool {
	return s.enabled && s.destroyed == gen
}

func (s *Surface) cache(kind rendertarget.Kind) *mirror.Cache {
	if kind == rendertarget.Refraction {
		return s.refractions
	}
	return s.reflections
}

func (s *Surface) material() *material.Material {
	if s.renderable == nil {
		return nil
	}
	return s.renderable.SharedMaterial()
}

func textureSlot(kind rendertarget.Kind) string {
	if kind == rendertarget.Refraction {
		return RefractionTexture
	}
	return ReflectionTexture
}
