package water

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/material"
	"github.com/Faultbox/midgard-water/internal/engine/mirror"
	"github.com/Faultbox/midgard-water/internal/engine/renderctx"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

const waterMask = uint32(1) << WaterLayer

// OnVisibleTo is called by the host each frame the surface is about to be
// drawn for cam. It renders the reflection and refraction passes the
// effective mode needs, binds the results to the material and selects the
// shader variant. Calls made while any surface sharing the guard is inside
// a pass are dropped. Errors and panics are logged, never returned.
func (s *Surface) OnVisibleTo(cam *camera.Camera) {
	mat := s.material()
	if !s.enabled || cam == nil || mat == nil || !mat.Enabled || !s.renderable.Visible() {
		s.stats.Skipped++
		return
	}

	release, ok := s.guard.TryEnter()
	if !ok {
		s.stats.Reentrant++
		return
	}
	defer release()
	defer s.recoverPass(cam)
	defer func() { s.phase = PhaseIdle }()

	s.stats.Frames++
	s.phase = PhaseResolving
	s.hardware = HardwareSupport(s.host, s.renderable != nil)
	mode := EffectiveMode(s.Settings.Mode, s.hardware)
	s.lastMode = mode

	if mode > Simple && !s.renderPasses(cam, mat, mode) {
		return
	}

	if s.Settings.LocalKeywords {
		ApplyKeywords(KeywordSetterFunc(mat.SetKeyword), mode)
	} else {
		ApplyKeywords(s.host, mode)
	}
}

// renderPasses returns false when a nested render disabled or destroyed the
// surface; the remaining passes and texture binds are then skipped.
func (s *Surface) renderPasses(viewer *camera.Camera, mat *material.Material, mode Mode) bool {
	if s.Settings.DisablePixelLights {
		restore := renderctx.OverridePixelLights(s.host, 0)
		defer restore()
	}

	up := s.Up.Normalize()
	origin := mirror.Origin{Position: s.Position, Forward: math.Vec3{X: 0, Y: 0, Z: 1}, Up: up}

	reflCam, _ := s.reflections.GetOrCreate(viewer, origin)
	mirror.Sync(reflCam, viewer)
	var refrCam *camera.Camera
	if mode >= Refractive {
		refrCam, _ = s.refractions.GetOrCreate(viewer, origin)
		mirror.Sync(refrCam, viewer)
	}

	s.phase = PhaseRendering
	gen := s.destroyed
	err := s.renderReflection(viewer, reflCam, up)
	if !s.alive(gen) {
		return false
	}
	if err != nil {
		s.passFailed(mat, rendertarget.Reflection, err)
	} else {
		mat.SetTexture(ReflectionTexture, s.targets.Target(rendertarget.Reflection))
	}

	if refrCam == nil {
		return true
	}
	err = s.renderRefraction(viewer, refrCam, up)
	if !s.alive(gen) {
		return false
	}
	if err != nil {
		s.passFailed(mat, rendertarget.Refraction, err)
	} else {
		mat.SetTexture(RefractionTexture, s.targets.Target(rendertarget.Refraction))
	}
	return true
}

// renderReflection draws the scene mirrored about the surface plane.
func (s *Surface) renderReflection(viewer, mc *camera.Camera, normal math.Vec3) error {
	target, err := s.targets.Ensure(rendertarget.Reflection, s.Settings.TextureSize, s.host.Frame())
	if err != nil {
		return err
	}

	offset := s.Settings.ClipPlaneOffset
	plane := math.PlaneFromPointNormal(s.Position, normal).Offset(offset)
	reflection := math.ReflectionMatrix(plane)

	mc.SetViewMatrix(viewer.ViewMatrix().Mul(reflection))
	clip := math.CameraSpacePlane(mc.ViewMatrix(), s.Position, normal, offset, 1)
	mc.SetProjectionMatrix(viewer.ObliqueMatrix(clip))
	mc.CullingMask = s.Settings.ReflectLayers &^ waterMask
	mc.Target = target
	mc.Position = reflection.TransformPoint(viewer.Position)
	mc.Forward = reflection.TransformDirection(viewer.Forward)
	mc.Up = reflection.TransformDirection(viewer.Up)

	// Mirroring flips triangle winding.
	err = renderctx.WithInvertedCulling(s.host, func() error {
		return s.host.Render(mc, target)
	})
	if err != nil {
		return fmt.Errorf("rendering reflection: %w", err)
	}
	return nil
}

// renderRefraction draws the scene below the surface from the viewer's pose.
func (s *Surface) renderRefraction(viewer, mc *camera.Camera, normal math.Vec3) error {
	target, err := s.targets.Ensure(rendertarget.Refraction, s.Settings.TextureSize, s.host.Frame())
	if err != nil {
		return err
	}

	mc.SetViewMatrix(viewer.ViewMatrix())
	clip := math.CameraSpacePlane(mc.ViewMatrix(), s.Position, normal, s.Settings.ClipPlaneOffset, -1)
	mc.SetProjectionMatrix(viewer.ObliqueMatrix(clip))
	mc.CullingMask = s.Settings.RefractLayers &^ waterMask
	mc.Target = target
	mc.Position = viewer.Position
	mc.Forward = viewer.Forward
	mc.Up = viewer.Up

	if err := s.host.Render(mc, target); err != nil {
		return fmt.Errorf("rendering refraction: %w", err)
	}
	return nil
}

// passFailed keeps the last good texture bound unless its target is gone.
func (s *Surface) passFailed(mat *material.Material, kind rendertarget.Kind, err error) {
	s.stats.Failures++
	if s.targets.Target(kind) == nil {
		mat.SetTexture(textureSlot(kind), nil)
	}

	fields := []zap.Field{
		zap.Uint64("surface", s.id),
		zap.Stringer("pass", kind),
		zap.Uint64("frame", s.host.Frame()),
		zap.Error(err),
	}
	if errors.Is(err, rendertarget.ErrRetryNextFrame) {
		logger.Debug("water pass skipped", fields...)
		return
	}
	logger.Warn("water pass failed", fields...)
}

func (s *Surface) recoverPass(cam *camera.Camera) {
	if r := recover(); r != nil {
		s.stats.Panics++
		logger.Error("water pass panicked",
			zap.Uint64("surface", s.id),
			zap.String("camera", cam.Name),
			zap.Any("panic", r),
		)
	}
}
