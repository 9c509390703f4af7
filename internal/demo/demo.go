// Package demo implements the interactive water demo main loop.
package demo

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/input"
	"github.com/Faultbox/midgard-water/internal/engine/lighting"
	"github.com/Faultbox/midgard-water/internal/engine/renderer"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/engine/scene"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/internal/engine/window"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/internal/snapshot"
)

const fps = 60

// Demo is the interactive demo instance.
type Demo struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	camera   *camera.Camera
	orbit    *camera.OrbitCamera
	start    time.Time
	// dirty is set when keys changed water settings that Close persists.
	dirty bool
}

// New creates the window, renderer and scene.
func New(cfg *config.Config) (*Demo, error) {
	logger.Info("initializing demo",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Stringer("mode", cfg.Water.Mode),
		zap.Int("textureSize", cfg.Water.TextureSize),
	)

	d := &Demo{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	wcfg := window.DefaultConfig()
	wcfg.Width, wcfg.Height = cfg.Graphics.Width, cfg.Graphics.Height
	wcfg.Fullscreen = cfg.Graphics.Fullscreen
	wcfg.VSync = cfg.Graphics.VSync
	d.window, err = window.New(wcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	d.renderer, err = renderer.New(renderer.Config{
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		PixelLights: cfg.Lighting.PixelLights,
		LightDir:    lighting.SunDirection(cfg.Lighting.SunLongitude, cfg.Lighting.SunLatitude),
		SkyColor:    [4]float32{0.55, 0.7, 0.9, 1},
	})
	if err != nil {
		d.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	d.scene, err = scene.Build(cfg, d.renderer, d.renderer.Allocator())
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	for _, b := range d.scene.Boxes {
		d.renderer.AddBox(b)
	}
	for _, s := range d.scene.Surfaces {
		if err := d.renderer.AddWater(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to add water: %w", err)
		}
	}

	width, height := d.window.DrawableSize()
	d.renderer.Resize(width, height)

	d.camera = camera.New("Main Camera")
	d.camera.Aspect = d.window.Aspect()
	d.orbit = camera.NewOrbitCamera(fps)
	d.orbit.Distance, d.orbit.GoalDistance = 45, 45
	d.orbit.MinPitch = 0.05
	d.orbit.Apply(d.camera)

	d.input = input.New()
	d.showStatus()

	logger.Info("demo initialized successfully")
	return d, nil
}

// Run starts the main loop.
func (d *Demo) Run() error {
	d.running = true
	d.start = time.Now()

	// Timing
	limit := d.config.Graphics.FPSLimit
	if limit <= 0 {
		limit = fps
	}
	frameTime := time.Second / time.Duration(limit)
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting demo loop")

	for d.running {
		frameStart := time.Now()

		// 1. Process input
		f := d.input.Update()
		if f.Quit {
			d.running = false
			break
		}
		d.handleFrame(f)

		// 2. Update
		d.orbit.Update()
		d.orbit.Apply(d.camera)
		d.scene.Update(time.Since(d.start))

		// 3. Render
		if err := d.renderer.RenderFrame(d.camera); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// Targets hold this frame's passes until the next render.
		if f.Has(input.ActionSaveTargets) {
			d.saveTargets()
		}

		// 4. Present (swap buffers)
		d.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			lake := d.scene.Surfaces[0]
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Stringer("mode", lake.LastMode()),
				zap.Int("mirrorCameras", lake.MirrorCameras()),
				zap.Int("reentrant", lake.Stats().Reentrant),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if !d.config.Graphics.VSync {
			if elapsed := time.Since(frameStart); elapsed < frameTime {
				time.Sleep(frameTime - elapsed)
			}
		}
	}

	return nil
}

func (d *Demo) handleFrame(f *input.Frame) {
	if f.Resized {
		width, height := d.window.DrawableSize()
		d.renderer.Resize(width, height)
		d.camera.Aspect = d.window.Aspect()
	}
	if f.DragX != 0 || f.DragY != 0 {
		d.orbit.HandleDrag(f.DragX, f.DragY)
	}
	if f.Zoom != 0 {
		d.orbit.HandleZoom(f.Zoom)
	}
	for _, a := range f.Actions {
		logger.Debug("action", zap.Stringer("action", a))
		switch a {
		case input.ActionSimple:
			d.setMode(water.Simple)
		case input.ActionReflective:
			d.setMode(water.Reflective)
		case input.ActionRefractive:
			d.setMode(water.Refractive)
		case input.ActionGrowTargets:
			d.setTextureSize(d.config.Water.TextureSize * 2)
		case input.ActionShrinkTargets:
			d.setTextureSize(d.config.Water.TextureSize / 2)
		}
	}
}

// showStatus puts the current water settings into the window title.
func (d *Demo) showStatus() {
	d.window.SetStatus(fmt.Sprintf("%s %dpx", d.config.Water.Mode, d.config.Water.TextureSize))
}

func (d *Demo) setMode(m water.Mode) {
	d.config.Water.Mode = m
	d.dirty = true
	d.scene.SetMode(m)
	d.showStatus()
	logger.Info("water mode changed", zap.Stringer("mode", m))
}

func (d *Demo) setTextureSize(size int) {
	size = max(32, min(size, 2048))
	d.config.Water.TextureSize = size
	d.dirty = true
	d.scene.SetTextureSize(size)
	d.showStatus()
	logger.Info("water texture size changed", zap.Int("size", size))
}

// pixelReader is a render target whose contents can be read back.
type pixelReader interface {
	ReadPixels() []byte
}

// saveTargets writes the current reflection and refraction textures of
// every surface as BMP files into the snapshot directory.
func (d *Demo) saveTargets() {
	dir := filepath.Join(config.ConfigDir(), "snapshots")
	now := time.Now()
	for _, s := range d.scene.Surfaces {
		for _, kind := range []rendertarget.Kind{rendertarget.Reflection, rendertarget.Refraction} {
			t := s.Target(kind)
			r, ok := t.(pixelReader)
			if !ok {
				continue
			}
			img, err := snapshot.FromGL(r.ReadPixels(), t.Size(), t.Size())
			if err != nil {
				logger.Warn("reading target failed", zap.String("target", t.Name()), zap.Error(err))
				continue
			}
			path := filepath.Join(dir, snapshot.FileName(t.Name(), now, "bmp"))
			if err := snapshot.Save(path, img); err != nil {
				logger.Warn("saving target failed", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("target saved", zap.String("path", path))
		}
	}
}

// Close cleans up demo resources.
func (d *Demo) Close() {
	logger.Info("closing demo")

	if d.dirty {
		if err := d.config.Save(); err != nil {
			logger.Warn("saving config failed", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("path", config.SavePath()))
		}
		d.dirty = false
	}

	if d.scene != nil {
		d.scene.Destroy()
		d.scene = nil
	}
	if d.renderer != nil {
		d.renderer.Close()
		d.renderer = nil
	}
	if d.window != nil {
		d.window.Close()
		d.window = nil
	}
}
