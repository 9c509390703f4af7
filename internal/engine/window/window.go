// Package window opens the demo's SDL2 window with an OpenGL 4.1 core
// context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/logger"
)

func init() {
	// GL calls must come from the thread that created the context.
	runtime.LockOSThread()
}

// Config describes the demo window and its default framebuffer.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// DepthBits of the window's depth buffer. Water targets carry their own.
	DepthBits int
	// Samples per pixel for multisampling; 0 disables it.
	Samples int
}

// DefaultConfig returns a 1280x720 windowed configuration with vsync.
func DefaultConfig() Config {
	return Config{
		Title:     "Midgard Water",
		Width:     1280,
		Height:    720,
		VSync:     true,
		DepthBits: 24,
	}
}

type glAttr struct {
	attr sdl.GLattr
	val  int
}

// Window is an SDL2 window owning the GL context.
type Window struct {
	title     string
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// New opens the window and makes its GL context current.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// 4.1 core is the newest profile macOS offers.
	attrs := []glAttr{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
		{sdl.GL_CONTEXT_MINOR_VERSION, 1},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, cfg.DepthBits},
	}
	if cfg.Samples > 0 {
		attrs = append(attrs,
			glAttr{sdl.GL_MULTISAMPLEBUFFERS, 1},
			glAttr{sdl.GL_MULTISAMPLESAMPLES, cfg.Samples},
		)
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.val); err != nil {
			logger.Warn("GL attribute rejected", zap.Int("attr", int(a.attr)), zap.Int("value", a.val), zap.Error(err))
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	sdlWindow, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	glContext, err := sdlWindow.GLCreateContext()
	if err != nil {
		sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("swap interval rejected", zap.Int("interval", interval), zap.Error(err))
	}

	w := &Window{title: cfg.Title, sdlWindow: sdlWindow, glContext: glContext}
	width, height := w.DrawableSize()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("drawableWidth", width),
		zap.Int("drawableHeight", height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return w, nil
}

// Close destroys the context and the window and shuts SDL down.
func (w *Window) Close() {
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// DrawableSize returns the framebuffer size in pixels, which differs from
// the window size on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// Aspect returns the drawable width over height, or 1 while minimized.
func (w *Window) Aspect() float32 {
	width, height := w.DrawableSize()
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// SetStatus shows status after the base title, e.g. "Midgard Water | refractive 256px".
func (w *Window) SetStatus(status string) {
	if status == "" {
		w.sdlWindow.SetTitle(w.title)
		return
	}
	w.sdlWindow.SetTitle(w.title + " | " + status)
}
