// Package renderer provides the OpenGL host that draws the scene and the
// mirror passes of water surfaces.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/engine/scene"
	"github.com/Faultbox/midgard-water/internal/engine/shader"
	"github.com/Faultbox/midgard-water/internal/engine/visibility"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	PixelLights int
	LightDir    math.Vec3
	SkyColor    [4]float32
}

type sceneUniforms struct {
	viewProj, model, color, lightDir, cameraPos, pixelLights int32
}

type waterUniforms struct {
	viewProj, waveScale4, waveOffset, cameraPos int32
	horizonColor, refrColor, distortion         int32
	reflectionTex, refractionTex                int32
}

type waterDraw struct {
	surface *water.Surface
	mesh    *water.Mesh
	vao     uint32
	vbo     uint32
}

// Renderer handles all OpenGL rendering. It implements the water host
// contract, so surfaces render their reflections through it.
type Renderer struct {
	config Config

	frame         uint64
	pixelLights   int
	invertCulling bool
	keywords      map[string]bool

	visibility *visibility.Dispatcher

	sceneProgram  uint32
	sceneUniforms sceneUniforms
	waterPrograms map[string]uint32
	waterUniforms map[string]waterUniforms

	cubeVAO uint32
	cubeVBO uint32

	boxes  []scene.Box
	waters []*waterDraw
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:      cfg,
		pixelLights: cfg.PixelLights,
		keywords:    make(map[string]bool),
		visibility:  visibility.NewDispatcher(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	var err error
	r.sceneProgram, err = shader.CompileProgram(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	r.sceneUniforms = sceneUniforms{
		viewProj:    shader.GetUniform(r.sceneProgram, "uViewProj"),
		model:       shader.GetUniform(r.sceneProgram, "uModel"),
		color:       shader.GetUniform(r.sceneProgram, "uColor"),
		lightDir:    shader.GetUniform(r.sceneProgram, "uLightDir"),
		cameraPos:   shader.GetUniform(r.sceneProgram, "uCameraPos"),
		pixelLights: shader.GetUniform(r.sceneProgram, "uPixelLights"),
	}

	r.waterPrograms, err = shader.CompileVariants(waterVertexShader, waterFragmentShader, waterKeywords)
	if err != nil {
		gl.DeleteProgram(r.sceneProgram)
		return nil, fmt.Errorf("water shader: %w", err)
	}
	r.waterUniforms = make(map[string]waterUniforms, len(r.waterPrograms))
	for kw, p := range r.waterPrograms {
		r.waterUniforms[kw] = waterUniforms{
			viewProj:      shader.GetUniform(p, "uViewProj"),
			waveScale4:    shader.GetUniform(p, "uWaveScale4"),
			waveOffset:    shader.GetUniform(p, "uWaveOffset"),
			cameraPos:     shader.GetUniform(p, "uCameraPos"),
			horizonColor:  shader.GetUniform(p, "uHorizonColor"),
			refrColor:     shader.GetUniform(p, "uRefrColor"),
			distortion:    shader.GetUniform(p, "uDistortion"),
			reflectionTex: shader.GetUniform(p, water.ReflectionTexture),
			refractionTex: shader.GetUniform(p, water.RefractionTexture),
		}
	}

	r.createCube()
	water.ApplyKeywords(r, water.Simple)

	logger.Debug("renderer ready",
		zap.Uint32("sceneProgram", r.sceneProgram),
		zap.Int("waterVariants", len(r.waterPrograms)),
	)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, w := range r.waters {
		w.surface.Destroy()
		gl.DeleteVertexArrays(1, &w.vao)
		gl.DeleteBuffers(1, &w.vbo)
	}
	r.waters = nil
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
	}
	if r.cubeVBO != 0 {
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	for _, p := range r.waterPrograms {
		gl.DeleteProgram(p)
	}
	if r.sceneProgram != 0 {
		gl.DeleteProgram(r.sceneProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Allocator returns the render target allocator for water surfaces.
func (r *Renderer) Allocator() rendertarget.Allocator {
	return framebuffer.Allocator{}
}

// AddBox adds a solid box to the scene.
func (r *Renderer) AddBox(b scene.Box) {
	r.boxes = append(r.boxes, b)
}

// AddWater uploads the surface's plane and registers it for visibility
// notifications on its layer.
func (r *Renderer) AddWater(s *water.Surface) error {
	mesh, ok := s.Renderable().(*water.Mesh)
	if !ok || mesh.Plane == nil {
		return errors.New("water surface has no plane mesh")
	}

	w := &waterDraw{surface: s, mesh: mesh}
	verts := mesh.Plane.Vertices
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)
	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.waters = append(r.waters, w)
	r.visibility.Add(s, s.Layer)
	logger.Debug("water surface added",
		zap.Uint64("surface", s.ID()),
		zap.Uint("layer", s.Layer),
		zap.Float32("level", mesh.Plane.Level),
	)
	return nil
}

// Frame returns the number of the frame being rendered.
func (r *Renderer) Frame() uint64 { return r.frame }

// SupportsRenderTargets reports framebuffer support, which GL 4.1 always has.
func (r *Renderer) SupportsRenderTargets() bool { return true }

// PixelLightCount returns the per-pixel light budget.
func (r *Renderer) PixelLightCount() int { return r.pixelLights }

// SetPixelLightCount sets the per-pixel light budget.
func (r *Renderer) SetPixelLightCount(n int) { r.pixelLights = n }

// InvertCulling reports whether front faces are wound clockwise.
func (r *Renderer) InvertCulling() bool { return r.invertCulling }

// SetInvertCulling flips the winding considered front facing.
func (r *Renderer) SetInvertCulling(invert bool) {
	r.invertCulling = invert
	if invert {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

// SetShaderKeyword sets a global shader keyword.
func (r *Renderer) SetShaderKeyword(name string, enabled bool) {
	r.keywords[name] = enabled
}

// Keyword reports whether a global shader keyword is enabled.
func (r *Renderer) Keyword(name string) bool { return r.keywords[name] }

// RenderFrame starts a new frame and draws it from cam to the window.
func (r *Renderer) RenderFrame(cam *camera.Camera) error {
	r.frame++
	return r.Render(cam, nil)
}

// Render draws the scene from cam into target, or the window when target
// is nil. Visible water surfaces render their own passes first.
func (r *Renderer) Render(cam *camera.Camera, target rendertarget.Target) error {
	r.visibility.Notify(cam)

	if target != nil {
		fb, ok := target.(*framebuffer.Framebuffer)
		if !ok {
			return fmt.Errorf("render target %s is not a framebuffer", target.Name())
		}
		restore := fb.BindWithViewport()
		defer restore()
	}

	if mask := clearMask(cam.ClearFlags); mask != 0 {
		bg := cam.Background
		if cam.ClearFlags == camera.ClearSkybox {
			bg = r.config.SkyColor
		}
		gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
		gl.Clear(mask)
	}

	viewProj := cam.ViewProjection()
	r.drawBoxes(cam, viewProj)
	r.drawWater(cam, viewProj)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("rendering %s: GL error 0x%x", cam.Name, code)
	}
	return nil
}

func (r *Renderer) drawBoxes(cam *camera.Camera, viewProj math.Mat4) {
	u := r.sceneUniforms
	gl.UseProgram(r.sceneProgram)
	gl.UniformMatrix4fv(u.viewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(u.lightDir, r.config.LightDir.X, r.config.LightDir.Y, r.config.LightDir.Z)
	gl.Uniform3f(u.cameraPos, cam.Position.X, cam.Position.Y, cam.Position.Z)
	gl.Uniform1i(u.pixelLights, int32(r.pixelLights))

	gl.BindVertexArray(r.cubeVAO)
	for _, b := range r.boxes {
		if !cam.Draws(b.Layer) {
			continue
		}
		model := boxModel(b.Center, b.Size)
		gl.UniformMatrix4fv(u.model, 1, false, model.Ptr())
		gl.Uniform3f(u.color, b.Color[0], b.Color[1], b.Color[2])
		gl.DrawArrays(gl.TRIANGLES, 0, 36)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) drawWater(cam *camera.Camera, viewProj math.Mat4) {
	gl.Disable(gl.CULL_FACE)
	defer gl.Enable(gl.CULL_FACE)

	for _, w := range r.waters {
		if !cam.Draws(w.surface.Layer) || !w.mesh.Visible() || w.mesh.Material == nil {
			continue
		}
		mat := w.mesh.Material
		variant := waterVariant(mat, r.Keyword)
		u := r.waterUniforms[variant]

		gl.UseProgram(r.waterPrograms[variant])
		gl.UniformMatrix4fv(u.viewProj, 1, false, viewProj.Ptr())
		scale4 := mat.Vector(water.WaveScale4Property)
		offset := mat.Vector(water.WaveOffsetProperty)
		gl.Uniform4fv(u.waveScale4, 1, &scale4[0])
		gl.Uniform4fv(u.waveOffset, 1, &offset[0])
		gl.Uniform3f(u.cameraPos, cam.Position.X, cam.Position.Y, cam.Position.Z)
		horizon := mat.Vector(scene.HorizonColorProperty)
		refr := mat.Vector(scene.RefrColorProperty)
		gl.Uniform4fv(u.horizonColor, 1, &horizon[0])
		gl.Uniform4fv(u.refrColor, 1, &refr[0])
		gl.Uniform1f(u.distortion, mat.Float(scene.DistortionProperty))

		bindTexture(0, u.reflectionTex, mat.Texture(water.ReflectionTexture))
		bindTexture(1, u.refractionTex, mat.Texture(water.RefractionTexture))

		gl.BindVertexArray(w.vao)
		gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	}
	gl.BindVertexArray(0)
}

func bindTexture(unit int32, loc int32, t rendertarget.Target) {
	var id uint32
	if t != nil {
		id = t.Texture()
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.Uniform1i(loc, unit)
}

func (r *Renderer) createCube() {
	vertices := cubeVertices()

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("cube created",
		zap.Uint32("vao", r.cubeVAO),
		zap.Uint32("vbo", r.cubeVBO),
	)
}
