// Package framebuffer provides OpenGL framebuffers used as water render targets.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/logger"
)

// Framebuffer is a square offscreen target with a color texture and a
// depth renderbuffer. It implements rendertarget.Target.
type Framebuffer struct {
	name         string
	fbo          uint32
	colorTexture uint32
	depthRBO     uint32
	size         int32
	depthFormat  uint32
}

var _ rendertarget.Target = (*Framebuffer)(nil)

// New creates a framebuffer of size x size with the given depth precision.
func New(name string, size, depthBits int) (*Framebuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", rendertarget.ErrInvalidSize, size)
	}
	format, err := depthFormat(depthBits)
	if err != nil {
		return nil, err
	}

	fb := &Framebuffer{
		name:        name,
		size:        int32(size),
		depthFormat: format,
	}

	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer %s: %w", name, err)
	}

	return fb, nil
}

// depthFormat maps a depth precision to a renderbuffer format.
func depthFormat(bits int) (uint32, error) {
	switch bits {
	case 16:
		return gl.DEPTH_COMPONENT16, nil
	case 24:
		return gl.DEPTH_COMPONENT24, nil
	case 32:
		return gl.DEPTH_COMPONENT32F, nil
	}
	return 0, fmt.Errorf("unsupported depth precision: %d bits", bits)
}

func (fb *Framebuffer) create() error {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_RENDERBUFFER_SIZE, &maxSize)
	if maxSize > 0 && fb.size > maxSize {
		return fmt.Errorf("size %d exceeds renderbuffer limit %d", fb.size, maxSize)
	}

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(1, &fb.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, fb.size, fb.size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, fb.depthFormat, fb.size, fb.size)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Release()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// BindWithViewport binds the framebuffer and sets the viewport to cover it.
// The returned func restores the previous framebuffer and viewport.
func (fb *Framebuffer) BindWithViewport() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.size, fb.size)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// ReadPixels reads the color attachment as bottom-up RGBA rows.
func (fb *Framebuffer) ReadPixels() []byte {
	pixels := make([]byte, fb.size*fb.size*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.ReadPixels(0, 0, fb.size, fb.size, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	return pixels
}

// Name returns the target name.
func (fb *Framebuffer) Name() string { return fb.name }

// Size returns the edge length in pixels.
func (fb *Framebuffer) Size() int { return int(fb.size) }

// Texture returns the color attachment texture ID.
func (fb *Framebuffer) Texture() uint32 { return fb.colorTexture }

// Release deletes all OpenGL resources. It is safe to call more than once.
func (fb *Framebuffer) Release() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}

// Allocator creates framebuffers on the current GL context.
type Allocator struct{}

// Allocate implements rendertarget.Allocator.
func (Allocator) Allocate(name string, size, depthBits int) (rendertarget.Target, error) {
	fb, err := New(name, size, depthBits)
	if err != nil {
		return nil, err
	}
	logger.Debug("framebuffer created",
		zap.String("name", name),
		zap.Int("size", size),
		zap.Int("depthBits", depthBits),
		zap.Uint32("fbo", fb.fbo),
	)
	return fb, nil
}
