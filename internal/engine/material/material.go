// Package material holds shading parameters shared between a renderable
// and the renderer that draws it.
package material

import (
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Material is a named set of textures, vectors, floats and local shader keywords.
type Material struct {
	Name    string
	Shader  string
	Enabled bool

	textures map[string]rendertarget.Target
	vectors  map[string]math.Vec4
	floats   map[string]float32
	keywords map[string]bool
}

// New returns an enabled, empty material.
func New(name, shader string) *Material {
	return &Material{
		Name:     name,
		Shader:   shader,
		Enabled:  true,
		textures: make(map[string]rendertarget.Target),
		vectors:  make(map[string]math.Vec4),
		floats:   make(map[string]float32),
		keywords: make(map[string]bool),
	}
}

// SetTexture binds t to a sampler slot. A nil t clears the slot.
func (m *Material) SetTexture(name string, t rendertarget.Target) {
	if t == nil {
		delete(m.textures, name)
		return
	}
	m.textures[name] = t
}

// Texture returns the target bound to a sampler slot, or nil.
func (m *Material) Texture(name string) rendertarget.Target {
	return m.textures[name]
}

// SetVector sets a vector uniform.
func (m *Material) SetVector(name string, v math.Vec4) {
	m.vectors[name] = v
}

// Vector returns a vector uniform, zero if unset.
func (m *Material) Vector(name string) math.Vec4 {
	return m.vectors[name]
}

// SetFloat sets a float uniform.
func (m *Material) SetFloat(name string, v float32) {
	m.floats[name] = v
}

// Float returns a float uniform, zero if unset.
func (m *Material) Float(name string) float32 {
	return m.floats[name]
}

// SetKeyword toggles a keyword local to this material.
func (m *Material) SetKeyword(name string, enabled bool) {
	m.keywords[name] = enabled
}

// Keyword reports whether a local keyword is set.
func (m *Material) Keyword(name string) (enabled, ok bool) {
	enabled, ok = m.keywords[name]
	return enabled, ok
}
