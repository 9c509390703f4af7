package material

import (
	"testing"

	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/pkg/math"
)

type stubTarget struct{ name string }

func (s *stubTarget) Name() string    { return s.name }
func (s *stubTarget) Size() int       { return 1 }
func (s *stubTarget) Texture() uint32 { return 1 }
func (s *stubTarget) Release()        {}

var _ rendertarget.Target = (*stubTarget)(nil)

func TestNewIsEnabledAndEmpty(t *testing.T) {
	m := New("water", "water.glsl")
	if !m.Enabled {
		t.Error("new material should be enabled")
	}
	if m.Texture("_ReflectionTex") != nil {
		t.Error("unset texture should be nil")
	}
	if m.Float("_WaveScale") != 0 {
		t.Error("unset float should be zero")
	}
	if _, ok := m.Keyword("WATER_SIMPLE"); ok {
		t.Error("unset keyword should report ok=false")
	}
}

func TestSetTextureNilClears(t *testing.T) {
	m := New("water", "")
	tex := &stubTarget{name: "a"}

	m.SetTexture("_ReflectionTex", tex)
	if m.Texture("_ReflectionTex") != tex {
		t.Fatal("texture not bound")
	}
	m.SetTexture("_ReflectionTex", nil)
	if m.Texture("_ReflectionTex") != nil {
		t.Error("nil should clear the slot")
	}
}

func TestUniforms(t *testing.T) {
	m := New("water", "")
	m.SetVector("WaveSpeed", math.Vec4{19, 9, -16, -7})
	m.SetFloat("_WaveScale", 0.07)
	m.SetKeyword("WATER_REFLECTIVE", true)

	if got := m.Vector("WaveSpeed"); got != (math.Vec4{19, 9, -16, -7}) {
		t.Errorf("WaveSpeed = %v", got)
	}
	if got := m.Float("_WaveScale"); got != 0.07 {
		t.Errorf("_WaveScale = %v", got)
	}
	if on, ok := m.Keyword("WATER_REFLECTIVE"); !on || !ok {
		t.Errorf("keyword = %v, %v", on, ok)
	}
}
