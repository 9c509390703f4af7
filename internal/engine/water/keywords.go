package water

// Shader keywords selecting the water shading variant.
const (
	KeywordSimple     = "WATER_SIMPLE"
	KeywordReflective = "WATER_REFLECTIVE"
	KeywordRefractive = "WATER_REFRACTIVE"
)

// KeywordSetter toggles shader keywords.
type KeywordSetter interface {
	SetShaderKeyword(name string, enabled bool)
}

// KeywordSetterFunc adapts a function to KeywordSetter.
type KeywordSetterFunc func(name string, enabled bool)

// SetShaderKeyword calls f.
func (f KeywordSetterFunc) SetShaderKeyword(name string, enabled bool) {
	f(name, enabled)
}

// ApplyKeywords enables the keyword for mode and disables the other two.
//
// On a host keyword table the flags are global: when several surfaces with
// different modes are visible in one frame, the last one rendered wins.
func ApplyKeywords(dst KeywordSetter, mode Mode) {
	dst.SetShaderKeyword(KeywordSimple, mode == Simple)
	dst.SetShaderKeyword(KeywordReflective, mode == Reflective)
	dst.SetShaderKeyword(KeywordRefractive, mode == Refractive)
}
