// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}

	return program, nil
}

// CompileVariants compiles one program per keyword, each with that keyword
// defined in both stages. The result maps keyword to program ID. On error
// the programs compiled so far are deleted.
func CompileVariants(vertexSrc, fragmentSrc string, keywords []string) (map[string]uint32, error) {
	programs := make(map[string]uint32, len(keywords))
	for _, kw := range keywords {
		defs := []string{kw}
		program, err := CompileProgram(WithDefines(vertexSrc, defs), WithDefines(fragmentSrc, defs))
		if err != nil {
			for _, p := range programs {
				gl.DeleteProgram(p)
			}
			return nil, fmt.Errorf("variant %s: %w", kw, err)
		}
		programs[kw] = program
	}
	return programs, nil
}

// WithDefines inserts a #define line per name right after the #version
// directive, or at the top when the source has none.
func WithDefines(source string, names []string) string {
	if len(names) == 0 {
		return source
	}
	var defs strings.Builder
	for _, n := range names {
		defs.WriteString("#define ")
		defs.WriteString(n)
		defs.WriteByte('\n')
	}

	idx := strings.Index(source, "#version")
	if idx < 0 {
		return defs.String() + source
	}
	eol := strings.IndexByte(source[idx:], '\n')
	if eol < 0 {
		return source + "\n" + defs.String()
	}
	split := idx + eol + 1
	return source[:split] + defs.String() + source[split:]
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name, or -1 if the
// uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
