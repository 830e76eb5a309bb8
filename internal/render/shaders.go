package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderManager handles OpenGL shader program compilation, linking, and uniform
// management.
type ShaderManager struct {
	program    uint32 // program ID
	uTransform int32  // uniform location for transformation matrix
	uFrame     int32  // uniform location for the frame sampler
}

// Vertex shader. Applies the uniform transformation matrix to the quad corner
// and forwards its texture coordinate.
const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

uniform mat4 uTransform;

out vec2 vTexCoord;

void main() {
    gl_Position = uTransform * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
}
` + "\x00"

// Fragment shader. Samples the uploaded frame.
const fragmentShaderSource = `
#version 330 core
in vec2 vTexCoord;
out vec4 FragColor;

uniform sampler2D uFrame;

void main() {
    FragColor = texture(uFrame, vTexCoord);
}
` + "\x00"

// NewShaderManager creates and initializes a new shader manager with compiled
// and linked shaders.
func NewShaderManager() (*ShaderManager, error) {
	sm := &ShaderManager{}

	vertexShader, err := sm.compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := sm.compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	// Link shader program.
	sm.program = gl.CreateProgram()
	gl.AttachShader(sm.program, vertexShader)
	gl.AttachShader(sm.program, fragmentShader)
	gl.LinkProgram(sm.program)

	var status int32
	gl.GetProgramiv(sm.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(sm.program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(sm.program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(sm.program)
		return nil, fmt.Errorf("shader linking failed: %s", strings.TrimRight(logText, "\x00"))
	}

	sm.uTransform = gl.GetUniformLocation(sm.program, gl.Str("uTransform\x00"))
	sm.uFrame = gl.GetUniformLocation(sm.program, gl.Str("uFrame\x00"))
	gl.UseProgram(sm.program) // bind the shader program
	gl.Uniform1i(sm.uFrame, 0 /* texture unit */)
	return sm, nil
}

// Use binds the program.
func (sm *ShaderManager) Use() { gl.UseProgram(sm.program) }

// SetTransform sets the uniform transformation matrix.
func (sm *ShaderManager) SetTransform(matrix [16]float32) {
	gl.UniformMatrix4fv(sm.uTransform, 1, false, &matrix[0])
}

// Delete releases the program.
func (sm *ShaderManager) Delete() { gl.DeleteProgram(sm.program) }

// compileShader compiles a single shader from source.
func (sm *ShaderManager) compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compilation failed: %s", strings.TrimRight(logText, "\x00"))
	}

	return shader, nil
}
