package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Point sprite vertex shader shared by every pass.
// Layout: aPos(3) aSize(1) aColor(4) = 8 floats.
const pointVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform float uViewportH;

out vec4 vColor;

void main() {
    gl_Position = uProj * uView * uModel * vec4(aPos, 1.0);
    float ps = aSize * uViewportH / max(gl_Position.w, 0.001);
    gl_PointSize = clamp(ps, 1.0, 64.0);
    vColor = aColor;
}
` + "\x00"

// Glow fragment shader: additive radial falloff.
const glowFragSrc = `#version 410 core

uniform float uGain;

in vec4 vColor;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    FragColor = vec4(vColor.rgb * vColor.a * falloff * uGain, 1.0);
}
` + "\x00"

// Hull details carry a normal in the colour slot: [x y z size nx ny nz 0].
const detailVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aNormal;

uniform mat4 uView;
uniform mat4 uProj;
uniform float uViewportH;
uniform vec3 uLightDir;
uniform vec3 uHull;

out vec4 vColor;

void main() {
    gl_Position = uProj * uView * vec4(aPos, 1.0);
    float ps = aSize * uViewportH / max(gl_Position.w, 0.001);
    gl_PointSize = clamp(ps, 1.0, 32.0);
    float shade = 0.35 + 0.65 * max(dot(normalize(aNormal.xyz), uLightDir), 0.0);
    vColor = vec4(uHull * shade, 1.0);
}
` + "\x00"

// Solid square sprite, also used for beam lines. Alpha scales the colour so
// the additive pass can fade a line along its length.
const solidFragSrc = `#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor.rgb * vColor.a, 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
