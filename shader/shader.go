package shader

import (
	"fmt"
	"strings"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Source is the user code of a single-pass Shadertoy shader.
type Source struct {
	Title  string
	Common string
	Image  string
}

func GenerateVertexShader() string {
	return vertexShaderSourceGL
}

// ────────────────────── Dynamic preamble / user code glue ──────────────────────

// KeyboardChannel is the iChannel the keyboard texture is bound to.
const KeyboardChannel = 0

// GeneratePreamble returns the WebGL2 header declaring the standard
// Shadertoy uniforms. All four channels are 2D samplers; KeyboardChannel
// carries the keyboard texture.
func GeneratePreamble() string {
	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;
precision mediump sampler3D;

#define HW_PERFORMANCE 1

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform float iFrameRate;
uniform int   iFrame;
uniform float iChannelTime[4];
uniform vec3  iChannelResolution[4];
uniform vec4  iMouse;
uniform vec4  iDate;
uniform float iSampleRate;
`)
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "uniform sampler2D iChannel%d;\n", i)
	}
	b.WriteString(`
in vec2 frag_uv;
out vec4 fragColor;
`)
	return b.String()
}

func GetMain() string {
	return `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`
}

// GetFragmentShader combines preamble, common code, image code and the
// main wrapper.
func GetFragmentShader(src Source) string {
	return GeneratePreamble() + src.Common + "\n" + src.Image + "\n" + GetMain()
}
