// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"gioui.org/shader"
)

// Built-in programs. Vertex inputs are named pos, color and texcoord;
// the world-view-projection matrix is the wvp uniform.
var (
	shaderClearVert = shader.Sources{
		Name:      "clear.vert",
		Inputs:    []shader.InputLocation{{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 2}},
		GLSL100ES: glslClearVert,
	}
	shaderClearFrag = shader.Sources{
		Name: "clear.frag",
		Uniforms: shader.UniformsReflection{
			Locations: []shader.UniformLocation{{Name: "color", Type: shader.DataTypeFloat, Size: 4, Offset: 0}},
			Size:      16,
		},
		GLSL100ES: glslClearFrag,
	}
	shaderMaskFrag = shader.Sources{
		Name:      "mask.frag",
		GLSL100ES: glslMaskFrag,
	}
	shaderDepthVert = shader.Sources{
		Name:      "depth.vert",
		Inputs:    []shader.InputLocation{{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 3}},
		GLSL100ES: glslDepthVert,
	}
	shaderDepthFrag = shader.Sources{
		Name:      "depth.frag",
		GLSL100ES: glslMaskFrag,
	}
	shaderRGBAVert = shader.Sources{
		Name: "rgba.vert",
		Inputs: []shader.InputLocation{
			{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 3},
			{Name: "color", Location: 1, Type: shader.DataTypeFloat, Size: 4},
		},
		Uniforms:  wvpUniforms,
		GLSL100ES: glslRGBAVert,
	}
	shaderRGBVert = shader.Sources{
		Name: "rgb.vert",
		Inputs: []shader.InputLocation{
			{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 3},
			{Name: "color", Location: 1, Type: shader.DataTypeFloat, Size: 3},
		},
		Uniforms:  wvpUniforms,
		GLSL100ES: glslRGBVert,
	}
	shaderRGBAFrag = shader.Sources{
		Name:      "rgba.frag",
		Inputs:    []shader.InputLocation{{Name: "vColor", Location: 0, Type: shader.DataTypeFloat, Size: 4}},
		GLSL100ES: glslRGBAFrag,
	}
	shaderTextureVert = shader.Sources{
		Name: "texture2d.vert",
		Inputs: []shader.InputLocation{
			{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 3},
			{Name: "texcoord", Location: 1, Type: shader.DataTypeFloat, Size: 2},
		},
		Uniforms:  wvpUniforms,
		GLSL100ES: glslTextureVert,
	}
	shaderTextureFrag = shader.Sources{
		Name:   "texture2d.frag",
		Inputs: []shader.InputLocation{{Name: "vUV", Location: 0, Type: shader.DataTypeFloat, Size: 2}},
		Uniforms: shader.UniformsReflection{
			Locations: []shader.UniformLocation{
				{Name: "alphaRef", Type: shader.DataTypeFloat, Size: 1, Offset: 0},
				{Name: "alphaOp", Type: shader.DataTypeFloat, Size: 1, Offset: 4},
				{Name: "texEnv", Type: shader.DataTypeFloat, Size: 1, Offset: 8},
				{Name: "tint", Type: shader.DataTypeFloat, Size: 4, Offset: 16},
				{Name: "texEnvColor", Type: shader.DataTypeFloat, Size: 4, Offset: 32},
			},
			Size: 48,
		},
		Textures:  []shader.TextureBinding{{Name: "tex", Binding: 0}},
		GLSL100ES: glslTextureFrag,
	}
	shaderTextureColorVert = shader.Sources{
		Name: "texture2d_rgba.vert",
		Inputs: []shader.InputLocation{
			{Name: "pos", Location: 0, Type: shader.DataTypeFloat, Size: 3},
			{Name: "texcoord", Location: 1, Type: shader.DataTypeFloat, Size: 2},
			{Name: "color", Location: 2, Type: shader.DataTypeFloat, Size: 4},
		},
		Uniforms:  wvpUniforms,
		GLSL100ES: glslTextureColorVert,
	}
	shaderTextureColorFrag = shader.Sources{
		Name: "texture2d_rgba.frag",
		Inputs: []shader.InputLocation{
			{Name: "vUV", Location: 0, Type: shader.DataTypeFloat, Size: 2},
			{Name: "vColor", Location: 1, Type: shader.DataTypeFloat, Size: 4},
		},
		Uniforms: shader.UniformsReflection{
			Locations: []shader.UniformLocation{
				{Name: "alphaRef", Type: shader.DataTypeFloat, Size: 1, Offset: 0},
				{Name: "alphaOp", Type: shader.DataTypeFloat, Size: 1, Offset: 4},
				{Name: "texEnv", Type: shader.DataTypeFloat, Size: 1, Offset: 8},
				{Name: "texEnvColor", Type: shader.DataTypeFloat, Size: 4, Offset: 16},
			},
			Size: 32,
		},
		Textures:  []shader.TextureBinding{{Name: "tex", Binding: 0}},
		GLSL100ES: glslTextureColorFrag,
	}

	wvpUniforms = shader.UniformsReflection{
		Locations: []shader.UniformLocation{{Name: "wvp", Type: shader.DataTypeFloat, Size: 16, Offset: 0}},
		Size:      64,
	}
)

const glslClearVert = `#version 100

attribute vec2 pos;

void main() {
	gl_Position = vec4(pos, 0.0, 1.0);
}
`

const glslClearFrag = `#version 100

precision mediump float;

uniform vec4 color;

void main() {
	gl_FragColor = color;
}
`

const glslMaskFrag = `#version 100

precision mediump float;

void main() {
	gl_FragColor = vec4(0.0);
}
`

const glslDepthVert = `#version 100

attribute vec3 pos;

void main() {
	gl_Position = vec4(pos, 1.0);
}
`

const glslRGBAVert = `#version 100

uniform mat4 wvp;

attribute vec3 pos;
attribute vec4 color;

varying vec4 vColor;

void main() {
	vColor = color;
	gl_Position = wvp * vec4(pos, 1.0);
}
`

const glslRGBVert = `#version 100

uniform mat4 wvp;

attribute vec3 pos;
attribute vec3 color;

varying vec4 vColor;

void main() {
	vColor = vec4(color, 1.0);
	gl_Position = wvp * vec4(pos, 1.0);
}
`

const glslRGBAFrag = `#version 100

precision mediump float;

varying vec4 vColor;

void main() {
	gl_FragColor = vColor;
}
`

const glslTextureVert = `#version 100

uniform mat4 wvp;

attribute vec3 pos;
attribute vec2 texcoord;

varying vec2 vUV;

void main() {
	vUV = texcoord;
	gl_Position = wvp * vec4(pos, 1.0);
}
`

const glslTextureColorVert = `#version 100

uniform mat4 wvp;

attribute vec3 pos;
attribute vec2 texcoord;
attribute vec4 color;

varying vec2 vUV;
varying vec4 vColor;

void main() {
	vUV = texcoord;
	vColor = color;
	gl_Position = wvp * vec4(pos, 1.0);
}
`

// glslTexEnv holds the texture environment and alpha test shared by
// the textured fragment programs.
const glslTexEnv = `
uniform float alphaRef;
uniform float alphaOp;
uniform float texEnv;
uniform vec4 texEnvColor;
uniform sampler2D tex;

vec4 combine(vec4 frag, vec4 texel) {
	if (texEnv == 1.0) {
		return vec4(mix(frag.rgb, texel.rgb, texel.a), frag.a);
	} else if (texEnv == 2.0) {
		return vec4(mix(frag.rgb, texEnvColor.rgb, texel.rgb), frag.a*texel.a);
	} else if (texEnv == 3.0) {
		return texel;
	}
	return frag*texel;
}

bool alphaPass(float a) {
	if (alphaOp == 0.0) return a >= alphaRef;
	if (alphaOp == 1.0) return a > alphaRef;
	if (alphaOp == 2.0) return a != alphaRef;
	if (alphaOp == 3.0) return a == alphaRef;
	if (alphaOp == 4.0) return a <= alphaRef;
	if (alphaOp == 5.0) return a < alphaRef;
	if (alphaOp == 6.0) return false;
	return true;
}
`

const glslTextureFrag = `#version 100

precision mediump float;

uniform vec4 tint;

varying vec2 vUV;
` + glslTexEnv + `
void main() {
	vec4 c = combine(tint, texture2D(tex, vUV));
	if (!alphaPass(c.a)) {
		discard;
	}
	gl_FragColor = c;
}
`

const glslTextureColorFrag = `#version 100

precision mediump float;

varying vec2 vUV;
varying vec4 vColor;
` + glslTexEnv + `
void main() {
	vec4 c = combine(vColor, texture2D(tex, vUV));
	if (!alphaPass(c.a)) {
		discard;
	}
	gl_FragColor = c;
}
`
