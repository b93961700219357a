// SPDX-License-Identifier: Unlicense OR MIT

// Package driver describes the explicit, program-driven GPU submission
// interface the fixed-function layer translates into.
package driver

import (
	"errors"
	"image"

	"gioui.org/shader"
)

// Device represents the abstraction of a deferred tile-based GPU
// that only accepts fully resolved programs, vertex layouts and
// blend state at submission time.
type Device interface {
	Caps() Caps
	// NewBuffer allocates size bytes of GPU-visible memory mapped for
	// CPU access.
	NewBuffer(size int) (Buffer, error)
	NewTexture(desc TextureDesc) (Texture, error)
	// NewVertexProgram patches a vertex shader with a vertex layout.
	NewVertexProgram(desc VertexProgramDesc) (Program, error)
	// NewFragmentProgram patches a fragment shader with a blend
	// descriptor. The blend state is part of the program object.
	NewFragmentProgram(desc FragmentProgramDesc) (Program, error)

	BindVertexProgram(p Program)
	BindFragmentProgram(p Program)
	BindVertexStream(index int, s Stream)
	BindTexture(unit int, t Texture)
	// SetVertexUniforms and SetFragmentUniforms copy the default
	// uniform buffer of the bound program. The layout is described by
	// the program's shader.Sources.Uniforms.
	SetVertexUniforms(data []float32)
	SetFragmentUniforms(data []float32)

	SetViewport(v Viewport)
	SetDepthFunc(f CompareFunc)
	SetDepthWrite(enable bool)
	SetStencil(front, back StencilDesc)
	SetCullMode(m CullMode)
	SetPolygonMode(front, back PolygonMode)
	SetDepthBias(front, back DepthBias)

	// Draw issues count 16-bit unsigned indices read from indices.
	Draw(mode DrawMode, indices Stream, count int)
	// Present ends the scene and makes it the displayed frame. When
	// Present returns, no submitted work refers to transient memory
	// written before the call.
	Present()
	// Finish blocks until all submitted work has completed.
	Finish()
	// ReadPixels copies a region of the displayed framebuffer into
	// pixels in top-down RGBA8 scan order.
	ReadPixels(src image.Rectangle, pixels []byte) error

	Release()
}

type Caps struct {
	// Width and Height are the dimensions of the display surface.
	Width, Height  int
	MaxTextureSize int
}

type Program interface {
	Release()
}

// Buffer is GPU-visible memory. Bytes returns the CPU mapping; writes
// through it are visible to draws submitted afterwards.
type Buffer interface {
	Size() int
	Bytes() []byte
	Release()
}

type Texture interface {
	// Upload replaces the contents of a mip level with tightly packed
	// RGBA8 pixels.
	Upload(level int, pixels []byte)
	SetSampler(s Sampler)
	Release()
}

type TextureDesc struct {
	Width, Height int
	// Levels is the number of mip levels, at least 1.
	Levels int
}

type Sampler struct {
	MinFilter, MagFilter TextureFilter
	MipFilter            MipFilter
	WrapU, WrapV         TextureWrap
}

type VertexProgramDesc struct {
	Shader shader.Sources
	Layout VertexLayout
}

type FragmentProgramDesc struct {
	Shader shader.Sources
	// Blend is nil for opaque output.
	Blend *BlendDesc
	// MaskUpdate selects a program that writes the result of the
	// stencil test into the pixel mask instead of writing color.
	MaskUpdate bool
}

// VertexLayout maps shader inputs to vertex streams.
type VertexLayout struct {
	Inputs []InputDesc
	// Strides holds the byte stride of every stream.
	Strides []int
}

// InputDesc describes a vertex attribute as laid out in a stream.
type InputDesc struct {
	// Name matches a shader.InputLocation of the vertex shader.
	Name   string
	Stream int
	Format VertexFormat
	Size   int
	Offset int
}

type BlendDesc struct {
	ColorMask            ColorMask
	ColorFunc, AlphaFunc BlendFunc
	ColorSrc, ColorDst   BlendFactor
	AlphaSrc, AlphaDst   BlendFactor
}

type StencilDesc struct {
	Func      CompareFunc
	Fail      StencilOp
	DepthFail StencilOp
	DepthPass StencilOp
	// ReadMask and WriteMask select the stencil bits used by the test
	// and by the update.
	ReadMask, WriteMask uint8
	Ref                 uint8
}

// Viewport is the transform from normalized device coordinates to
// window coordinates: window = Offset + Scale*ndc.
type Viewport struct {
	Offset [3]float32
	Scale  [3]float32
}

type DepthBias struct {
	Factor, Units float32
}

type (
	BlendFactor   uint8
	BlendFunc     uint8
	ColorMask     uint8
	CompareFunc   uint8
	StencilOp     uint8
	CullMode      uint8
	PolygonMode   uint8
	DrawMode      uint8
	VertexFormat  uint8
	TextureFilter uint8
	MipFilter     uint8
	TextureWrap   uint8
)

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorSrcAlphaSaturate
)

const (
	BlendFuncAdd BlendFunc = iota
	BlendFuncSubtract
	BlendFuncReverseSubtract
	BlendFuncMin
	BlendFuncMax
)

const (
	ColorMaskR ColorMask = 1 << iota
	ColorMaskG
	ColorMaskB
	ColorMaskA

	ColorMaskNone ColorMask = 0
	ColorMaskAll            = ColorMaskR | ColorMaskG | ColorMaskB | ColorMaskA
)

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncr
	StencilDecr
	StencilInvert
	StencilIncrWrap
	StencilDecrWrap
)

const (
	CullNone CullMode = iota
	// CullCW discards triangles wound clockwise in normalized device
	// coordinates.
	CullCW
	CullCCW
)

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

const (
	DrawModePoints DrawMode = iota
	DrawModeLines
	DrawModeTriangles
	DrawModeTriangleStrip
	DrawModeTriangleFan
)

const (
	FormatF32 VertexFormat = iota
	// FormatU8N is an unsigned byte normalized to [0, 1].
	FormatU8N
)

const (
	FilterNearest TextureFilter = iota
	FilterLinear
)

const (
	MipNone MipFilter = iota
	MipNearest
	MipLinear
)

const (
	WrapRepeat TextureWrap = iota
	WrapClamp
	WrapMirror
)

// AlphaOp is the alpha test operator read by textured fragment
// programs from their "alphaOp" uniform.
type AlphaOp uint8

const (
	AlphaGreaterEqual AlphaOp = iota
	AlphaGreater
	AlphaNotEqual
	AlphaEqual
	AlphaLessEqual
	AlphaLess
	AlphaNever
	AlphaAlways
)

// TexEnv is the texture environment read by textured fragment programs
// from their "texEnv" uniform.
type TexEnv uint8

const (
	TexEnvModulate TexEnv = iota
	TexEnvDecal
	TexEnvBlend
	TexEnvReplace
)

var ErrOutOfBounds = errors.New("driver: stream out of buffer bounds")

// Has reports whether all channels in m2 are enabled in m.
func (m ColorMask) Has(m2 ColorMask) bool {
	return m&m2 == m2
}

// Size returns the byte size of one component.
func (f VertexFormat) Size() int {
	if f == FormatU8N {
		return 1
	}
	return 4
}

// DownloadImage reads r from the displayed framebuffer into a top-down
// image.
func DownloadImage(d Device, r image.Rectangle) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rectangle{Max: r.Size()})
	if err := d.ReadPixels(r, img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}

// FlipImageY reverses the row order of pixels, converting between
// top-down and bottom-up scan order.
func FlipImageY(stride, height int, pixels []byte) {
	row := make([]uint8, stride)
	for y := 0; y < height/2; y++ {
		y1 := height - y - 1
		dest := y1 * stride
		src := y * stride
		copy(row, pixels[dest:])
		copy(pixels[dest:], pixels[src:src+len(row)])
		copy(pixels[src:], row)
	}
}
