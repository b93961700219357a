// SPDX-License-Identifier: Unlicense OR MIT

// Package soft implements driver.Device in pure Go. It rasterizes
// into an RGBA8 color buffer with depth, stencil and a one-bit pixel
// mask, and is the reference device for tests and offline rendering.
package soft

import (
	"errors"
	"fmt"
	"image"

	"gioui.org/shader"

	"github.com/vglgo/vgl/gpu/driver"
)

const (
	defaultWidth  = 960
	defaultHeight = 544

	maxStreams = 4
	maxUnits   = 4
	maxTexSize = 4096
	maxBuffer  = 256 << 20
)

// Device is the software device. The front facing winding is counter
// clockwise in normalized device coordinates.
type Device struct {
	width, height int

	color   []byte
	front   []byte
	depth   []float32
	stencil []uint8
	// mask holds one bit per pixel. Draws other than mask updates only
	// touch pixels whose bit is set.
	mask []bool

	vprog, fprog *program
	streams      [maxStreams]driver.Stream
	textures     [maxUnits]*texture
	vuniforms    []float32
	funiforms    []float32

	state State
	stats Stats
}

// State is the fixed-function hardware configuration of a Device.
type State struct {
	Viewport   driver.Viewport
	DepthFunc  driver.CompareFunc
	DepthWrite bool
	Stencil    [2]driver.StencilDesc
	Cull       driver.CullMode
	Polygon    [2]driver.PolygonMode
	DepthBias  [2]driver.DepthBias
}

// Stats counts device work.
type Stats struct {
	VertexPrograms   int
	FragmentPrograms int
	Draws            int
	// Rejected counts draws dropped for out of range indices or
	// missing state.
	Rejected int
	Presents int
	// LiveBuffers and LiveTextures count allocations not yet released.
	LiveBuffers  int
	LiveTextures int
}

type buffer struct {
	dev      *Device
	data     []byte
	released bool
}

type texture struct {
	dev           *Device
	width, height int
	levels        [][]byte
	sampler       driver.Sampler
}

type program struct {
	fragment bool
	src      shader.Sources
	layout   driver.VertexLayout
	blend    *driver.BlendDesc
	mask     bool
}

func init() {
	driver.NewSoftwareDevice = func(api driver.Software) (driver.Device, error) {
		return New(api.Width, api.Height)
	}
}

// New returns a device with a display of the given size. Zero
// dimensions select 960x544.
func New(width, height int) (*Device, error) {
	if width == 0 && height == 0 {
		width, height = defaultWidth, defaultHeight
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("soft: invalid display size %dx%d", width, height)
	}
	n := width * height
	d := &Device{
		width:   width,
		height:  height,
		color:   make([]byte, n*4),
		front:   make([]byte, n*4),
		depth:   make([]float32, n),
		stencil: make([]uint8, n),
		mask:    make([]bool, n),
	}
	for i := range d.depth {
		d.depth[i] = 1
		d.mask[i] = true
	}
	w, h := float32(width)/2, float32(height)/2
	d.state = State{
		Viewport: driver.Viewport{
			Offset: [3]float32{w, h, 0.5},
			Scale:  [3]float32{w, -h, 0.5},
		},
		DepthFunc:  driver.CompareAlways,
		DepthWrite: true,
	}
	for i := range d.state.Stencil {
		d.state.Stencil[i] = driver.StencilDesc{Func: driver.CompareAlways, ReadMask: 0xff, WriteMask: 0xff}
	}
	return d, nil
}

func (d *Device) Caps() driver.Caps {
	return driver.Caps{Width: d.width, Height: d.height, MaxTextureSize: maxTexSize}
}

// State returns the current hardware configuration.
func (d *Device) State() State {
	return d.state
}

func (d *Device) Stats() Stats {
	return d.stats
}

func (d *Device) NewBuffer(size int) (driver.Buffer, error) {
	if size < 0 || size > maxBuffer {
		return nil, fmt.Errorf("soft: invalid buffer size %d", size)
	}
	d.stats.LiveBuffers++
	return &buffer{dev: d, data: make([]byte, size)}, nil
}

func (d *Device) NewTexture(desc driver.TextureDesc) (driver.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > maxTexSize || desc.Height > maxTexSize {
		return nil, fmt.Errorf("soft: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	levels := desc.Levels
	if levels < 1 {
		levels = 1
	}
	t := &texture{dev: d, width: desc.Width, height: desc.Height, levels: make([][]byte, levels)}
	w, h := desc.Width, desc.Height
	for i := range t.levels {
		t.levels[i] = make([]byte, w*h*4)
		w, h = max(w/2, 1), max(h/2, 1)
	}
	d.stats.LiveTextures++
	return t, nil
}

func (d *Device) NewVertexProgram(desc driver.VertexProgramDesc) (driver.Program, error) {
	if len(desc.Layout.Strides) > maxStreams {
		return nil, fmt.Errorf("soft: %s: too many streams", desc.Shader.Name)
	}
	for _, in := range desc.Layout.Inputs {
		if in.Stream < 0 || in.Stream >= len(desc.Layout.Strides) {
			return nil, fmt.Errorf("soft: %s: input %q refers to stream %d", desc.Shader.Name, in.Name, in.Stream)
		}
		if !hasInput(desc.Shader, in.Name) {
			return nil, fmt.Errorf("soft: %s: no shader input %q", desc.Shader.Name, in.Name)
		}
	}
	d.stats.VertexPrograms++
	return &program{src: desc.Shader, layout: desc.Layout}, nil
}

func (d *Device) NewFragmentProgram(desc driver.FragmentProgramDesc) (driver.Program, error) {
	p := &program{fragment: true, src: desc.Shader, mask: desc.MaskUpdate}
	if desc.Blend != nil {
		b := *desc.Blend
		p.blend = &b
	}
	d.stats.FragmentPrograms++
	return p, nil
}

func hasInput(src shader.Sources, name string) bool {
	for _, in := range src.Inputs {
		if in.Name == name {
			return true
		}
	}
	return false
}

func (d *Device) BindVertexProgram(p driver.Program) {
	d.vprog = p.(*program)
}

func (d *Device) BindFragmentProgram(p driver.Program) {
	d.fprog = p.(*program)
}

func (d *Device) BindVertexStream(index int, s driver.Stream) {
	d.streams[index] = s
}

func (d *Device) BindTexture(unit int, t driver.Texture) {
	if t == nil {
		d.textures[unit] = nil
		return
	}
	d.textures[unit] = t.(*texture)
}

func (d *Device) SetVertexUniforms(data []float32) {
	d.vuniforms = append(d.vuniforms[:0], data...)
}

func (d *Device) SetFragmentUniforms(data []float32) {
	d.funiforms = append(d.funiforms[:0], data...)
}

func (d *Device) SetViewport(v driver.Viewport) {
	d.state.Viewport = v
}

func (d *Device) SetDepthFunc(f driver.CompareFunc) {
	d.state.DepthFunc = f
}

func (d *Device) SetDepthWrite(enable bool) {
	d.state.DepthWrite = enable
}

func (d *Device) SetStencil(front, back driver.StencilDesc) {
	d.state.Stencil = [2]driver.StencilDesc{front, back}
}

func (d *Device) SetCullMode(m driver.CullMode) {
	d.state.Cull = m
}

func (d *Device) SetPolygonMode(front, back driver.PolygonMode) {
	d.state.Polygon = [2]driver.PolygonMode{front, back}
}

func (d *Device) SetDepthBias(front, back driver.DepthBias) {
	d.state.DepthBias = [2]driver.DepthBias{front, back}
}

func (d *Device) Present() {
	copy(d.front, d.color)
	d.stats.Presents++
}

// Finish returns immediately; the device renders synchronously.
func (d *Device) Finish() {}

func (d *Device) ReadPixels(src image.Rectangle, pixels []byte) error {
	if !src.In(image.Rect(0, 0, d.width, d.height)) {
		return fmt.Errorf("soft: read of %v outside the %dx%d display", src, d.width, d.height)
	}
	w := src.Dx() * 4
	if len(pixels) < w*src.Dy() {
		return errors.New("soft: pixel buffer too small")
	}
	for y := 0; y < src.Dy(); y++ {
		off := ((src.Min.Y+y)*d.width + src.Min.X) * 4
		copy(pixels[y*w:(y+1)*w], d.front[off:off+w])
	}
	return nil
}

func (d *Device) Release() {
	d.color, d.front, d.depth, d.stencil, d.mask = nil, nil, nil, nil, nil
	d.vprog, d.fprog = nil, nil
}

func (b *buffer) Size() int {
	return len(b.data)
}

func (b *buffer) Bytes() []byte {
	return b.data
}

func (b *buffer) Release() {
	if b.released {
		panic("soft: buffer released twice")
	}
	b.released = true
	b.dev.stats.LiveBuffers--
}

func (t *texture) Upload(level int, pixels []byte) {
	copy(t.levels[level], pixels)
}

func (t *texture) SetSampler(s driver.Sampler) {
	t.sampler = s
}

func (t *texture) Release() {
	if t.levels == nil {
		panic("soft: texture released twice")
	}
	t.levels = nil
	t.dev.stats.LiveTextures--
}

func (p *program) Release() {}

// uniform returns the float index of the named uniform.
func (p *program) uniform(name string) (int, bool) {
	for _, u := range p.src.Uniforms.Locations {
		if u.Name == name {
			return u.Offset / 4, true
		}
	}
	return 0, false
}
