// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"log/slog"

	"gioui.org/shader"

	"github.com/vglgo/vgl/gpu/driver"
)

// variant is one of the fixed-function program pairs.
type variant uint8

const (
	// variantRGBA colors vertices with a 4 component color stream.
	variantRGBA variant = iota
	// variantRGB colors vertices with a 3 component color stream and
	// opaque alpha.
	variantRGB
	// variantTexture modulates the texture with a flat tint.
	variantTexture
	// variantTextureColor modulates the texture with a per-vertex
	// color stream.
	variantTextureColor

	numVariants
)

var variantShaders = [numVariants]struct {
	vert, frag shader.Sources
}{
	variantRGBA:         {shaderRGBAVert, shaderRGBAFrag},
	variantRGB:          {shaderRGBVert, shaderRGBAFrag},
	variantTexture:      {shaderTextureVert, shaderTextureFrag},
	variantTextureColor: {shaderTextureColorVert, shaderTextureColorFrag},
}

func (v variant) String() string {
	return variantShaders[v].vert.Name
}

func (v variant) textured() bool {
	return v == variantTexture || v == variantTextureColor
}

// selectVariant picks the program for a draw. colorSize is the width
// of the color stream, 0 if the draw has none.
func selectVariant(textured bool, colorSize int) variant {
	switch {
	case textured && colorSize == 0:
		return variantTexture
	case textured:
		return variantTextureColor
	case colorSize == 3:
		return variantRGB
	}
	return variantRGBA
}

const maxInputs = 3

// vertexKey identifies a vertex program: a variant patched with a
// vertex layout.
type vertexKey struct {
	variant variant
	inputs  [maxInputs]driver.InputDesc
	strides [maxInputs]int
}

// resolver owns the built-in programs. Vertex programs are patched on
// demand per layout; fragment programs carry the blend state and are
// re-patched together when it changes.
type resolver struct {
	dev   driver.Device
	log   *slog.Logger
	blend *driver.BlendDesc
	frag  [numVariants]driver.Program
	verts *resourceCache[vertexKey, driver.Program]

	clearVert, clearFrag driver.Program
	depthVert, depthFrag driver.Program
	maskFrag             driver.Program

	// patches counts fragment program batches patched since creation.
	patches int
}

func newResolver(dev driver.Device, log *slog.Logger) (*resolver, error) {
	r := &resolver{
		dev:   dev,
		log:   log,
		verts: newResourceCache[vertexKey, driver.Program](),
	}
	var err error
	fixed := []struct {
		p    *driver.Program
		vert bool
		src  shader.Sources
		dim  int
		frag driver.FragmentProgramDesc
	}{
		{p: &r.clearVert, vert: true, src: shaderClearVert, dim: 2},
		{p: &r.depthVert, vert: true, src: shaderDepthVert, dim: 3},
		{p: &r.clearFrag, frag: driver.FragmentProgramDesc{Shader: shaderClearFrag}},
		{p: &r.depthFrag, frag: driver.FragmentProgramDesc{Shader: shaderDepthFrag, Blend: &driver.BlendDesc{
			ColorMask: driver.ColorMaskNone,
			ColorSrc:  driver.BlendFactorOne,
			AlphaSrc:  driver.BlendFactorOne,
		}}},
		{p: &r.maskFrag, frag: driver.FragmentProgramDesc{Shader: shaderMaskFrag, MaskUpdate: true}},
	}
	for _, f := range fixed {
		if f.vert {
			*f.p, err = dev.NewVertexProgram(driver.VertexProgramDesc{
				Shader: f.src,
				Layout: driver.VertexLayout{
					Inputs:  []driver.InputDesc{{Name: "pos", Format: driver.FormatF32, Size: f.dim}},
					Strides: []int{f.dim * 4},
				},
			})
		} else {
			*f.p, err = dev.NewFragmentProgram(f.frag)
		}
		if err != nil {
			r.release()
			return nil, err
		}
	}
	if err := r.patchFragment(nil); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

// setBlend re-patches the fragment programs with desc, unless desc
// equals the current descriptor.
func (r *resolver) setBlend(desc *driver.BlendDesc) error {
	if equalBlend(r.blend, desc) {
		return nil
	}
	return r.patchFragment(desc)
}

func equalBlend(a, b *driver.BlendDesc) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *resolver) patchFragment(desc *driver.BlendDesc) error {
	var progs [numVariants]driver.Program
	for v := range progs {
		p, err := r.dev.NewFragmentProgram(driver.FragmentProgramDesc{
			Shader: variantShaders[v].frag,
			Blend:  desc,
		})
		if err != nil {
			for _, p := range progs[:v] {
				p.Release()
			}
			return fmt.Errorf("%s: %w", variantShaders[v].frag.Name, err)
		}
		progs[v] = p
	}
	for _, p := range r.frag {
		if p != nil {
			p.Release()
		}
	}
	r.frag = progs
	r.blend = desc
	r.patches++
	r.log.Debug("fragment programs patched", "variants", len(progs), "blend", desc)
	return nil
}

// vertexProgram returns the program of v patched with layout.
func (r *resolver) vertexProgram(v variant, layout driver.VertexLayout) (driver.Program, error) {
	if len(layout.Inputs) > maxInputs || len(layout.Strides) > maxInputs {
		return nil, fmt.Errorf("%s: layout has too many streams", v)
	}
	key := vertexKey{variant: v}
	copy(key.inputs[:], layout.Inputs)
	copy(key.strides[:], layout.Strides)
	if p, ok := r.verts.get(key); ok {
		return p, nil
	}
	p, err := r.dev.NewVertexProgram(driver.VertexProgramDesc{
		Shader: variantShaders[v].vert,
		Layout: layout,
	})
	if err != nil {
		return nil, err
	}
	r.verts.put(key, p)
	r.log.Debug("vertex program patched", "variant", v, "strides", layout.Strides)
	return p, nil
}

// frame releases vertex programs no draw used since the previous
// frame.
func (r *resolver) frame() {
	r.verts.frame()
}

func (r *resolver) release() {
	if r.verts != nil {
		r.verts.release()
		r.verts = nil
	}
	for i, p := range r.frag {
		if p != nil {
			p.Release()
			r.frag[i] = nil
		}
	}
	for _, p := range []*driver.Program{&r.clearVert, &r.clearFrag, &r.depthVert, &r.depthFrag, &r.maskFrag} {
		if *p != nil {
			(*p).Release()
			*p = nil
		}
	}
}

// uniforms is a default uniform buffer laid out by a shader's
// reflection data.
type uniforms struct {
	src  *shader.Sources
	data []float32
}

func newUniforms(src *shader.Sources) uniforms {
	return uniforms{src: src, data: make([]float32, src.Uniforms.Size/4)}
}

// set stores v at the location of name. Names the shader lacks are
// ignored.
func (u uniforms) set(name string, v ...float32) {
	for _, l := range u.src.Uniforms.Locations {
		if l.Name == name {
			copy(u.data[l.Offset/4:], v[:min(len(v), l.Size)])
			return
		}
	}
}
