// SPDX-License-Identifier: Unlicense OR MIT

package soft

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/vglgo/vgl/gpu/driver"
)

// shade runs the per-fragment operations for pixel (x, y): fragment
// program, pixel mask, stencil and depth tests, blending.
func (d *Device) shade(x, y int, f fragment, face int) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	i := y*d.width + x
	st := d.state.Stencil[face]
	if d.fprog.mask {
		d.mask[i] = d.stencilTest(i, st)
		return
	}
	if !d.mask[i] {
		return
	}
	src, keep := d.fragmentColor(f)
	if !keep {
		return
	}
	if !d.stencilTest(i, st) {
		d.stencilOp(i, st, st.Fail)
		return
	}
	z := min(max(f.z, 0), 1)
	if !compare(d.state.DepthFunc, z, d.depth[i]) {
		d.stencilOp(i, st, st.DepthFail)
		return
	}
	d.stencilOp(i, st, st.DepthPass)
	if d.state.DepthWrite {
		d.depth[i] = z
	}
	d.writeColor(i, src)
}

// fragmentColor evaluates the bound fragment program. A program with
// a "color" uniform outputs it; a program with a texture binding
// combines the texel with its "tint" uniform, or the vertex color
// without one, and applies the alpha test.
func (d *Device) fragmentColor(f fragment) ([4]float32, bool) {
	p := d.fprog
	col := f.color
	if off, ok := p.uniform("color"); ok {
		col = d.funiform4(off, col)
	}
	if len(p.src.Textures) == 0 {
		return col, true
	}
	if off, ok := p.uniform("tint"); ok {
		col = d.funiform4(off, col)
	}
	tex := d.textures[0]
	if tex == nil || tex.levels == nil {
		return col, true
	}
	texel := tex.sample(f.uv[0], f.uv[1])
	env := driver.TexEnv(d.funiform1(p, "texEnv", float32(driver.TexEnvModulate)))
	envColor := [4]float32{}
	if off, ok := p.uniform("texEnvColor"); ok {
		envColor = d.funiform4(off, envColor)
	}
	out := combine(env, col, texel, envColor)
	op := driver.AlphaOp(d.funiform1(p, "alphaOp", float32(driver.AlphaAlways)))
	ref := d.funiform1(p, "alphaRef", 0)
	return out, alphaTest(op, out[3], ref)
}

func (d *Device) funiform4(off int, def [4]float32) [4]float32 {
	if off+4 > len(d.funiforms) {
		return def
	}
	return [4]float32(d.funiforms[off : off+4])
}

func (d *Device) funiform1(p *program, name string, def float32) float32 {
	off, ok := p.uniform(name)
	if !ok || off >= len(d.funiforms) {
		return def
	}
	return d.funiforms[off]
}

func combine(env driver.TexEnv, frag, tex, envColor [4]float32) [4]float32 {
	var out [4]float32
	switch env {
	case driver.TexEnvReplace:
		out = tex
	case driver.TexEnvDecal:
		for c := 0; c < 3; c++ {
			out[c] = frag[c]*(1-tex[3]) + tex[c]*tex[3]
		}
		out[3] = frag[3]
	case driver.TexEnvBlend:
		for c := 0; c < 3; c++ {
			out[c] = frag[c]*(1-tex[c]) + envColor[c]*tex[c]
		}
		out[3] = frag[3] * tex[3]
	default:
		for c := range out {
			out[c] = frag[c] * tex[c]
		}
	}
	return out
}

func alphaTest(op driver.AlphaOp, a, ref float32) bool {
	switch op {
	case driver.AlphaGreaterEqual:
		return a >= ref
	case driver.AlphaGreater:
		return a > ref
	case driver.AlphaNotEqual:
		return a != ref
	case driver.AlphaEqual:
		return a == ref
	case driver.AlphaLessEqual:
		return a <= ref
	case driver.AlphaLess:
		return a < ref
	case driver.AlphaNever:
		return false
	}
	return true
}

// compare applies f to an incoming value a and a stored value b.
func compare[T constraints.Ordered](f driver.CompareFunc, a, b T) bool {
	switch f {
	case driver.CompareNever:
		return false
	case driver.CompareLess:
		return a < b
	case driver.CompareEqual:
		return a == b
	case driver.CompareLessEqual:
		return a <= b
	case driver.CompareGreater:
		return a > b
	case driver.CompareNotEqual:
		return a != b
	case driver.CompareGreaterEqual:
		return a >= b
	}
	return true
}

func (d *Device) stencilTest(i int, st driver.StencilDesc) bool {
	return compare(st.Func, st.Ref&st.ReadMask, d.stencil[i]&st.ReadMask)
}

func (d *Device) stencilOp(i int, st driver.StencilDesc, op driver.StencilOp) {
	old := d.stencil[i]
	var v uint8
	switch op {
	case driver.StencilKeep:
		return
	case driver.StencilZero:
		v = 0
	case driver.StencilReplace:
		v = st.Ref
	case driver.StencilIncr:
		v = old
		if v < math.MaxUint8 {
			v++
		}
	case driver.StencilDecr:
		v = old
		if v > 0 {
			v--
		}
	case driver.StencilInvert:
		v = ^old
	case driver.StencilIncrWrap:
		v = old + 1
	case driver.StencilDecrWrap:
		v = old - 1
	}
	d.stencil[i] = old&^st.WriteMask | v&st.WriteMask
}

func (d *Device) writeColor(i int, src [4]float32) {
	px := d.color[i*4 : i*4+4]
	out := src
	mask := driver.ColorMaskAll
	if b := d.fprog.blend; b != nil {
		mask = b.ColorMask
		var dst [4]float32
		for c := range dst {
			dst[c] = float32(px[c]) / 255
		}
		out = blend(b, src, dst)
	}
	for c := 0; c < 4; c++ {
		if mask.Has(driver.ColorMaskR << c) {
			px[c] = quantize(out[c])
		}
	}
}

func blend(b *driver.BlendDesc, src, dst [4]float32) [4]float32 {
	var out [4]float32
	for c := 0; c < 3; c++ {
		out[c] = blendOp(b.ColorFunc, src[c], dst[c], factor(b.ColorSrc, c, src, dst), factor(b.ColorDst, c, src, dst))
	}
	out[3] = blendOp(b.AlphaFunc, src[3], dst[3], factor(b.AlphaSrc, 3, src, dst), factor(b.AlphaDst, 3, src, dst))
	return out
}

func blendOp(fn driver.BlendFunc, s, d, sf, df float32) float32 {
	switch fn {
	case driver.BlendFuncSubtract:
		return s*sf - d*df
	case driver.BlendFuncReverseSubtract:
		return d*df - s*sf
	case driver.BlendFuncMin:
		return min(s, d)
	case driver.BlendFuncMax:
		return max(s, d)
	}
	return s*sf + d*df
}

func factor(f driver.BlendFactor, c int, src, dst [4]float32) float32 {
	switch f {
	case driver.BlendFactorZero:
		return 0
	case driver.BlendFactorOne:
		return 1
	case driver.BlendFactorSrcColor:
		return src[c]
	case driver.BlendFactorOneMinusSrcColor:
		return 1 - src[c]
	case driver.BlendFactorSrcAlpha:
		return src[3]
	case driver.BlendFactorOneMinusSrcAlpha:
		return 1 - src[3]
	case driver.BlendFactorDstColor:
		return dst[c]
	case driver.BlendFactorOneMinusDstColor:
		return 1 - dst[c]
	case driver.BlendFactorDstAlpha:
		return dst[3]
	case driver.BlendFactorOneMinusDstAlpha:
		return 1 - dst[3]
	case driver.BlendFactorSrcAlphaSaturate:
		if c == 3 {
			return 1
		}
		return min(src[3], 1-dst[3])
	}
	return 1
}

func quantize(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}

func (t *texture) sample(u, v float32) [4]float32 {
	s := t.sampler
	u, v = wrap(u, s.WrapU), wrap(v, s.WrapV)
	if s.MagFilter == driver.FilterLinear {
		fx, fy := u*float32(t.width)-0.5, v*float32(t.height)-0.5
		x0, y0 := int(math.Floor(float64(fx))), int(math.Floor(float64(fy)))
		ax, ay := fx-float32(x0), fy-float32(y0)
		c00, c10 := t.texel(x0, y0), t.texel(x0+1, y0)
		c01, c11 := t.texel(x0, y0+1), t.texel(x0+1, y0+1)
		var out [4]float32
		for c := range out {
			top := c00[c] + ax*(c10[c]-c00[c])
			bot := c01[c] + ax*(c11[c]-c01[c])
			out[c] = top + ay*(bot-top)
		}
		return out
	}
	return t.texel(int(u*float32(t.width)), int(v*float32(t.height)))
}

func (t *texture) texel(x, y int) [4]float32 {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	p := t.levels[0][(y*t.width+x)*4:]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func wrap(c float32, m driver.TextureWrap) float32 {
	switch m {
	case driver.WrapClamp:
		return min(max(c, 0), 1)
	case driver.WrapMirror:
		c = abs32(c)
		i := float32(math.Floor(float64(c)))
		f := c - i
		if int(i)%2 == 1 {
			f = 1 - f
		}
		return f
	}
	return c - float32(math.Floor(float64(c)))
}
