// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

type blendState struct {
	enabled        bool
	srcRGB, dstRGB driver.BlendFactor
	srcA, dstA     driver.BlendFactor
	eqRGB, eqA     driver.BlendFunc
	mask           driver.ColorMask
}

type alphaState struct {
	enabled bool
	fn      driver.AlphaOp
	ref     float32
}

var blendFactors = map[Enum]driver.BlendFactor{
	ZERO:                driver.BlendFactorZero,
	ONE:                 driver.BlendFactorOne,
	SRC_COLOR:           driver.BlendFactorSrcColor,
	ONE_MINUS_SRC_COLOR: driver.BlendFactorOneMinusSrcColor,
	SRC_ALPHA:           driver.BlendFactorSrcAlpha,
	ONE_MINUS_SRC_ALPHA: driver.BlendFactorOneMinusSrcAlpha,
	DST_COLOR:           driver.BlendFactorDstColor,
	ONE_MINUS_DST_COLOR: driver.BlendFactorOneMinusDstColor,
	DST_ALPHA:           driver.BlendFactorDstAlpha,
	ONE_MINUS_DST_ALPHA: driver.BlendFactorOneMinusDstAlpha,
	SRC_ALPHA_SATURATE:  driver.BlendFactorSrcAlphaSaturate,
}

var blendFuncs = map[Enum]driver.BlendFunc{
	FUNC_ADD:              driver.BlendFuncAdd,
	FUNC_SUBTRACT:         driver.BlendFuncSubtract,
	FUNC_REVERSE_SUBTRACT: driver.BlendFuncReverseSubtract,
	MIN:                   driver.BlendFuncMin,
	MAX:                   driver.BlendFuncMax,
}

var alphaOps = map[Enum]driver.AlphaOp{
	NEVER:    driver.AlphaNever,
	LESS:     driver.AlphaLess,
	EQUAL:    driver.AlphaEqual,
	LEQUAL:   driver.AlphaLessEqual,
	GREATER:  driver.AlphaGreater,
	NOTEQUAL: driver.AlphaNotEqual,
	GEQUAL:   driver.AlphaGreaterEqual,
	ALWAYS:   driver.AlphaAlways,
}

func newBlendState() blendState {
	return blendState{
		srcRGB: driver.BlendFactorOne,
		srcA:   driver.BlendFactorOne,
		dstRGB: driver.BlendFactorZero,
		dstA:   driver.BlendFactorZero,
		mask:   driver.ColorMaskAll,
	}
}

// desc returns the descriptor fragment programs are patched with. The
// device masks color channels in its blend unit, so a disabled blend
// with a partial color mask still needs a pass-through descriptor.
func (b blendState) desc() *driver.BlendDesc {
	switch {
	case b.enabled:
		return &driver.BlendDesc{
			ColorMask: b.mask,
			ColorFunc: b.eqRGB,
			AlphaFunc: b.eqA,
			ColorSrc:  b.srcRGB,
			ColorDst:  b.dstRGB,
			AlphaSrc:  b.srcA,
			AlphaDst:  b.dstA,
		}
	case b.mask != driver.ColorMaskAll:
		return &driver.BlendDesc{
			ColorMask: b.mask,
			ColorSrc:  driver.BlendFactorOne,
			ColorDst:  driver.BlendFactorZero,
			AlphaSrc:  driver.BlendFactorOne,
			AlphaDst:  driver.BlendFactorZero,
		}
	}
	return nil
}

func (c *Context) BlendFunc(sfactor, dfactor Enum) {
	c.blendFunc("BlendFunc", sfactor, dfactor, sfactor, dfactor)
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	c.blendFunc("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (c *Context) blendFunc(op string, srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	if !c.idle(op) {
		return
	}
	sc, ok1 := blendFactors[srcRGB]
	dc, ok2 := blendFactors[dstRGB]
	sa, ok3 := blendFactors[srcAlpha]
	da, ok4 := blendFactors[dstAlpha]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		c.setError(op, INVALID_ENUM)
		return
	}
	c.blend.srcRGB, c.blend.dstRGB, c.blend.srcA, c.blend.dstA = sc, dc, sa, da
	if c.blend.enabled {
		c.applyBlend()
	}
}

func (c *Context) BlendEquation(mode Enum) {
	c.blendEquation("BlendEquation", mode, mode)
}

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	c.blendEquation("BlendEquationSeparate", modeRGB, modeAlpha)
}

func (c *Context) blendEquation(op string, modeRGB, modeAlpha Enum) {
	if !c.idle(op) {
		return
	}
	fc, ok1 := blendFuncs[modeRGB]
	fa, ok2 := blendFuncs[modeAlpha]
	if !ok1 || !ok2 {
		c.setError(op, INVALID_ENUM)
		return
	}
	c.blend.eqRGB, c.blend.eqA = fc, fa
	if c.blend.enabled {
		c.applyBlend()
	}
}

// ColorMask selects the color channels draws write.
func (c *Context) ColorMask(r, g, b, a bool) {
	if !c.idle("ColorMask") {
		return
	}
	var m driver.ColorMask
	for i, on := range [4]bool{r, g, b, a} {
		if on {
			m |= driver.ColorMaskR << i
		}
	}
	c.blend.mask = m
	c.applyBlend()
}

// applyBlend re-patches the fragment programs if the effective
// descriptor changed.
func (c *Context) applyBlend() {
	desc := c.blend.desc()
	if err := c.progs.setBlend(desc); err != nil {
		c.log.Error("fragment program patching failed", "err", err)
		c.setError("applyBlend", OUT_OF_MEMORY)
	}
	if c.custom != nil {
		if err := c.custom.SetBlend(c.dev, desc); err != nil {
			c.log.Error("custom program blend failed", "err", err)
			c.setError("applyBlend", INVALID_OPERATION)
		}
	}
}

// AlphaFunc configures the alpha test of textured draws. ref is
// clamped to [0, 1].
func (c *Context) AlphaFunc(fn Enum, ref float32) {
	if !c.idle("AlphaFunc") {
		return
	}
	op, ok := alphaOps[fn]
	if !ok {
		c.setError("AlphaFunc", INVALID_ENUM)
		return
	}
	c.alpha.fn, c.alpha.ref = op, clamp01(ref)
}

// op returns the operator textured fragment programs apply.
func (a alphaState) op() driver.AlphaOp {
	if !a.enabled {
		return driver.AlphaAlways
	}
	return a.fn
}
