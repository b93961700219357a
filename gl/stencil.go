// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

type stencilFace struct {
	fn                    driver.CompareFunc
	ref                   uint8
	readMask, writeMask   uint8
	fail, depthFail, pass driver.StencilOp
}

type stencilState struct {
	enabled bool
	// face holds the front and back configuration.
	face [2]stencilFace
}

var stencilOps = map[Enum]driver.StencilOp{
	KEEP:      driver.StencilKeep,
	ZERO:      driver.StencilZero,
	REPLACE:   driver.StencilReplace,
	INCR:      driver.StencilIncr,
	DECR:      driver.StencilDecr,
	INVERT:    driver.StencilInvert,
	INCR_WRAP: driver.StencilIncrWrap,
	DECR_WRAP: driver.StencilDecrWrap,
}

func newStencilState() stencilState {
	f := stencilFace{fn: driver.CompareAlways, readMask: 0xff, writeMask: 0xff}
	return stencilState{face: [2]stencilFace{f, f}}
}

// desc returns the device configuration of a face. A disabled test
// passes every fragment and leaves the buffer alone.
func (s *stencilState) desc(face int) driver.StencilDesc {
	if !s.enabled {
		return driver.StencilDesc{Func: driver.CompareAlways, ReadMask: 0xff}
	}
	f := s.face[face]
	return driver.StencilDesc{
		Func:      f.fn,
		Fail:      f.fail,
		DepthFail: f.depthFail,
		DepthPass: f.pass,
		ReadMask:  f.readMask,
		WriteMask: f.writeMask,
		Ref:       f.ref,
	}
}

func (c *Context) StencilFunc(fn Enum, ref int32, mask uint32) {
	c.stencilFunc("StencilFunc", FRONT_AND_BACK, fn, ref, mask)
}

func (c *Context) StencilFuncSeparate(face, fn Enum, ref int32, mask uint32) {
	c.stencilFunc("StencilFuncSeparate", face, fn, ref, mask)
}

func (c *Context) stencilFunc(op string, face, fn Enum, ref int32, mask uint32) {
	if !c.idle(op) {
		return
	}
	sides, ok := faces(face)
	f, ok2 := compareFuncs[fn]
	if !ok || !ok2 {
		c.setError(op, INVALID_ENUM)
		return
	}
	r := uint8(min(max(ref, 0), 0xff))
	for _, i := range sides {
		s := &c.stencil.face[i]
		s.fn, s.ref, s.readMask = f, r, uint8(mask)
	}
	c.applyStencil()
}

func (c *Context) StencilOp(fail, depthFail, pass Enum) {
	c.stencilOp("StencilOp", FRONT_AND_BACK, fail, depthFail, pass)
}

func (c *Context) StencilOpSeparate(face, fail, depthFail, pass Enum) {
	c.stencilOp("StencilOpSeparate", face, fail, depthFail, pass)
}

func (c *Context) stencilOp(op string, face, fail, depthFail, pass Enum) {
	if !c.idle(op) {
		return
	}
	sides, ok := faces(face)
	sf, ok1 := stencilOps[fail]
	df, ok2 := stencilOps[depthFail]
	dp, ok3 := stencilOps[pass]
	if !ok || !ok1 || !ok2 || !ok3 {
		c.setError(op, INVALID_ENUM)
		return
	}
	for _, i := range sides {
		s := &c.stencil.face[i]
		s.fail, s.depthFail, s.pass = sf, df, dp
	}
	c.applyStencil()
}

func (c *Context) StencilMask(mask uint32) {
	c.stencilMask("StencilMask", FRONT_AND_BACK, mask)
}

func (c *Context) StencilMaskSeparate(face Enum, mask uint32) {
	c.stencilMask("StencilMaskSeparate", face, mask)
}

func (c *Context) stencilMask(op string, face Enum, mask uint32) {
	if !c.idle(op) {
		return
	}
	sides, ok := faces(face)
	if !ok {
		c.setError(op, INVALID_ENUM)
		return
	}
	for _, i := range sides {
		c.stencil.face[i].writeMask = uint8(mask)
	}
	c.applyStencil()
}

func (c *Context) applyStencil() {
	c.dev.SetStencil(byWinding(c.cull.front, c.stencil.desc(0), c.stencil.desc(1)))
}
