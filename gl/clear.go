// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

// beginFixedPass prepares the device for full screen passes drawn by
// the context itself. endFixedPass restores the client configuration.
func (c *Context) beginFixedPass() {
	c.dev.SetViewport(c.fullscreen())
	c.dev.SetCullMode(driver.CullNone)
	c.dev.SetPolygonMode(driver.PolygonFill, driver.PolygonFill)
	c.dev.SetDepthBias(driver.DepthBias{}, driver.DepthBias{})
}

func (c *Context) endFixedPass() {
	c.applyViewport()
	c.applyCull()
	c.applyPolygon()
	c.applyDepth()
	c.applyStencil()
}

// Clear fills the buffers selected by mask with their clear values.
// Pixels outside an enabled scissor rectangle are left alone.
func (c *Context) Clear(mask Bitfield) {
	if !c.idle("Clear") {
		return
	}
	if mask&^(COLOR_BUFFER_BIT|DEPTH_BUFFER_BIT|STENCIL_BUFFER_BIT) != 0 {
		c.setError("Clear", INVALID_VALUE)
		return
	}
	c.beginFixedPass()
	defer c.endFixedPass()
	keep := driver.StencilDesc{Func: driver.CompareAlways, ReadMask: 0xff}
	if mask&COLOR_BUFFER_BIT != 0 {
		c.dev.SetDepthFunc(driver.CompareAlways)
		c.dev.SetDepthWrite(false)
		c.dev.SetStencil(keep, keep)
		c.dev.BindVertexProgram(c.progs.clearVert)
		c.dev.BindFragmentProgram(c.progs.clearFrag)
		c.dev.SetFragmentUniforms(c.clear.color[:])
		c.drawQuad()
	}
	if mask&DEPTH_BUFFER_BIT != 0 {
		c.dev.SetDepthFunc(driver.CompareAlways)
		c.dev.SetDepthWrite(true)
		c.dev.SetStencil(keep, keep)
		c.drawDepthQuad(c.clear.depth)
	}
	if mask&STENCIL_BUFFER_BIT != 0 {
		st := driver.StencilDesc{
			Func:      driver.CompareAlways,
			Fail:      driver.StencilReplace,
			DepthFail: driver.StencilReplace,
			DepthPass: driver.StencilReplace,
			ReadMask:  0xff,
			WriteMask: c.stencil.face[0].writeMask,
			Ref:       c.clear.stencil,
		}
		c.dev.SetDepthFunc(driver.CompareAlways)
		c.dev.SetDepthWrite(false)
		c.dev.SetStencil(st, st)
		c.drawDepthQuad(c.clear.depth)
	}
}

// drawQuad draws the full screen quad with the bound programs.
func (c *Context) drawQuad() {
	s, _ := driver.NewStream(c.quad, 0, c.quad.Size())
	idx, _ := driver.NewStream(c.quadIndices, 0, c.quadIndices.Size())
	c.dev.BindVertexStream(0, s)
	c.dev.Draw(driver.DrawModeTriangleFan, idx, 4)
}

// drawDepthQuad draws a full screen quad at window depth d that
// writes no color.
func (c *Context) drawDepthQuad(d float32) {
	z := 2*d - 1
	s, ok := c.alloc("Clear", c.transient, 4*3*4)
	if !ok {
		return
	}
	copy(s.Bytes(), floatBytes(-1, -1, z, 1, -1, z, 1, 1, z, -1, 1, z))
	idx, _ := driver.NewStream(c.quadIndices, 0, c.quadIndices.Size())
	c.dev.BindVertexProgram(c.progs.depthVert)
	c.dev.BindFragmentProgram(c.progs.depthFrag)
	c.dev.BindVertexStream(0, s)
	c.dev.Draw(driver.DrawModeTriangleFan, idx, 4)
}
