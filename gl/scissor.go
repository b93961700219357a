// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"image"

	"github.com/vglgo/vgl/gpu/driver"
)

type scissorState struct {
	enabled bool
	// region is in top-left window coordinates.
	region image.Rectangle
}

// Scissor sets the scissor rectangle; x and y name its lower left
// corner.
func (c *Context) Scissor(x, y, width, height int32) {
	if !c.idle("Scissor") {
		return
	}
	if width < 0 || height < 0 {
		c.setError("Scissor", INVALID_VALUE)
		return
	}
	c.scissor.region = viewState{x: x, y: y, w: width, h: height}.rect(c.height)
	c.updateScissor()
}

// updateScissor repaints the pixel mask: the scissor region when the
// test is enabled, the whole screen otherwise.
func (c *Context) updateScissor() {
	c.beginFixedPass()
	defer c.endFixedPass()
	c.dev.SetDepthFunc(driver.CompareAlways)
	c.dev.SetDepthWrite(false)
	c.dev.BindVertexProgram(c.progs.clearVert)
	c.dev.BindFragmentProgram(c.progs.maskFrag)
	never := driver.StencilDesc{Func: driver.CompareNever}
	always := driver.StencilDesc{Func: driver.CompareAlways}
	if !c.scissor.enabled {
		c.dev.SetStencil(always, always)
		c.drawQuad()
		return
	}
	c.dev.SetStencil(never, never)
	c.drawQuad()
	r := c.scissor.region
	if r.Empty() {
		return
	}
	w, h := float32(c.width), float32(c.height)
	x0, x1 := 2*float32(r.Min.X)/w-1, 2*float32(r.Max.X)/w-1
	y0, y1 := 1-2*float32(r.Max.Y)/h, 1-2*float32(r.Min.Y)/h
	s, ok := c.alloc("Scissor", c.transient, 4*2*4)
	if !ok {
		return
	}
	copy(s.Bytes(), floatBytes(x0, y0, x1, y0, x1, y1, x0, y1))
	idx, _ := driver.NewStream(c.quadIndices, 0, c.quadIndices.Size())
	c.dev.SetStencil(always, always)
	c.dev.BindVertexStream(0, s)
	c.dev.Draw(driver.DrawModeTriangleFan, idx, 4)
}
