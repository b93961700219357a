// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

type cullState struct {
	enabled bool
	// face is FRONT, BACK or FRONT_AND_BACK.
	face Enum
	// front is the winding of front facing polygons, CW or CCW.
	front Enum
}

const (
	offsetFill = iota
	offsetLine
	offsetPoint
)

type polygonState struct {
	// mode holds the front and back polygon modes.
	mode          [2]driver.PolygonMode
	offset        [3]bool
	factor, units float32
}

var polygonModes = map[Enum]driver.PolygonMode{
	FILL:  driver.PolygonFill,
	LINE:  driver.PolygonLine,
	POINT: driver.PolygonPoint,
}

// cullModes maps front face winding and culled face to the device
// mode, which names the discarded winding.
var cullModes = map[[2]Enum]driver.CullMode{
	{CCW, BACK}:  driver.CullCW,
	{CW, BACK}:   driver.CullCCW,
	{CCW, FRONT}: driver.CullCCW,
	{CW, FRONT}:  driver.CullCW,
}

func (s cullState) mode() driver.CullMode {
	if !s.enabled {
		return driver.CullNone
	}
	return cullModes[[2]Enum{s.front, s.face}]
}

// discardAll reports whether every triangle is culled.
func (s cullState) discardAll() bool {
	return s.enabled && s.face == FRONT_AND_BACK
}

// byWinding orders a front and back value as the device expects:
// counter clockwise first.
func byWinding[T any](frontFace Enum, front, back T) (T, T) {
	if frontFace == CW {
		return back, front
	}
	return front, back
}

// faces returns the indices selected by a FRONT, BACK or
// FRONT_AND_BACK selector.
func faces(face Enum) ([]int, bool) {
	switch face {
	case FRONT:
		return []int{0}, true
	case BACK:
		return []int{1}, true
	case FRONT_AND_BACK:
		return []int{0, 1}, true
	}
	return nil, false
}

func (c *Context) CullFace(mode Enum) {
	if !c.idle("CullFace") {
		return
	}
	if _, ok := faces(mode); !ok {
		c.setError("CullFace", INVALID_ENUM)
		return
	}
	c.cull.face = mode
	c.applyCull()
}

func (c *Context) FrontFace(mode Enum) {
	if !c.idle("FrontFace") {
		return
	}
	if mode != CW && mode != CCW {
		c.setError("FrontFace", INVALID_ENUM)
		return
	}
	c.cull.front = mode
	c.applyCull()
	c.applyPolygon()
	c.applyStencil()
}

func (c *Context) applyCull() {
	c.dev.SetCullMode(c.cull.mode())
}

func (c *Context) PolygonMode(face, mode Enum) {
	if !c.idle("PolygonMode") {
		return
	}
	sides, ok := faces(face)
	m, ok2 := polygonModes[mode]
	if !ok || !ok2 {
		c.setError("PolygonMode", INVALID_ENUM)
		return
	}
	for _, i := range sides {
		c.polygon.mode[i] = m
	}
	c.applyPolygon()
}

func (c *Context) PolygonOffset(factor, units float32) {
	if !c.idle("PolygonOffset") {
		return
	}
	c.polygon.factor, c.polygon.units = factor, units
	c.applyDepthBias()
}

func (c *Context) applyPolygon() {
	c.dev.SetPolygonMode(byWinding(c.cull.front, c.polygon.mode[0], c.polygon.mode[1]))
	c.applyDepthBias()
}

// bias returns the depth offset of polygons rasterized with mode m.
func (p polygonState) bias(m driver.PolygonMode) driver.DepthBias {
	var on bool
	switch m {
	case driver.PolygonFill:
		on = p.offset[offsetFill]
	case driver.PolygonLine:
		on = p.offset[offsetLine]
	case driver.PolygonPoint:
		on = p.offset[offsetPoint]
	}
	if !on {
		return driver.DepthBias{}
	}
	return driver.DepthBias{Factor: p.factor, Units: p.units}
}

func (c *Context) applyDepthBias() {
	front, back := c.polygon.bias(c.polygon.mode[0]), c.polygon.bias(c.polygon.mode[1])
	c.dev.SetDepthBias(byWinding(c.cull.front, front, back))
}
