// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Enable turns on a server side capability.
func (c *Context) Enable(cap Enum) {
	c.setCap("Enable", cap, true)
}

// Disable turns off a server side capability.
func (c *Context) Disable(cap Enum) {
	c.setCap("Disable", cap, false)
}

func (c *Context) setCap(op string, cap Enum, on bool) {
	if !c.idle(op) {
		return
	}
	switch cap {
	case DEPTH_TEST:
		c.depth.enabled = on
		c.applyDepth()
	case STENCIL_TEST:
		c.stencil.enabled = on
		c.applyStencil()
	case BLEND:
		c.blend.enabled = on
		c.applyBlend()
	case SCISSOR_TEST:
		c.scissor.enabled = on
		c.updateScissor()
	case CULL_FACE:
		c.cull.enabled = on
		c.applyCull()
	case POLYGON_OFFSET_FILL:
		c.polygon.offset[offsetFill] = on
		c.applyDepthBias()
	case POLYGON_OFFSET_LINE:
		c.polygon.offset[offsetLine] = on
		c.applyDepthBias()
	case POLYGON_OFFSET_POINT:
		c.polygon.offset[offsetPoint] = on
		c.applyDepthBias()
	case TEXTURE_2D:
		c.units[c.serverUnit].enabled = on
	case ALPHA_TEST:
		c.alpha.enabled = on
	default:
		c.setError(op, INVALID_ENUM)
	}
}

// IsEnabled reports whether a server side capability is on. It may be
// called while a batch is open.
func (c *Context) IsEnabled(cap Enum) bool {
	switch cap {
	case DEPTH_TEST:
		return c.depth.enabled
	case STENCIL_TEST:
		return c.stencil.enabled
	case BLEND:
		return c.blend.enabled
	case SCISSOR_TEST:
		return c.scissor.enabled
	case CULL_FACE:
		return c.cull.enabled
	case POLYGON_OFFSET_FILL:
		return c.polygon.offset[offsetFill]
	case POLYGON_OFFSET_LINE:
		return c.polygon.offset[offsetLine]
	case POLYGON_OFFSET_POINT:
		return c.polygon.offset[offsetPoint]
	case TEXTURE_2D:
		return c.units[c.serverUnit].enabled
	case ALPHA_TEST:
		return c.alpha.enabled
	case VERTEX_ARRAY, COLOR_ARRAY, TEXTURE_COORD_ARRAY:
		a, _ := c.units[c.clientUnit].array(cap)
		return a.enabled
	}
	c.setError("IsEnabled", INVALID_ENUM)
	return false
}

// EnableClientState enables a client array of the client active
// texture unit.
func (c *Context) EnableClientState(array Enum) {
	c.setClientState("EnableClientState", array, true)
}

// DisableClientState disables a client array of the client active
// texture unit.
func (c *Context) DisableClientState(array Enum) {
	c.setClientState("DisableClientState", array, false)
}

func (c *Context) setClientState(op string, array Enum, on bool) {
	if !c.idle(op) {
		return
	}
	a, ok := c.units[c.clientUnit].array(array)
	if !ok {
		c.setError(op, INVALID_ENUM)
		return
	}
	a.enabled = on
}
