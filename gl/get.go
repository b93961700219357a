// SPDX-License-Identifier: Unlicense OR MIT

package gl

// GetFloatv copies the state named by pname into params.
func (c *Context) GetFloatv(pname Enum, params []float32) {
	var v []float32
	switch pname {
	case MODELVIEW_MATRIX:
		v = c.modelview.m[:]
	case PROJECTION_MATRIX:
		v = c.projection.m[:]
	case CURRENT_COLOR:
		col := c.color.Array()
		v = col[:]
	case COLOR_CLEAR_VALUE:
		v = c.clear.color[:]
	case DEPTH_CLEAR_VALUE:
		v = []float32{c.clear.depth}
	case DEPTH_RANGE:
		v = []float32{c.view.near, c.view.far}
	case VIEWPORT:
		v = []float32{float32(c.view.x), float32(c.view.y), float32(c.view.w), float32(c.view.h)}
	default:
		c.setError("GetFloatv", INVALID_ENUM)
		return
	}
	if len(params) < len(v) {
		c.setError("GetFloatv", INVALID_VALUE)
		return
	}
	copy(params, v)
}
