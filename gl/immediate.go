// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"image/color"

	"github.com/vglgo/vgl/internal/f32color"
)

// batch accumulates the vertices of Begin/End pairs.
type batch struct {
	prim primitive
	// start is the first vertex of the open batch. Vertices before it
	// are left over from batches that ended with incomplete groups.
	start int
	pos   []float32
	color []float32
	uv    []float32
	// textured is set when a texture coordinate was specified during
	// the batch.
	textured bool
}

func (b *batch) len() int {
	return len(b.pos) / 3
}

// purge drops every accumulated vertex, keeping the storage.
func (b *batch) purge() {
	b.start = 0
	b.pos = b.pos[:0]
	b.color = b.color[:0]
	b.uv = b.uv[:0]
	b.textured = false
}

// Begin opens a batch of vertices drawn as mode.
func (c *Context) Begin(mode Enum) {
	if !c.idle("Begin") {
		return
	}
	p, ok := primitives[mode]
	if !ok {
		c.setError("Begin", INVALID_ENUM)
		return
	}
	c.phase = phaseBatching
	c.batch.prim = p
	c.batch.start = c.batch.len()
	c.batch.textured = false
}

// End closes the batch and draws it. A batch of incomplete vertex
// groups draws nothing and stays accumulated until the next batch that
// draws.
func (c *Context) End() {
	if c.phase != phaseBatching {
		c.setError("End", INVALID_OPERATION)
		return
	}
	c.phase = phaseIdle
	b := &c.batch
	n := b.len() - b.start
	if !b.prim.complete(n) {
		return
	}
	defer b.purge()
	if c.culled(b.prim) {
		return
	}
	if n > maxVertices {
		c.setError("End", INVALID_VALUE)
		return
	}
	c.drawBatch(n)
}

func (c *Context) drawBatch(n int) {
	b := &c.batch
	u := &c.units[c.serverUnit]
	tex := u.drawTexture(b.textured)
	v := variantRGBA
	if tex != nil {
		v = variantTextureColor
	}
	pos, ok := c.floatAttrib("End", "pos", b.pos[b.start*3:], 3)
	if !ok {
		return
	}
	attribs := []attrib{pos}
	if tex != nil {
		uv, ok := c.floatAttrib("End", "texcoord", b.uv[b.start*2:], 2)
		if !ok {
			return
		}
		attribs = append(attribs, uv)
	}
	col, ok := c.floatAttrib("End", "color", b.color[b.start*4:], 4)
	if !ok {
		return
	}
	attribs = append(attribs, col)
	idx := b.prim.indices(n, nil)
	indices, ok := c.indexStream("End", idx)
	if !ok {
		return
	}
	c.submit("End", &drawCall{
		mode:    b.prim.mode,
		indices: indices,
		count:   len(idx),
		variant: v,
		attribs: attribs,
		unit:    u,
		texture: tex,
	})
}

// Vertex3f appends a vertex with the current color and texture
// coordinate to the open batch.
func (c *Context) Vertex3f(x, y, z float32) {
	if c.phase != phaseBatching {
		c.setError("Vertex3f", INVALID_OPERATION)
		return
	}
	b := &c.batch
	col := c.color.Array()
	b.pos = append(b.pos, x, y, z)
	b.color = append(b.color, col[:]...)
	b.uv = append(b.uv, c.texcoord[:]...)
}

// Vertex2f appends a vertex at depth 0.5.
func (c *Context) Vertex2f(x, y float32) {
	c.Vertex3f(x, y, 0.5)
}

func (c *Context) Vertex3fv(v []float32) {
	if len(v) < 3 {
		c.setError("Vertex3fv", INVALID_VALUE)
		return
	}
	c.Vertex3f(v[0], v[1], v[2])
}

// Color4f sets the current color. Components are clamped to [0, 1].
func (c *Context) Color4f(r, g, b, a float32) {
	c.color.R, c.color.G, c.color.B, c.color.A = r, g, b, a
	c.color = c.color.Clamp()
}

func (c *Context) Color3f(r, g, b float32) {
	c.Color4f(r, g, b, 1)
}

func (c *Context) Color4fv(v []float32) {
	if len(v) < 4 {
		c.setError("Color4fv", INVALID_VALUE)
		return
	}
	c.Color4f(v[0], v[1], v[2], v[3])
}

func (c *Context) Color4ub(r, g, b, a uint8) {
	c.color = f32color.FromNRGBA(color.NRGBA{R: r, G: g, B: b, A: a})
}

func (c *Context) Color3ub(r, g, b uint8) {
	c.Color4ub(r, g, b, 0xff)
}

// TexCoord2f sets the current texture coordinate. Inside a batch it
// also marks the batch textured.
func (c *Context) TexCoord2f(s, t float32) {
	c.texcoord = [2]float32{s, t}
	if c.phase == phaseBatching {
		c.batch.textured = true
	}
}

func (c *Context) TexCoord2fv(v []float32) {
	if len(v) < 2 {
		c.setError("TexCoord2fv", INVALID_VALUE)
		return
	}
	c.TexCoord2f(v[0], v[1])
}

// ArrayElement appends element i of the enabled client arrays to the
// open batch. The color and texture coordinate arrays update the
// current color and texture coordinate.
func (c *Context) ArrayElement(i int32) {
	if c.phase != phaseBatching {
		c.setError("ArrayElement", INVALID_OPERATION)
		return
	}
	u := &c.units[c.clientUnit]
	if u.color.enabled {
		col, e := c.readElement(&u.color, int(i))
		if e != NO_ERROR {
			c.setError("ArrayElement", e)
			return
		}
		c.Color4f(col[0], col[1], col[2], col[3])
	}
	if u.texcoord.enabled {
		tc, e := c.readElement(&u.texcoord, int(i))
		if e != NO_ERROR {
			c.setError("ArrayElement", e)
			return
		}
		c.TexCoord2f(tc[0], tc[1])
	}
	if u.vertex.enabled {
		pos, e := c.readElement(&u.vertex, int(i))
		if e != NO_ERROR {
			c.setError("ArrayElement", e)
			return
		}
		c.Vertex3f(pos[0], pos[1], pos[2])
	}
}
