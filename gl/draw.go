// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

// drawCall is a draw with every stream built.
type drawCall struct {
	mode    driver.DrawMode
	indices driver.Stream
	count   int
	variant variant
	attribs []attrib
	// unit and texture are set for textured variants.
	unit    *textureUnit
	texture driver.Texture
}

// submit resolves the programs of d and issues it.
func (c *Context) submit(op string, d *drawCall) {
	var layout driver.VertexLayout
	for i, a := range d.attribs {
		in := a.input
		in.Stream = i
		layout.Inputs = append(layout.Inputs, in)
		layout.Strides = append(layout.Strides, a.stride)
	}
	vp, err := c.progs.vertexProgram(d.variant, layout)
	if err != nil {
		c.log.Error("vertex program patching failed", "op", op, "variant", d.variant, "err", err)
		c.setError(op, OUT_OF_MEMORY)
		return
	}
	c.dev.BindVertexProgram(vp)
	c.dev.BindFragmentProgram(c.progs.frag[d.variant])
	for i, a := range d.attribs {
		c.dev.BindVertexStream(i, a.stream)
	}
	mvp := c.mvp()
	c.dev.SetVertexUniforms(mvp[:])
	if d.variant.textured() {
		u := newUniforms(&variantShaders[d.variant].frag)
		tint := c.color.Array()
		u.set("alphaRef", c.alpha.ref)
		u.set("alphaOp", float32(c.alpha.op()))
		u.set("texEnv", float32(d.unit.env))
		u.set("tint", tint[:]...)
		u.set("texEnvColor", d.unit.envColor[:]...)
		c.dev.SetFragmentUniforms(u.data)
		c.dev.BindTexture(0, d.texture)
	}
	c.dev.Draw(d.mode, d.indices, d.count)
}

// drawTexture returns the texture a draw through u samples, or nil
// for an untextured draw.
func (u *textureUnit) drawTexture(texcoords bool) driver.Texture {
	if !texcoords || !u.enabled {
		return nil
	}
	return u.texture()
}

// DrawArrays draws count elements of the enabled client arrays,
// starting at element first.
func (c *Context) DrawArrays(mode Enum, first, count int32) {
	if !c.idle("DrawArrays") {
		return
	}
	p, ok := primitives[mode]
	if !ok {
		c.setError("DrawArrays", INVALID_ENUM)
		return
	}
	if first < 0 || count < 0 || count > maxVertices {
		c.setError("DrawArrays", INVALID_VALUE)
		return
	}
	if c.culled(p) || int(count) < p.min {
		return
	}
	idx := p.indices(int(count), nil)
	c.drawArrays("DrawArrays", p.mode, int(first), int(count), idx, driver.Stream{})
}

// DrawElements draws count elements of the enabled client arrays
// selected by UNSIGNED_SHORT indices. Offset pointers address the
// buffer bound to ELEMENT_ARRAY_BUFFER.
func (c *Context) DrawElements(mode Enum, count int32, typ Enum, indices Pointer) {
	if !c.idle("DrawElements") {
		return
	}
	p, ok := primitives[mode]
	if !ok || typ != UNSIGNED_SHORT {
		c.setError("DrawElements", INVALID_ENUM)
		return
	}
	if count < 0 {
		c.setError("DrawElements", INVALID_VALUE)
		return
	}
	raw, off := indices.data, 0
	var buf driver.Buffer
	if indices.buffer {
		b := c.lookupBuffer(c.elementBuffer)
		if b == nil || b.buf == nil {
			c.setError("DrawElements", INVALID_OPERATION)
			return
		}
		raw, buf, off = b.buf.Bytes(), b.buf, indices.offset
	}
	size := int(count) * 2
	if off < 0 || off+size > len(raw) {
		c.setError("DrawElements", INVALID_VALUE)
		return
	}
	if c.culled(p) || int(count) < p.min {
		return
	}
	idx := make([]uint16, count)
	for i := range idx {
		idx[i] = driver.NativeOrder.Uint16(raw[off+i*2:])
	}
	var direct driver.Stream
	if buf != nil && p.expand == nil {
		direct, _ = driver.NewStream(buf, off, size)
	}
	nverts := int(maxIndex(idx)) + 1
	c.drawArrays("DrawElements", p.mode, 0, nverts, p.indices(int(count), idx), direct)
}

// drawArrays draws through idx, or the direct index stream if valid,
// the nverts elements of the client arrays starting at first.
func (c *Context) drawArrays(op string, mode driver.DrawMode, first, nverts int, idx []uint16, direct driver.Stream) {
	u := &c.units[c.clientUnit]
	if !u.vertex.enabled {
		return
	}
	tex := u.drawTexture(u.texcoord.enabled)
	colorSize := 0
	if u.color.enabled {
		colorSize = u.color.size
	}
	v := selectVariant(tex != nil, colorSize)
	pos, ok := c.buildAttrib(op, "pos", &u.vertex, first, nverts, c.transient, true)
	if !ok {
		return
	}
	attribs := []attrib{pos}
	if tex != nil {
		tc, ok := c.buildAttrib(op, "texcoord", &u.texcoord, first, nverts, c.transient, true)
		if !ok {
			return
		}
		attribs = append(attribs, tc)
	}
	switch {
	case colorSize != 0:
		col, ok := c.buildAttrib(op, "color", &u.color, first, nverts, c.transient, true)
		if !ok {
			return
		}
		attribs = append(attribs, col)
	case !v.textured():
		col, ok := c.constantColor(op)
		if !ok {
			return
		}
		attribs = append(attribs, col)
	}
	indices := direct
	if !indices.Valid() {
		if indices, ok = c.indexStream(op, idx); !ok {
			return
		}
	}
	c.submit(op, &drawCall{
		mode:    mode,
		indices: indices,
		count:   len(idx),
		variant: v,
		attribs: attribs,
		unit:    u,
		texture: tex,
	})
}
