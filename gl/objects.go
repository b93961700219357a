// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

// object is an array packed into device memory when it is uploaded.
type object struct {
	buf    driver.Buffer
	attrib attrib
	count  int
}

// objectSet holds the array objects of a texture unit.
type objectSet struct {
	vertex, color, texcoord, index object
}

func (o *object) release() {
	if o.buf != nil {
		o.buf.Release()
	}
	*o = object{}
}

func (s *objectSet) release() {
	s.vertex.release()
	s.color.release()
	s.texcoord.release()
	s.index.release()
}

// VertexObject packs count positions from application memory into a
// position object of the client active unit.
func (c *Context) VertexObject(size int32, typ Enum, stride, count int32, p Pointer) {
	c.packObject("VertexObject", &c.units[c.clientUnit].objects.vertex, "pos", size, 2, typ, stride, count, p, SHORT, FLOAT)
}

// ColorObject packs count colors into a color object of the client
// active unit.
func (c *Context) ColorObject(size int32, typ Enum, stride, count int32, p Pointer) {
	c.packObject("ColorObject", &c.units[c.clientUnit].objects.color, "color", size, 3, typ, stride, count, p, UNSIGNED_BYTE, FLOAT)
}

// TexCoordObject packs count texture coordinates into a texture
// coordinate object of the client active unit.
func (c *Context) TexCoordObject(size int32, typ Enum, stride, count int32, p Pointer) {
	c.packObject("TexCoordObject", &c.units[c.clientUnit].objects.texcoord, "texcoord", size, 1, typ, stride, count, p, SHORT, FLOAT)
}

func (c *Context) packObject(op string, o *object, name string, size, minSize int32, typ Enum, stride, count int32, p Pointer, types ...Enum) {
	if !c.idle(op) {
		return
	}
	if e := checkArray(size, minSize, typ, stride, types); e != NO_ERROR {
		c.setError(op, e)
		return
	}
	if count < 0 {
		c.setError(op, INVALID_VALUE)
		return
	}
	if p.buffer {
		c.setError(op, INVALID_OPERATION)
		return
	}
	a := arrayDesc{size: int(size), typ: typ, stride: int(stride), src: p}
	var buf driver.Buffer
	alloc := func(size int) (driver.Stream, error) {
		b, err := c.dev.NewBuffer(size)
		if err != nil {
			return driver.Stream{}, err
		}
		buf = b
		return driver.NewStream(b, 0, size)
	}
	at, ok := c.buildAttrib(op, name, &a, 0, int(count), alloc, false)
	if !ok {
		if buf != nil {
			buf.Release()
		}
		return
	}
	o.release()
	*o = object{buf: buf, attrib: at, count: int(count)}
}

// IndexObject packs count UNSIGNED_SHORT indices into the index object
// of the client active unit. stride is the distance between indices in
// bytes, 0 for tightly packed indices.
func (c *Context) IndexObject(typ Enum, stride, count int32, p Pointer) {
	const op = "IndexObject"
	if !c.idle(op) {
		return
	}
	if typ != UNSIGNED_SHORT {
		c.setError(op, INVALID_ENUM)
		return
	}
	if stride < 0 || count < 0 {
		c.setError(op, INVALID_VALUE)
		return
	}
	if p.buffer {
		c.setError(op, INVALID_OPERATION)
		return
	}
	step := max(int(stride), 2)
	n := int(count)
	if n > 0 && (n-1)*step+2 > len(p.data) {
		c.setError(op, INVALID_VALUE)
		return
	}
	buf, err := c.dev.NewBuffer(n * 2)
	if err != nil {
		c.log.Error("index object allocation failed", "count", n, "err", err)
		c.setError(op, OUT_OF_MEMORY)
		return
	}
	dst := buf.Bytes()
	for i := 0; i < n; i++ {
		copy(dst[i*2:i*2+2], p.data[i*step:i*step+2])
	}
	s, _ := driver.NewStream(buf, 0, n*2)
	o := &c.units[c.clientUnit].objects.index
	o.release()
	*o = object{buf: buf, attrib: attrib{stream: s, stride: 2}, count: n}
}

// DrawObjects draws count indices of the index object through the
// array objects of the client active unit. A bound CustomProgram
// draws instead of the built-in programs; implicitWVP is passed on to
// it.
func (c *Context) DrawObjects(mode Enum, count int32, implicitWVP bool) {
	const op = "DrawObjects"
	if !c.idle(op) {
		return
	}
	p, ok := primitives[mode]
	if !ok {
		c.setError(op, INVALID_ENUM)
		return
	}
	u := &c.units[c.clientUnit]
	objs := &u.objects
	if objs.index.buf == nil || objs.vertex.buf == nil {
		c.setError(op, INVALID_OPERATION)
		return
	}
	if count < 0 || int(count) > objs.index.count {
		c.setError(op, INVALID_VALUE)
		return
	}
	if c.culled(p) || int(count) < p.min {
		return
	}
	n := int(count)
	indices, _ := objs.index.attrib.stream.Slice(0, n*2)
	if p.expand != nil {
		raw := indices.Bytes()
		idx := make([]uint16, n)
		for i := range idx {
			idx[i] = driver.NativeOrder.Uint16(raw[i*2:])
		}
		idx = p.expand(n, idx)
		if indices, ok = c.indexStream(op, idx); !ok {
			return
		}
		n = len(idx)
	}
	tex := u.drawTexture(u.texcoord.enabled && objs.texcoord.buf != nil)
	hasColor := u.color.enabled && objs.color.buf != nil
	if c.custom != nil {
		d := CustomDraw{
			Mode:        p.mode,
			Count:       n,
			Indices:     indices,
			Vertex:      objs.vertex.attrib.custom(),
			Texture:     tex,
			MVP:         c.mvp(),
			ImplicitWVP: implicitWVP,
		}
		if tex != nil {
			d.TexCoord = objs.texcoord.attrib.custom()
		}
		if hasColor {
			d.Color = objs.color.attrib.custom()
		}
		if err := c.custom.Draw(c.dev, d); err != nil {
			c.log.Error("custom program draw failed", "err", err)
			c.setError(op, INVALID_OPERATION)
		}
		return
	}
	attribs := []attrib{objs.vertex.attrib}
	if tex != nil {
		attribs = append(attribs, objs.texcoord.attrib)
	}
	colorSize := 0
	switch {
	case hasColor:
		colorSize = objs.color.attrib.input.Size
		attribs = append(attribs, objs.color.attrib)
	case tex == nil:
		col, ok := c.constantColor(op)
		if !ok {
			return
		}
		attribs = append(attribs, col)
	}
	c.submit(op, &drawCall{
		mode:    p.mode,
		indices: indices,
		count:   n,
		variant: selectVariant(tex != nil, colorSize),
		attribs: attribs,
		unit:    u,
		texture: tex,
	})
}
