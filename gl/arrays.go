// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"golang.org/x/mobile/exp/f32"

	"github.com/vglgo/vgl/gpu/driver"
)

// Pointer locates vertex attribute or index data: application memory,
// or a byte offset into the buffer object bound when the pointer is
// specified.
type Pointer struct {
	data   []byte
	offset int
	buffer bool
}

// Bytes points to application memory. The memory is read when draws
// are issued.
func Bytes(b []byte) Pointer {
	return Pointer{data: b}
}

// Floats points to a copy of v in device byte order.
func Floats(v ...float32) Pointer {
	return Pointer{data: floatBytes(v...)}
}

// Uint16s points to a copy of v in device byte order.
func Uint16s(v ...uint16) Pointer {
	b := make([]byte, len(v)*2)
	driver.PutUint16s(b, v)
	return Pointer{data: b}
}

// Offset points off bytes into a buffer object.
func Offset(off int) Pointer {
	return Pointer{offset: off, buffer: true}
}

func floatBytes(v ...float32) []byte {
	return f32.Bytes(driver.NativeOrder, v...)
}

// arrayDesc describes a client array.
type arrayDesc struct {
	enabled bool
	size    int
	typ     Enum
	// stride is the distance between elements in bytes, 0 for tightly
	// packed elements.
	stride int
	src    Pointer
	// buffer is the ARRAY_BUFFER binding when src was specified.
	buffer uint32
}

func typeSize(typ Enum) int {
	switch typ {
	case UNSIGNED_BYTE, BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	}
	return 4
}

// elemSize is the natural size of one element.
func (a *arrayDesc) elemSize() int {
	return a.size * typeSize(a.typ)
}

// step is the distance between elements.
func (a *arrayDesc) step() int {
	if a.stride != 0 {
		return a.stride
	}
	return a.elemSize()
}

func (u *textureUnit) array(name Enum) (*arrayDesc, bool) {
	switch name {
	case VERTEX_ARRAY:
		return &u.vertex, true
	case COLOR_ARRAY:
		return &u.color, true
	case TEXTURE_COORD_ARRAY:
		return &u.texcoord, true
	}
	return nil, false
}

// VertexPointer specifies the position array of the client active
// unit: 2 to 4 SHORT or FLOAT components.
func (c *Context) VertexPointer(size int32, typ Enum, stride int32, p Pointer) {
	c.arrayPointer("VertexPointer", &c.units[c.clientUnit].vertex, size, 2, typ, stride, p, SHORT, FLOAT)
}

// ColorPointer specifies the color array of the client active unit:
// 3 or 4 UNSIGNED_BYTE or FLOAT components.
func (c *Context) ColorPointer(size int32, typ Enum, stride int32, p Pointer) {
	c.arrayPointer("ColorPointer", &c.units[c.clientUnit].color, size, 3, typ, stride, p, UNSIGNED_BYTE, FLOAT)
}

// TexCoordPointer specifies the texture coordinate array of the
// client active unit: 1 to 4 SHORT or FLOAT components.
func (c *Context) TexCoordPointer(size int32, typ Enum, stride int32, p Pointer) {
	c.arrayPointer("TexCoordPointer", &c.units[c.clientUnit].texcoord, size, 1, typ, stride, p, SHORT, FLOAT)
}

func (c *Context) arrayPointer(op string, a *arrayDesc, size, minSize int32, typ Enum, stride int32, p Pointer, types ...Enum) {
	if !c.idle(op) {
		return
	}
	if e := checkArray(size, minSize, typ, stride, types); e != NO_ERROR {
		c.setError(op, e)
		return
	}
	if p.buffer && p.offset < 0 {
		c.setError(op, INVALID_VALUE)
		return
	}
	var buffer uint32
	if p.buffer {
		if c.lookupBuffer(c.arrayBuffer) == nil {
			c.setError(op, INVALID_OPERATION)
			return
		}
		buffer = c.arrayBuffer
	}
	*a = arrayDesc{enabled: a.enabled, size: int(size), typ: typ, stride: int(stride), src: p, buffer: buffer}
}

// checkArray validates the layout of an array of size components of
// typ, one of types.
func checkArray(size, minSize int32, typ Enum, stride int32, types []Enum) Enum {
	ok := false
	for _, t := range types {
		ok = ok || t == typ
	}
	switch {
	case !ok:
		return INVALID_ENUM
	case size < minSize || size > 4 || stride < 0:
		return INVALID_VALUE
	}
	return NO_ERROR
}
