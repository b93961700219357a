// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/vglgo/vgl/gpu/driver"
)

// attrib is a vertex stream ready for binding.
type attrib struct {
	stream driver.Stream
	// input describes one element; its Stream index is assigned when
	// the layout is assembled.
	input  driver.InputDesc
	stride int
}

type allocFunc func(size int) (driver.Stream, error)

// transient allocates per-frame stream memory.
func (c *Context) transient(size int) (driver.Stream, error) {
	return c.pool.Alloc(size, 4)
}

// vertexFormat returns the device format of an array type and whether
// the device reads the type as is.
func vertexFormat(typ Enum) (driver.VertexFormat, bool) {
	switch typ {
	case FLOAT:
		return driver.FormatF32, true
	case UNSIGNED_BYTE:
		return driver.FormatU8N, true
	}
	return driver.FormatF32, false
}

// source returns the memory a arrays reads from, the device buffer
// behind it, if any, and the offset of element 0.
func (c *Context) source(a *arrayDesc) ([]byte, driver.Buffer, int, Enum) {
	if !a.src.buffer {
		return a.src.data, nil, 0, NO_ERROR
	}
	b := c.lookupBuffer(a.buffer)
	if b == nil || b.buf == nil {
		return nil, nil, 0, INVALID_OPERATION
	}
	return b.buf.Bytes(), b.buf, a.src.offset, NO_ERROR
}

// buildAttrib returns a stream holding count elements of a, starting
// at element first. Arrays in buffer objects whose type the device
// reads directly are bound in place when direct is set. Other arrays
// are copied to memory from alloc: in bulk when tightly packed, else
// element by element.
func (c *Context) buildAttrib(op, name string, a *arrayDesc, first, count int, alloc allocFunc, direct bool) (attrib, bool) {
	data, buf, base, e := c.source(a)
	if e != NO_ERROR {
		c.setError(op, e)
		return attrib{}, false
	}
	format, native := vertexFormat(a.typ)
	natural, step := a.elemSize(), a.step()
	start := base + first*step
	span := 0
	if count > 0 {
		span = (count-1)*step + natural
	}
	if start < 0 || start+span > len(data) {
		c.setError(op, INVALID_VALUE)
		return attrib{}, false
	}
	in := driver.InputDesc{Name: name, Format: format, Size: a.size}
	if direct && buf != nil && native {
		s, err := driver.NewStream(buf, start, span)
		if err != nil {
			c.setError(op, INVALID_VALUE)
			return attrib{}, false
		}
		return attrib{stream: s, input: in, stride: step}, true
	}
	elem := a.size * format.Size()
	s, ok := c.alloc(op, alloc, count*elem)
	if !ok {
		return attrib{}, false
	}
	dst := s.Bytes()
	switch {
	case native && step == natural:
		copy(dst, data[start:start+span])
	case native:
		for i := 0; i < count; i++ {
			src := start + i*step
			copy(dst[i*elem:(i+1)*elem], data[src:src+natural])
		}
	default:
		for i := 0; i < count; i++ {
			src := data[start+i*step:]
			out := dst[i*elem:]
			for k := 0; k < a.size; k++ {
				v := int16(driver.NativeOrder.Uint16(src[k*2:]))
				driver.NativeOrder.PutUint32(out[k*4:], math.Float32bits(float32(v)))
			}
		}
	}
	return attrib{stream: s, input: in, stride: elem}, true
}

func (c *Context) alloc(op string, alloc allocFunc, size int) (driver.Stream, bool) {
	s, err := alloc(size)
	if err != nil {
		c.log.Error("stream allocation failed", "op", op, "size", size, "err", err)
		c.setError(op, OUT_OF_MEMORY)
		return driver.Stream{}, false
	}
	return s, true
}

// floatAttrib copies vectors of size floats to a transient stream.
func (c *Context) floatAttrib(op, name string, v []float32, size int) (attrib, bool) {
	s, ok := c.alloc(op, c.transient, len(v)*4)
	if !ok {
		return attrib{}, false
	}
	dst := s.Bytes()
	for i, f := range v {
		driver.NativeOrder.PutUint32(dst[i*4:], math.Float32bits(f))
	}
	in := driver.InputDesc{Name: name, Format: driver.FormatF32, Size: size}
	return attrib{stream: s, input: in, stride: size * 4}, true
}

// constantColor returns a color stream repeating the current color
// for every vertex.
func (c *Context) constantColor(op string) (attrib, bool) {
	col := c.color.Array()
	a, ok := c.floatAttrib(op, "color", col[:], 4)
	a.stride = 0
	return a, ok
}

// indexStream copies indices to a transient stream.
func (c *Context) indexStream(op string, idx []uint16) (driver.Stream, bool) {
	s, ok := c.alloc(op, c.transient, len(idx)*2)
	if !ok {
		return driver.Stream{}, false
	}
	driver.PutUint16s(s.Bytes(), idx)
	return s, true
}

func maxIndex[T constraints.Unsigned](idx []T) T {
	var m T
	for _, i := range idx {
		m = max(m, i)
	}
	return m
}

// readElement returns element i of a as a vector, missing components
// defaulting to (0, 0, 0, 1).
func (c *Context) readElement(a *arrayDesc, i int) ([4]float32, Enum) {
	v := [4]float32{0, 0, 0, 1}
	data, _, base, e := c.source(a)
	if e != NO_ERROR {
		return v, e
	}
	off := base + i*a.step()
	if i < 0 || off+a.elemSize() > len(data) {
		return v, INVALID_VALUE
	}
	src := data[off:]
	for k := 0; k < a.size; k++ {
		switch a.typ {
		case UNSIGNED_BYTE:
			v[k] = float32(src[k]) / 0xff
		case SHORT:
			v[k] = float32(int16(driver.NativeOrder.Uint16(src[k*2:])))
		default:
			v[k] = math.Float32frombits(driver.NativeOrder.Uint32(src[k*4:]))
		}
	}
	return v, NO_ERROR
}
