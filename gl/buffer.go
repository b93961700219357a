// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

const (
	// BufferBase is the first buffer object name. Names are BufferBase
	// plus a slot index.
	BufferBase = 0xa000
	NumBuffers = 256
)

type bufferObject struct {
	used bool
	// buf is nil until the first BufferData.
	buf driver.Buffer
}

func (b *bufferObject) release() {
	if b.buf != nil {
		b.buf.Release()
	}
	*b = bufferObject{}
}

// lookupBuffer returns the object of a buffer name, or nil if the name
// is out of range or not generated.
func (c *Context) lookupBuffer(name uint32) *bufferObject {
	if name < BufferBase || name >= BufferBase+NumBuffers {
		return nil
	}
	b := &c.buffers[name-BufferBase]
	if !b.used {
		return nil
	}
	return b
}

func validBufferName(name uint32) bool {
	return name == 0 || (name >= BufferBase && name < BufferBase+NumBuffers)
}

// GenBuffers returns up to n unused buffer names.
func (c *Context) GenBuffers(n int) []uint32 {
	if !c.idle("GenBuffers") {
		return nil
	}
	if n < 0 {
		c.setError("GenBuffers", INVALID_VALUE)
		return nil
	}
	var names []uint32
	for i := range c.buffers {
		if len(names) == n {
			break
		}
		if b := &c.buffers[i]; !b.used {
			b.used = true
			names = append(names, BufferBase+uint32(i))
		}
	}
	if len(names) < n {
		c.setError("GenBuffers", OUT_OF_MEMORY)
	}
	return names
}

// BindBuffer binds a buffer name to ARRAY_BUFFER or
// ELEMENT_ARRAY_BUFFER. Name 0 unbinds.
func (c *Context) BindBuffer(target Enum, buffer uint32) {
	if !c.idle("BindBuffer") {
		return
	}
	if !validBufferName(buffer) {
		c.setError("BindBuffer", INVALID_VALUE)
		return
	}
	switch target {
	case ARRAY_BUFFER:
		c.arrayBuffer = buffer
	case ELEMENT_ARRAY_BUFFER:
		c.elementBuffer = buffer
	default:
		c.setError("BindBuffer", INVALID_ENUM)
		return
	}
	if buffer != 0 {
		c.buffers[buffer-BufferBase].used = true
	}
}

func (c *Context) boundBuffer(op string, target Enum) *bufferObject {
	var name uint32
	switch target {
	case ARRAY_BUFFER:
		name = c.arrayBuffer
	case ELEMENT_ARRAY_BUFFER:
		name = c.elementBuffer
	default:
		c.setError(op, INVALID_ENUM)
		return nil
	}
	b := c.lookupBuffer(name)
	if b == nil {
		c.setError(op, INVALID_OPERATION)
	}
	return b
}

// BufferData allocates size bytes for the buffer bound to target and
// copies data into it. Nil data leaves the storage zeroed. Previous
// storage is released.
func (c *Context) BufferData(target Enum, size int, usage Enum, data []byte) {
	if !c.idle("BufferData") {
		return
	}
	if usage != STREAM_DRAW && usage != STATIC_DRAW && usage != DYNAMIC_DRAW {
		c.setError("BufferData", INVALID_ENUM)
		return
	}
	if size < 0 || (data != nil && len(data) < size) {
		c.setError("BufferData", INVALID_VALUE)
		return
	}
	b := c.boundBuffer("BufferData", target)
	if b == nil {
		return
	}
	buf, err := c.dev.NewBuffer(size)
	if err != nil {
		c.log.Error("buffer allocation failed", "size", size, "err", err)
		c.setError("BufferData", OUT_OF_MEMORY)
		return
	}
	copy(buf.Bytes(), data)
	if b.buf != nil {
		b.buf.Release()
	}
	b.buf = buf
}

// BufferSubData replaces part of the storage of the buffer bound to
// target.
func (c *Context) BufferSubData(target Enum, offset int, data []byte) {
	if !c.idle("BufferSubData") {
		return
	}
	b := c.boundBuffer("BufferSubData", target)
	if b == nil {
		return
	}
	if b.buf == nil {
		c.setError("BufferSubData", INVALID_OPERATION)
		return
	}
	if offset < 0 || offset+len(data) > b.buf.Size() {
		c.setError("BufferSubData", INVALID_VALUE)
		return
	}
	copy(b.buf.Bytes()[offset:], data)
}

// DeleteBuffers releases the named buffers and unbinds them. Name 0
// is ignored.
func (c *Context) DeleteBuffers(buffers []uint32) {
	if !c.idle("DeleteBuffers") {
		return
	}
	for _, name := range buffers {
		if !validBufferName(name) {
			c.setError("DeleteBuffers", INVALID_VALUE)
			continue
		}
		if name == 0 {
			continue
		}
		c.buffers[name-BufferBase].release()
		if c.arrayBuffer == name {
			c.arrayBuffer = 0
		}
		if c.elementBuffer == name {
			c.elementBuffer = 0
		}
	}
}
