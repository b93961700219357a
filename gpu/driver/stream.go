// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/cpu"
)

// NativeOrder is the byte order of vertex, index and uniform data in
// GPU-visible memory.
var NativeOrder binary.ByteOrder = nativeOrder()

func nativeOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Stream is a byte range of a Buffer. It replaces raw pointers into
// GPU memory: a Stream is only constructed through NewStream or Slice,
// which validate it against the buffer size.
type Stream struct {
	Buffer Buffer
	Offset int
	Size   int
}

// NewStream returns the stream of size bytes starting at off in b.
func NewStream(b Buffer, off, size int) (Stream, error) {
	if b == nil {
		return Stream{}, fmt.Errorf("driver: stream of nil buffer")
	}
	if off < 0 || size < 0 || off+size > b.Size() {
		return Stream{}, fmt.Errorf("%w: [%d:%d] of %d bytes", ErrOutOfBounds, off, off+size, b.Size())
	}
	return Stream{Buffer: b, Offset: off, Size: size}, nil
}

// Slice returns a sub-range of s, relative to the start of s.
func (s Stream) Slice(off, size int) (Stream, error) {
	if off < 0 || size < 0 || off+size > s.Size {
		return Stream{}, fmt.Errorf("%w: [%d:%d] of %d byte stream", ErrOutOfBounds, off, off+size, s.Size)
	}
	return Stream{Buffer: s.Buffer, Offset: s.Offset + off, Size: size}, nil
}

// Bytes returns the CPU mapping of the stream.
func (s Stream) Bytes() []byte {
	if s.Buffer == nil {
		return nil
	}
	return s.Buffer.Bytes()[s.Offset : s.Offset+s.Size]
}

// Valid reports whether s refers to a buffer.
func (s Stream) Valid() bool {
	return s.Buffer != nil
}

// PutUint16s encodes indices into dst in NativeOrder.
func PutUint16s(dst []byte, indices []uint16) {
	for i, v := range indices {
		NativeOrder.PutUint16(dst[i*2:], v)
	}
}
