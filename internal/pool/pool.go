// SPDX-License-Identifier: Unlicense OR MIT

// Package pool implements the per-frame ring allocator for transient
// vertex and index streams.
package pool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vglgo/vgl/gpu/driver"
)

// ErrTooLarge is returned for allocations larger than the pool.
var ErrTooLarge = errors.New("pool: allocation larger than pool")

// Ring hands out sub-ranges of a single device buffer. Allocations
// are valid until the next frame boundary; when the tail of the
// buffer is exhausted mid-frame, allocation wraps to the start.
type Ring struct {
	buf   driver.Buffer
	off   int
	wraps int
	log   *slog.Logger
}

// New allocates a ring of size bytes from dev.
func New(dev driver.Device, size int, log *slog.Logger) (*Ring, error) {
	buf, err := dev.NewBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Ring{buf: buf, log: log}, nil
}

// Alloc returns a stream of size bytes aligned to align.
func (r *Ring) Alloc(size, align int) (driver.Stream, error) {
	if align < 1 {
		align = 1
	}
	if size > r.buf.Size() {
		return driver.Stream{}, fmt.Errorf("%w: %d > %d", ErrTooLarge, size, r.buf.Size())
	}
	off := (r.off + align - 1) / align * align
	if off+size > r.buf.Size() {
		r.wraps++
		r.log.Warn("transient pool wrapped within a frame", "size", size, "capacity", r.buf.Size())
		off = 0
	}
	r.off = off + size
	return driver.NewStream(r.buf, off, size)
}

// Reset marks the frame boundary. Every allocation handed out before
// is invalid afterwards.
func (r *Ring) Reset() {
	r.off = 0
	r.wraps = 0
}

// Used returns the number of bytes allocated in the current frame
// since the last wrap.
func (r *Ring) Used() int {
	return r.off
}

// Wraps returns the number of wrap-arounds in the current frame.
func (r *Ring) Wraps() int {
	return r.wraps
}

func (r *Ring) Release() {
	if r.buf != nil {
		r.buf.Release()
		r.buf = nil
	}
}
