// SPDX-License-Identifier: Unlicense OR MIT

package pool

import (
	"errors"
	"testing"

	"github.com/vglgo/vgl/gpu/soft"
)

func newRing(t *testing.T, size int) (*Ring, *soft.Device) {
	t.Helper()
	dev, err := soft.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(dev, size, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Release)
	return r, dev
}

func TestAlign(t *testing.T) {
	r, _ := newRing(t, 64)
	if _, err := r.Alloc(3, 1); err != nil {
		t.Fatal(err)
	}
	s, err := r.Alloc(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Offset != 4 || s.Size != 8 {
		t.Errorf("got offset %d size %d, expected 4 and 8", s.Offset, s.Size)
	}
	if got := r.Used(); got != 12 {
		t.Errorf("used %d bytes, expected 12", got)
	}
}

func TestWrap(t *testing.T) {
	r, _ := newRing(t, 16)
	if _, err := r.Alloc(12, 4); err != nil {
		t.Fatal(err)
	}
	s, err := r.Alloc(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Offset != 0 || r.Wraps() != 1 {
		t.Errorf("got offset %d after %d wraps, expected a wrap to 0", s.Offset, r.Wraps())
	}
	r.Reset()
	if r.Used() != 0 || r.Wraps() != 0 {
		t.Errorf("reset ring: used %d wraps %d", r.Used(), r.Wraps())
	}
	if _, err := r.Alloc(17, 4); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversized allocation: got %v, expected ErrTooLarge", err)
	}
}

func TestRelease(t *testing.T) {
	dev, err := soft.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(dev, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.Stats().LiveBuffers; got != 1 {
		t.Errorf("%d live buffers, expected 1", got)
	}
	r.Release()
	r.Release()
	if got := dev.Stats().LiveBuffers; got != 0 {
		t.Errorf("%d live buffers after release, expected 0", got)
	}
}
