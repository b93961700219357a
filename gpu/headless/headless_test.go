// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"image"
	"image/color"
	"testing"

	"github.com/vglgo/vgl/gl"
)

func TestHeadless(t *testing.T) {
	w, release := newTestWindow(t)
	defer release()

	sz := w.Size()
	col := color.NRGBA{A: 0xff, R: 0xca, G: 0xfe}
	err := w.Frame(func(c *gl.Context) {
		c.ClearColor(float32(col.R)/0xff, float32(col.G)/0xff, float32(col.B)/0xff, 1)
		c.Clear(gl.COLOR_BUFFER_BIT)
	})
	if err != nil {
		t.Fatal(err)
	}

	img := screenshot(t, w)
	if isz := img.Bounds().Size(); isz != sz {
		t.Errorf("got %v screenshot, expected %v", isz, sz)
	}
	if got := img.RGBAAt(0, 0); got != rgba(col) {
		t.Errorf("got color %v, expected %v", got, rgba(col))
	}
}

func TestClipping(t *testing.T) {
	w, release := newTestWindow(t)
	defer release()

	col := color.NRGBA{A: 0xff, R: 0xca, G: 0xfe}
	col2 := color.NRGBA{A: 0xff, G: 0xfe}
	err := w.Frame(func(c *gl.Context) {
		c.Clear(gl.COLOR_BUFFER_BIT)
		c.Enable(gl.SCISSOR_TEST)
		// Window y points up: the region covers rows 50-250 from the top.
		c.Scissor(50, int32(w.Size().Y)-250, 200, 200)
		fill(c, col)
		c.Scissor(100, int32(w.Size().Y)-350, 250, 250)
		fill(c, col2)
	})
	if err != nil {
		t.Fatal(err)
	}

	img := screenshot(t, w)
	if *dumpImages {
		if err := saveImage("clip.png", img); err != nil {
			t.Fatal(err)
		}
	}
	var bg color.RGBA
	tests := []struct {
		x, y  int
		color color.RGBA
	}{
		{60, 60, rgba(col)},
		{120, 120, rgba(col2)},
		{300, 300, rgba(col2)},
		{30, 30, bg},
		{360, 360, bg},
	}
	for _, test := range tests {
		if got := img.RGBAAt(test.x, test.y); got != test.color {
			t.Errorf("(%d,%d): got color %v, expected %v", test.x, test.y, got, test.color)
		}
	}
}

func TestDepth(t *testing.T) {
	w, release := newTestWindow(t)
	defer release()

	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	err := w.Frame(func(c *gl.Context) {
		c.Enable(gl.DEPTH_TEST)
		c.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		// Red is drawn last but further away.
		rect(c, blue, -1, -1, 0, 1, -0.5)
		rect(c, red, -1, -1, 1, 0, 0.5)
	})
	if err != nil {
		t.Fatal(err)
	}

	img := screenshot(t, w)
	if *dumpImages {
		if err := saveImage("depth.png", img); err != nil {
			t.Fatal(err)
		}
	}
	sz := w.Size()
	tests := []struct {
		x, y  int
		color color.NRGBA
	}{
		{sz.X / 4, sz.Y * 3 / 4, blue},
		{sz.X * 3 / 4, sz.Y * 3 / 4, red},
		{sz.X / 4, sz.Y / 4, blue},
	}
	for _, test := range tests {
		if got := img.RGBAAt(test.x, test.y); got != rgba(test.color) {
			t.Errorf("(%d,%d): got color %v, expected %v", test.x, test.y, got, rgba(test.color))
		}
	}
}

func TestFrameError(t *testing.T) {
	w, release := newTestWindow(t)
	defer release()
	err := w.Frame(func(c *gl.Context) {
		c.Enable(0x1234)
	})
	if err == nil {
		t.Error("invalid capability did not fail the frame")
	}
	if err := w.Frame(func(c *gl.Context) {}); err != nil {
		t.Errorf("error slot not cleared: %v", err)
	}
}

func TestDefaultSize(t *testing.T) {
	w, err := NewWindow(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()
	if got, exp := w.Size(), (image.Point{X: 960, Y: 544}); got != exp {
		t.Errorf("got size %v, expected %v", got, exp)
	}
}

func fill(c *gl.Context, col color.NRGBA) {
	rect(c, col, -1, -1, 1, 1, 0)
}

func rect(c *gl.Context, col color.NRGBA, x0, y0, x1, y1, z float32) {
	c.Color4ub(col.R, col.G, col.B, col.A)
	c.Begin(gl.QUADS)
	c.Vertex3f(x0, y0, z)
	c.Vertex3f(x1, y0, z)
	c.Vertex3f(x1, y1, z)
	c.Vertex3f(x0, y1, z)
	c.End()
}

func rgba(c color.NRGBA) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func newTestWindow(t *testing.T) (*Window, func()) {
	t.Helper()
	sz := image.Point{X: 400, Y: 400}
	w, err := NewWindow(sz.X, sz.Y)
	if err != nil {
		t.Fatal(err)
	}
	return w, func() {
		w.Release()
	}
}
