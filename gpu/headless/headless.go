// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements headless windows for rendering
// fixed-function frames to an image.
package headless

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/vglgo/vgl/gl"
	"github.com/vglgo/vgl/gpu/driver"
	// Register the software device.
	_ "github.com/vglgo/vgl/gpu/soft"
)

// Window is a headless window.
type Window struct {
	mu   sync.Mutex
	size image.Point
	dev  driver.Device
	ctx  *gl.Context
}

// NewWindow creates a new headless window. Zero dimensions select the
// default 960x544 display.
func NewWindow(width, height int) (*Window, error) {
	return NewWindowConfig(width, height, gl.Config{})
}

// NewWindowConfig is like NewWindow but configures the context with
// cfg.
func NewWindowConfig(width, height int, cfg gl.Config) (*Window, error) {
	dev, err := driver.NewDevice(driver.Software{Width: width, Height: height})
	if err != nil {
		return nil, fmt.Errorf("headless: %w", err)
	}
	ctx, err := gl.NewContext(dev, cfg)
	if err != nil {
		dev.Release()
		return nil, fmt.Errorf("headless: %w", err)
	}
	caps := dev.Caps()
	return &Window{
		size: image.Point{X: caps.Width, Y: caps.Height},
		dev:  dev,
		ctx:  ctx,
	}, nil
}

// Release resources associated with the window.
func (w *Window) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx != nil {
		w.ctx.Release()
		w.ctx = nil
	}
	if w.dev != nil {
		w.dev.Release()
		w.dev = nil
	}
}

// Size returns the window size.
func (w *Window) Size() image.Point {
	return w.size
}

// Context returns the rendering context of the window. It must not be
// used concurrently with Frame.
func (w *Window) Context() *gl.Context {
	return w.ctx
}

// Frame runs draw with the window context and presents the result.
// An error recorded by the context during draw is returned.
func (w *Window) Frame(draw func(c *gl.Context)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return errors.New("headless: window released")
	}
	draw(w.ctx)
	err := w.ctx.GetError()
	w.ctx.SwapBuffers()
	if err != gl.NO_ERROR {
		return fmt.Errorf("headless: frame: %v", err)
	}
	return nil
}

// Screenshot transfers the presented window content at origin
// img.Rect.Min to img.
func (w *Window) Screenshot(img *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dev == nil {
		return errors.New("headless: window released")
	}
	src, err := w.ctx.ReadImage(img.Rect)
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}
	n := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+n], src.Pix[y*src.Stride:])
	}
	return nil
}
