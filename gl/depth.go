// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"image"

	"github.com/vglgo/vgl/gpu/driver"
)

type depthState struct {
	enabled bool
	// fn is the configured comparison, kept while the test is
	// disabled.
	fn   driver.CompareFunc
	mask bool
}

// viewState is the viewport rectangle in bottom-left window
// coordinates and the depth range.
type viewState struct {
	x, y, w, h int32
	near, far  float32
}

type clearState struct {
	color   [4]float32
	depth   float32
	stencil uint8
}

var compareFuncs = map[Enum]driver.CompareFunc{
	NEVER:    driver.CompareNever,
	LESS:     driver.CompareLess,
	EQUAL:    driver.CompareEqual,
	LEQUAL:   driver.CompareLessEqual,
	GREATER:  driver.CompareGreater,
	NOTEQUAL: driver.CompareNotEqual,
	GEQUAL:   driver.CompareGreaterEqual,
	ALWAYS:   driver.CompareAlways,
}

func (d depthState) effectiveFunc() driver.CompareFunc {
	if !d.enabled {
		return driver.CompareAlways
	}
	return d.fn
}

func (d depthState) effectiveWrite() bool {
	return d.enabled && d.mask
}

func (c *Context) DepthFunc(fn Enum) {
	if !c.idle("DepthFunc") {
		return
	}
	f, ok := compareFuncs[fn]
	if !ok {
		c.setError("DepthFunc", INVALID_ENUM)
		return
	}
	c.depth.fn = f
	c.applyDepth()
}

func (c *Context) DepthMask(flag bool) {
	if !c.idle("DepthMask") {
		return
	}
	c.depth.mask = flag
	c.applyDepth()
}

func (c *Context) applyDepth() {
	c.dev.SetDepthFunc(c.depth.effectiveFunc())
	c.dev.SetDepthWrite(c.depth.effectiveWrite())
}

// Viewport sets the window rectangle normalized device coordinates
// map to. x and y name the lower left corner.
func (c *Context) Viewport(x, y, width, height int32) {
	if !c.idle("Viewport") {
		return
	}
	if width < 0 || height < 0 {
		c.setError("Viewport", INVALID_VALUE)
		return
	}
	c.view.x, c.view.y, c.view.w, c.view.h = x, y, width, height
	c.applyViewport()
}

// DepthRange maps normalized device depth to window depth. Both
// values are clamped to [0, 1].
func (c *Context) DepthRange(near, far float64) {
	if !c.idle("DepthRange") {
		return
	}
	c.view.near, c.view.far = clamp01(float32(near)), clamp01(float32(far))
	c.applyViewport()
}

func (c *Context) applyViewport() {
	c.dev.SetViewport(c.view.hardware(c.height))
}

// hardware converts v to the device transform for a display of height
// screenH whose vertical axis points down.
func (v viewState) hardware(screenH int) driver.Viewport {
	xs := float32(v.w) / 2
	ys := -float32(v.h) / 2
	return driver.Viewport{
		Offset: [3]float32{float32(v.x) + xs, float32(screenH) - float32(v.y) + ys, (v.far + v.near) / 2},
		Scale:  [3]float32{xs, ys, (v.far - v.near) / 2},
	}
}

// rect returns the viewport in top-left window coordinates.
func (v viewState) rect(screenH int) image.Rectangle {
	top := int(int32(screenH) - v.y - v.h)
	return image.Rect(int(v.x), top, int(v.x+v.w), top+int(v.h))
}

// fullscreen returns the device transform covering the display with
// the default depth range.
func (c *Context) fullscreen() driver.Viewport {
	return viewState{w: int32(c.width), h: int32(c.height), far: 1}.hardware(c.height)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	if !c.idle("ClearColor") {
		return
	}
	c.clear.color = [4]float32{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

func (c *Context) ClearDepth(d float64) {
	if !c.idle("ClearDepth") {
		return
	}
	c.clear.depth = clamp01(float32(d))
}

func (c *Context) ClearStencil(s int32) {
	if !c.idle("ClearStencil") {
		return
	}
	c.clear.stencil = uint8(s)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
