// SPDX-License-Identifier: Unlicense OR MIT

// Package f32color implements float32 RGBA colors.
package f32color

import (
	"image/color"
)

// RGBA is a non-premultiplied color with components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Array returns col as an array, in R, G, B, A order.
func (col RGBA) Array() [4]float32 {
	return [4]float32{col.R, col.G, col.B, col.A}
}

// Float32 returns r, g, b, a values.
func (col RGBA) Float32() (r, g, b, a float32) {
	return col.R, col.G, col.B, col.A
}

// Clamp limits every component to [0, 1].
func (col RGBA) Clamp() RGBA {
	return RGBA{R: clamp1(col.R), G: clamp1(col.G), B: clamp1(col.B), A: clamp1(col.A)}
}

// NRGBA quantizes col to 8 bits per channel.
func (col RGBA) NRGBA() color.NRGBA {
	c := col.Clamp()
	return color.NRGBA{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B), A: quantize(c.A)}
}

// FromNRGBA expands an 8-bit color, dividing every channel by 255.
func FromNRGBA(c color.NRGBA) RGBA {
	return RGBA{
		R: float32(c.R) / 0xff,
		G: float32(c.G) / 0xff,
		B: float32(c.B) / 0xff,
		A: float32(c.A) / 0xff,
	}
}

// Opaque returns the color without alpha component.
func (col RGBA) Opaque() RGBA {
	col.A = 1.0
	return col
}

func quantize(v float32) uint8 {
	return uint8(v*0xff + .5)
}

func clamp1(v float32) float32 {
	if v >= 1 {
		return 1
	}
	if v <= 0 {
		return 0
	}
	return v
}
