// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"image"

	"github.com/vglgo/vgl/gpu/driver"
)

// ReadPixels copies a rectangle of the displayed frame into data,
// rows bottom to top. x and y name the lower left corner. format is
// RGBA or RGB and typ UNSIGNED_BYTE.
func (c *Context) ReadPixels(x, y, width, height int32, format, typ Enum, data []byte) {
	if !c.idle("ReadPixels") {
		return
	}
	bpp := 4
	switch format {
	case RGBA:
	case RGB:
		bpp = 3
	default:
		c.setError("ReadPixels", INVALID_ENUM)
		return
	}
	if typ != UNSIGNED_BYTE {
		c.setError("ReadPixels", INVALID_ENUM)
		return
	}
	w, h := int(width), int(height)
	if w < 0 || h < 0 || len(data) < w*h*bpp {
		c.setError("ReadPixels", INVALID_VALUE)
		return
	}
	r := viewState{x: x, y: y, w: width, h: height}.rect(c.height)
	rgba := make([]byte, w*h*4)
	c.dev.Finish()
	if err := c.dev.ReadPixels(r, rgba); err != nil {
		c.log.Debug("readback failed", "rect", r, "err", err)
		c.setError("ReadPixels", INVALID_VALUE)
		return
	}
	for row := 0; row < h; row++ {
		src := rgba[(h-1-row)*w*4:]
		dst := data[row*w*bpp:]
		if bpp == 4 {
			copy(dst[:w*4], src[:w*4])
			continue
		}
		for i := 0; i < w; i++ {
			copy(dst[i*3:i*3+3], src[i*4:i*4+3])
		}
	}
}

// ReadImage returns the rectangle r of the displayed frame, in top-left
// window coordinates, as an image.
func (c *Context) ReadImage(r image.Rectangle) (*image.RGBA, error) {
	c.dev.Finish()
	return driver.DownloadImage(c.dev, r)
}
