// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/vglgo/vgl/gpu/driver"
)

// CustomProgram replaces the built-in programs of DrawObjects while it
// is bound with UseProgram.
type CustomProgram interface {
	// SetBlend is called with the effective blend descriptor when the
	// program is bound and whenever the descriptor changes. Nil means
	// opaque output. The program must re-patch its fragment program
	// with it.
	SetBlend(dev driver.Device, blend *driver.BlendDesc) error
	// Draw binds the program with its uniforms and streams, and issues
	// the draw.
	Draw(dev driver.Device, d CustomDraw) error
}

// CustomDraw holds the parameters of a DrawObjects call handed to a
// CustomProgram.
type CustomDraw struct {
	Mode    driver.DrawMode
	Count   int
	Indices driver.Stream
	// Vertex is always present. Color and TexCoord have an invalid
	// Stream when the draw has no such array.
	Vertex, Color, TexCoord ObjectStream
	// Texture is the bound texture of a textured draw.
	Texture driver.Texture
	// MVP is the combined model-view-projection matrix. ImplicitWVP
	// reports whether the program should load it as its transform.
	MVP         mgl32.Mat4
	ImplicitWVP bool
}

// ObjectStream is a packed array object.
type ObjectStream struct {
	Stream driver.Stream
	// Input describes one element. Its Stream field is zero.
	Input  driver.InputDesc
	Stride int
}

func (a attrib) custom() ObjectStream {
	return ObjectStream{Stream: a.stream, Input: a.input, Stride: a.stride}
}

// UseProgram binds a custom program for DrawObjects. Nil restores the
// built-in programs.
func (c *Context) UseProgram(p CustomProgram) {
	if !c.idle("UseProgram") {
		return
	}
	c.custom = p
	if p == nil {
		return
	}
	if err := p.SetBlend(c.dev, c.blend.desc()); err != nil {
		c.log.Error("custom program blend failed", "err", err)
		c.setError("UseProgram", INVALID_OPERATION)
	}
}
