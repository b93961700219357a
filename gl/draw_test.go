// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"bytes"
	"image"
	"testing"

	"github.com/vglgo/vgl/gpu/driver"
)

// pixel returns the displayed color at (x, y), counted from the lower
// left corner.
func pixel(t *testing.T, c *Context, x, y int32) [4]byte {
	t.Helper()
	var px [4]byte
	c.ReadPixels(x, y, 1, 1, RGBA, UNSIGNED_BYTE, px[:])
	if err := c.GetError(); err != NO_ERROR {
		t.Fatalf("ReadPixels: %v", err)
	}
	return px
}

func expectPixel(t *testing.T, c *Context, x, y int32, exp [4]byte) {
	t.Helper()
	if got := pixel(t, c, x, y); got != exp {
		t.Errorf("pixel (%d, %d): got %v, expected %v", x, y, got, exp)
	}
}

// fillScreen draws a quad covering the viewport.
func fillScreen(c *Context) {
	c.Begin(QUADS)
	c.Vertex2f(-1, -1)
	c.Vertex2f(1, -1)
	c.Vertex2f(1, 1)
	c.Vertex2f(-1, 1)
	c.End()
}

var screenTriangles = []float32{
	-1, -1, 1, -1, 1, 1,
	-1, -1, 1, 1, -1, 1,
}

func repeat(n int, v ...float32) []float32 {
	var out []float32
	for i := 0; i < n; i++ {
		out = append(out, v...)
	}
	return out
}

func TestClearReadback(t *testing.T) {
	c, _ := newTestContext(t)
	c.ClearColor(0.2, 0.4, 0.6, 1)
	c.Clear(COLOR_BUFFER_BIT | DEPTH_BUFFER_BIT | STENCIL_BUFFER_BIT)
	c.SwapBuffers()
	expectError(t, c, NO_ERROR)
	expectPixel(t, c, 0, 0, [4]byte{51, 102, 153, 255})
	expectPixel(t, c, 63, 63, [4]byte{51, 102, 153, 255})

	rgb := make([]byte, 2*2*3)
	c.ReadPixels(10, 10, 2, 2, RGB, UNSIGNED_BYTE, rgb)
	if exp := bytes.Repeat([]byte{51, 102, 153}, 4); !bytes.Equal(rgb, exp) {
		t.Errorf("RGB readback: got %v, expected %v", rgb, exp)
	}
	c.ReadPixels(0, 0, 2, 2, RGB, UNSIGNED_BYTE, rgb[:5])
	expectError(t, c, INVALID_VALUE)
	c.ReadPixels(0, 0, 1, 1, RGBA, FLOAT, rgb)
	expectError(t, c, INVALID_ENUM)

	c.Clear(0x1)
	expectError(t, c, INVALID_VALUE)

	var col [4]float32
	c.GetFloatv(COLOR_CLEAR_VALUE, col[:])
	if col != [4]float32{0.2, 0.4, 0.6, 1} {
		t.Errorf("COLOR_CLEAR_VALUE: got %v", col)
	}
}

func TestReadbackRowOrder(t *testing.T) {
	c, _ := newTestContext(t)
	c.Clear(COLOR_BUFFER_BIT)
	c.Color3f(1, 0, 0)
	c.Begin(QUADS)
	c.Vertex2f(-1, -1)
	c.Vertex2f(1, -1)
	c.Vertex2f(1, 0)
	c.Vertex2f(-1, 0)
	c.End()
	c.SwapBuffers()
	data := make([]byte, 64*64*4)
	c.ReadPixels(0, 0, 64, 64, RGBA, UNSIGNED_BYTE, data)
	if got := [4]byte(data[:4]); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("first row: got %v, expected red", got)
	}
	if got := [4]byte(data[len(data)-4:]); got != [4]byte{} {
		t.Errorf("last row: got %v, expected black", got)
	}
	img, err := c.ReadImage(image.Rect(0, 0, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 63); got.R != 255 {
		t.Errorf("image bottom: got %v, expected red", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 {
		t.Errorf("image top: got %v, expected black", got)
	}
}

func TestIncompleteBatch(t *testing.T) {
	c, dev := newTestContext(t)
	draws := dev.Stats().Draws
	c.Begin(TRIANGLES)
	c.Vertex2f(-1, -1)
	c.Vertex2f(1, -1)
	c.End()
	expectError(t, c, NO_ERROR)
	if dev.Stats().Draws != draws {
		t.Error("incomplete batch was drawn")
	}
	if n := c.batch.len(); n != 2 {
		t.Errorf("incomplete batch kept %d vertices, expected 2", n)
	}
	c.Color3f(0, 1, 0)
	fillScreen(c)
	if dev.Stats().Draws != draws+1 {
		t.Error("complete batch was not drawn")
	}
	if n := c.batch.len(); n != 0 {
		t.Errorf("%d vertices left after a drawn batch", n)
	}
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{0, 255, 0, 255})
}

func TestColorArrayWidth(t *testing.T) {
	tests := []struct {
		size  int32
		color []float32
		exp   [4]byte
		v     variant
	}{
		{3, []float32{1, 0, 0}, [4]byte{255, 0, 0, 255}, variantRGB},
		{4, []float32{0, 0, 1, 0.5}, [4]byte{0, 0, 255, 128}, variantRGBA},
	}
	for _, test := range tests {
		c, _ := newTestContext(t)
		c.EnableClientState(VERTEX_ARRAY)
		c.EnableClientState(COLOR_ARRAY)
		c.VertexPointer(2, FLOAT, 0, Floats(screenTriangles...))
		c.ColorPointer(test.size, FLOAT, 0, Floats(repeat(6, test.color...)...))
		c.DrawArrays(TRIANGLES, 0, 6)
		expectError(t, c, NO_ERROR)
		if !hasVariant(c, test.v) {
			t.Errorf("size %d: no %v program", test.size, test.v)
		}
		c.SwapBuffers()
		expectPixel(t, c, 10, 50, test.exp)
	}
}

func hasVariant(c *Context, v variant) bool {
	for k := range c.progs.verts.res {
		if k.variant == v {
			return true
		}
	}
	return false
}

func TestConstantColor(t *testing.T) {
	c, _ := newTestContext(t)
	c.Color4ub(0, 0xff, 0xff, 0xff)
	c.EnableClientState(VERTEX_ARRAY)
	c.VertexPointer(2, FLOAT, 0, Floats(screenTriangles...))
	c.DrawArrays(TRIANGLES, 0, 6)
	c.SwapBuffers()
	expectPixel(t, c, 40, 20, [4]byte{0, 255, 255, 255})

	c.DisableClientState(VERTEX_ARRAY)
	c.DrawArrays(TRIANGLES, 0, 6)
	expectError(t, c, NO_ERROR)
	c.DrawArrays(0x1234, 0, 6)
	expectError(t, c, INVALID_ENUM)
	c.DrawArrays(TRIANGLES, 0, maxVertices+1)
	expectError(t, c, INVALID_VALUE)
}

func TestArrayGather(t *testing.T) {
	c, _ := newTestContext(t)
	// Interleaved SHORT positions with 4 bytes of padding per vertex.
	var buf []byte
	for i := 0; i < len(screenTriangles); i += 2 {
		v := make([]byte, 8)
		driver.NativeOrder.PutUint16(v, uint16(int16(screenTriangles[i])))
		driver.NativeOrder.PutUint16(v[2:], uint16(int16(screenTriangles[i+1])))
		buf = append(buf, v...)
	}
	c.Color3f(1, 1, 0)
	c.EnableClientState(VERTEX_ARRAY)
	c.VertexPointer(2, SHORT, 8, Bytes(buf))
	c.DrawArrays(TRIANGLES, 0, 6)
	expectError(t, c, NO_ERROR)
	c.SwapBuffers()
	expectPixel(t, c, 3, 60, [4]byte{255, 255, 0, 255})

	c.VertexPointer(1, FLOAT, 0, Floats(0))
	expectError(t, c, INVALID_VALUE)
	c.VertexPointer(2, UNSIGNED_BYTE, 0, Floats(0))
	expectError(t, c, INVALID_ENUM)
	c.VertexPointer(2, FLOAT, -4, Floats(0))
	expectError(t, c, INVALID_VALUE)
	c.VertexPointer(2, FLOAT, 0, Offset(0))
	expectError(t, c, INVALID_OPERATION)
}

func TestBufferDraw(t *testing.T) {
	c, dev := newTestContext(t)
	live := dev.Stats().LiveBuffers
	names := c.GenBuffers(2)
	if len(names) != 2 || names[0] < BufferBase || names[1] < BufferBase {
		t.Fatalf("GenBuffers: got %v", names)
	}
	verts, elems := names[0], names[1]
	c.BindBuffer(ARRAY_BUFFER, verts)
	pos := floatBytes(-1, -1, 1, -1, 1, 1, -1, 1)
	c.BufferData(ARRAY_BUFFER, len(pos), STATIC_DRAW, pos)
	c.BindBuffer(ELEMENT_ARRAY_BUFFER, elems)
	idx := make([]byte, 12)
	for i, v := range []uint16{0, 1, 2, 0, 2, 3} {
		driver.NativeOrder.PutUint16(idx[i*2:], v)
	}
	c.BufferData(ELEMENT_ARRAY_BUFFER, len(idx), STATIC_DRAW, idx)
	expectError(t, c, NO_ERROR)

	c.Color3f(1, 0, 1)
	c.EnableClientState(VERTEX_ARRAY)
	c.VertexPointer(2, FLOAT, 0, Offset(0))
	c.DrawElements(TRIANGLES, 6, UNSIGNED_SHORT, Offset(0))
	expectError(t, c, NO_ERROR)
	c.SwapBuffers()
	expectPixel(t, c, 60, 4, [4]byte{255, 0, 255, 255})

	c.DrawElements(TRIANGLES, 6, UNSIGNED_INT, Offset(0))
	expectError(t, c, INVALID_ENUM)
	c.DrawElements(TRIANGLES, 8, UNSIGNED_SHORT, Offset(0))
	expectError(t, c, INVALID_VALUE)

	if got := dev.Stats().LiveBuffers - live; got != 2 {
		t.Errorf("%d live buffers, expected 2", got)
	}
	c.DeleteBuffers(names)
	c.DeleteBuffers(names)
	if got := dev.Stats().LiveBuffers; got != live {
		t.Errorf("%d live buffers after delete, expected %d", got, live)
	}
}

func TestBufferHandles(t *testing.T) {
	c, _ := newTestContext(t)
	c.BindBuffer(ARRAY_BUFFER, 5)
	expectError(t, c, INVALID_VALUE)
	c.BindBuffer(ARRAY_BUFFER, BufferBase+NumBuffers)
	expectError(t, c, INVALID_VALUE)
	c.BindBuffer(0x1234, BufferBase)
	expectError(t, c, INVALID_ENUM)
	c.BufferData(ARRAY_BUFFER, 4, STATIC_DRAW, nil)
	expectError(t, c, INVALID_OPERATION)
	c.BindBuffer(ARRAY_BUFFER, 0)
	expectError(t, c, NO_ERROR)

	names := c.GenBuffers(1)
	c.BindBuffer(ARRAY_BUFFER, names[0])
	c.BufferData(ARRAY_BUFFER, 8, STATIC_DRAW, nil)
	c.BufferSubData(ARRAY_BUFFER, 4, []byte{1, 2, 3, 4})
	expectError(t, c, NO_ERROR)
	c.BufferSubData(ARRAY_BUFFER, 6, []byte{1, 2, 3, 4})
	expectError(t, c, INVALID_VALUE)
	c.BufferData(ARRAY_BUFFER, -1, STATIC_DRAW, nil)
	expectError(t, c, INVALID_VALUE)
}

func TestTexturedDraw(t *testing.T) {
	c, dev := newTestContext(t)
	names := c.GenTextures(1)
	if len(names) != 1 || names[0] == 0 {
		t.Fatalf("GenTextures: got %v", names)
	}
	c.BindTexture(TEXTURE_2D, names[0])
	// Rows bottom to top: red green, blue white.
	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	c.TexImage2D(TEXTURE_2D, 0, RGBA, 2, 2, RGBA, UNSIGNED_BYTE, pixels)
	c.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, NEAREST)
	c.TexEnvi(TEXTURE_ENV, TEXTURE_ENV_MODE, REPLACE)
	c.Enable(TEXTURE_2D)
	expectError(t, c, NO_ERROR)
	if got := dev.Stats().LiveTextures; got != 1 {
		t.Errorf("%d live textures, expected 1", got)
	}

	c.Color3f(0.5, 0.5, 0.5)
	c.Begin(QUADS)
	for _, v := range [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		c.TexCoord2f((v[0]+1)/2, (v[1]+1)/2)
		c.Vertex2f(v[0], v[1])
	}
	c.End()
	expectError(t, c, NO_ERROR)
	c.SwapBuffers()
	expectPixel(t, c, 8, 8, [4]byte{255, 0, 0, 255})
	expectPixel(t, c, 56, 8, [4]byte{0, 255, 0, 255})
	expectPixel(t, c, 8, 56, [4]byte{0, 0, 255, 255})
	expectPixel(t, c, 56, 56, [4]byte{255, 255, 255, 255})

	c.DeleteTextures(names)
	c.DeleteTextures(names)
	if got := dev.Stats().LiveTextures; got != 0 {
		t.Errorf("%d live textures after delete, expected 0", got)
	}
	c.TexImage2D(TEXTURE_2D, 1, RGBA, 2, 2, RGBA, UNSIGNED_BYTE, pixels)
	expectError(t, c, INVALID_VALUE)
	c.TexImage2D(TEXTURE_2D, 0, RGBA, 2, 2, RGBA, FLOAT, pixels)
	expectError(t, c, INVALID_ENUM)
}

func TestMissingTexture(t *testing.T) {
	c, _ := newTestContext(t)
	c.Enable(TEXTURE_2D)
	c.BindTexture(TEXTURE_2D, 7)
	c.Color3f(0, 0, 1)
	c.Begin(TRIANGLE_FAN)
	for _, v := range [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		c.TexCoord2f(0, 0)
		c.Vertex2f(v[0], v[1])
	}
	c.End()
	expectError(t, c, NO_ERROR)
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{0, 0, 255, 255})
}

func TestScissor(t *testing.T) {
	c, _ := newTestContext(t)
	c.Scissor(16, 16, 16, 16)
	c.Enable(SCISSOR_TEST)
	c.ClearColor(1, 0, 0, 1)
	c.Clear(COLOR_BUFFER_BIT)
	c.SwapBuffers()
	expectPixel(t, c, 20, 20, [4]byte{255, 0, 0, 255})
	expectPixel(t, c, 5, 5, [4]byte{})
	expectPixel(t, c, 40, 20, [4]byte{})

	c.Scissor(0, 0, -1, 4)
	expectError(t, c, INVALID_VALUE)
}

func TestScissorRoundTrip(t *testing.T) {
	render := func(scissor bool) []byte {
		c, _ := newTestContext(t)
		if scissor {
			c.Scissor(10, 10, 20, 20)
			c.Enable(SCISSOR_TEST)
			c.Disable(SCISSOR_TEST)
		}
		c.ClearColor(0, 0, 1, 1)
		c.Clear(COLOR_BUFFER_BIT)
		c.Color3f(0, 1, 0)
		c.Begin(TRIANGLES)
		c.Vertex2f(-1, -1)
		c.Vertex2f(1, -1)
		c.Vertex2f(0, 1)
		c.End()
		c.SwapBuffers()
		img, err := c.ReadImage(image.Rect(0, 0, 64, 64))
		if err != nil {
			t.Fatal(err)
		}
		return img.Pix
	}
	if !bytes.Equal(render(true), render(false)) {
		t.Error("enabling and disabling the scissor test changed the frame")
	}
}

func TestDepthClear(t *testing.T) {
	c, _ := newTestContext(t)
	c.Enable(DEPTH_TEST)
	c.ClearDepth(0.25)
	c.Clear(COLOR_BUFFER_BIT | DEPTH_BUFFER_BIT)
	c.Color3f(1, 1, 1)
	// Vertex2f draws at window depth 0.75, behind the cleared depth.
	fillScreen(c)
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{})

	c.ClearDepth(1)
	c.Clear(DEPTH_BUFFER_BIT)
	fillScreen(c)
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{255, 255, 255, 255})
}

func TestStencilDraw(t *testing.T) {
	c, _ := newTestContext(t)
	c.ClearStencil(0)
	c.Clear(COLOR_BUFFER_BIT | STENCIL_BUFFER_BIT)
	c.Enable(STENCIL_TEST)
	// Mark the left half.
	c.StencilFunc(ALWAYS, 1, 0xff)
	c.StencilOp(KEEP, KEEP, REPLACE)
	c.ColorMask(false, false, false, false)
	c.Begin(QUADS)
	c.Vertex2f(-1, -1)
	c.Vertex2f(0, -1)
	c.Vertex2f(0, 1)
	c.Vertex2f(-1, 1)
	c.End()
	c.ColorMask(true, true, true, true)
	c.StencilFunc(EQUAL, 1, 0xff)
	c.StencilOp(KEEP, KEEP, KEEP)
	c.Color3f(1, 0, 0)
	fillScreen(c)
	c.SwapBuffers()
	expectPixel(t, c, 10, 32, [4]byte{255, 0, 0, 255})
	expectPixel(t, c, 50, 32, [4]byte{})
}

func TestCullFrontAndBack(t *testing.T) {
	c, dev := newTestContext(t)
	c.CullFace(FRONT_AND_BACK)
	c.Enable(CULL_FACE)
	draws := dev.Stats().Draws
	fillScreen(c)
	if dev.Stats().Draws != draws {
		t.Error("triangles drawn with FRONT_AND_BACK culling")
	}
	if n := c.batch.len(); n != 0 {
		t.Errorf("culled batch kept %d vertices", n)
	}
	c.Begin(POINTS)
	c.Vertex2f(0, 0)
	c.End()
	if dev.Stats().Draws != draws+1 {
		t.Error("points culled with FRONT_AND_BACK culling")
	}
}

func TestBlendDraw(t *testing.T) {
	c, _ := newTestContext(t)
	c.ClearColor(0, 0, 1, 1)
	c.Clear(COLOR_BUFFER_BIT)
	c.Enable(BLEND)
	c.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	c.Color4f(1, 0, 0, 0.5)
	fillScreen(c)
	c.SwapBuffers()
	got := pixel(t, c, 32, 32)
	if got[0] < 126 || got[0] > 129 || got[2] < 126 || got[2] > 129 {
		t.Errorf("blended pixel: got %v, expected half red half blue", got)
	}
}

func TestAlphaTest(t *testing.T) {
	c, _ := newTestContext(t)
	names := c.GenTextures(1)
	c.BindTexture(TEXTURE_2D, names[0])
	c.TexImage2D(TEXTURE_2D, 0, RGBA, 1, 1, RGBA, UNSIGNED_BYTE, []byte{255, 255, 255, 64})
	c.Enable(TEXTURE_2D)
	c.Enable(ALPHA_TEST)
	c.AlphaFunc(GREATER, 0.5)
	c.Begin(QUADS)
	for _, v := range [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		c.TexCoord2f(0.5, 0.5)
		c.Vertex2f(v[0], v[1])
	}
	c.End()
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{})
}

type recordingProgram struct {
	blends []*driver.BlendDesc
	draws  []CustomDraw
}

func (p *recordingProgram) SetBlend(dev driver.Device, b *driver.BlendDesc) error {
	p.blends = append(p.blends, b)
	return nil
}

func (p *recordingProgram) Draw(dev driver.Device, d CustomDraw) error {
	p.draws = append(p.draws, d)
	return nil
}

func TestObjects(t *testing.T) {
	c, dev := newTestContext(t)
	c.DrawObjects(TRIANGLES, 3, false)
	expectError(t, c, INVALID_OPERATION)

	c.EnableClientState(VERTEX_ARRAY)
	c.VertexObject(2, FLOAT, 0, 4, Floats(-1, -1, 1, -1, 1, 1, -1, 1))
	c.IndexObject(UNSIGNED_SHORT, 0, 4, Uint16s(0, 1, 2, 3))
	expectError(t, c, NO_ERROR)
	c.DrawObjects(QUADS, 8, false)
	expectError(t, c, INVALID_VALUE)

	c.Color3f(0, 1, 0)
	c.DrawObjects(QUADS, 4, false)
	expectError(t, c, NO_ERROR)
	c.SwapBuffers()
	expectPixel(t, c, 32, 32, [4]byte{0, 255, 0, 255})

	p := new(recordingProgram)
	c.UseProgram(p)
	c.Enable(BLEND)
	draws := dev.Stats().Draws
	c.DrawObjects(QUADS, 4, true)
	expectError(t, c, NO_ERROR)
	if dev.Stats().Draws != draws {
		t.Error("built-in programs drew while a custom program was bound")
	}
	if len(p.blends) != 2 || p.blends[0] != nil || p.blends[1] == nil {
		t.Errorf("custom blend updates: got %v", p.blends)
	}
	if len(p.draws) != 1 {
		t.Fatalf("got %d custom draws, expected 1", len(p.draws))
	}
	d := p.draws[0]
	if d.Count != 6 || d.Mode != driver.DrawModeTriangles || !d.ImplicitWVP {
		t.Errorf("custom draw: got count %d mode %v implicit %v", d.Count, d.Mode, d.ImplicitWVP)
	}
	if !d.Vertex.Stream.Valid() || d.Color.Stream.Valid() || d.TexCoord.Stream.Valid() {
		t.Error("custom draw streams do not match the array objects")
	}
	c.UseProgram(nil)
	c.DrawObjects(QUADS, 4, false)
	if dev.Stats().Draws != draws+1 {
		t.Error("built-in programs not restored")
	}
}
