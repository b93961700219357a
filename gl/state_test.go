// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/vglgo/vgl/gpu/driver"
	"github.com/vglgo/vgl/gpu/soft"
)

func newTestContext(t *testing.T) (*Context, *soft.Device) {
	t.Helper()
	dev, err := soft.New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContext(dev, Config{PoolSize: 1 << 16})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		c.Release()
		dev.Release()
	})
	return c, dev
}

func expectError(t *testing.T, c *Context, exp Enum) {
	t.Helper()
	if got := c.GetError(); got != exp {
		t.Errorf("got error %v, expected %v", got, exp)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	caps := []Enum{
		DEPTH_TEST, STENCIL_TEST, BLEND, SCISSOR_TEST, CULL_FACE,
		POLYGON_OFFSET_FILL, POLYGON_OFFSET_LINE, POLYGON_OFFSET_POINT,
		TEXTURE_2D, ALPHA_TEST,
	}
	c, dev := newTestContext(t)
	c.DepthFunc(GREATER)
	c.StencilFunc(EQUAL, 3, 0x0f)
	c.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	c.PolygonOffset(1, 2)
	c.CullFace(FRONT)
	for _, cap := range caps {
		c.Enable(cap)
		state, blend := dev.State(), c.progs.blend
		c.Disable(cap)
		if c.IsEnabled(cap) {
			t.Errorf("%#x still enabled", cap)
		}
		c.Enable(cap)
		if !c.IsEnabled(cap) {
			t.Errorf("%#x not enabled", cap)
		}
		if got := dev.State(); got != state {
			t.Errorf("%#x: state after round trip %+v, expected %+v", cap, got, state)
		}
		if !equalBlend(c.progs.blend, blend) {
			t.Errorf("%#x: blend after round trip %+v, expected %+v", cap, c.progs.blend, blend)
		}
		c.Disable(cap)
	}
	expectError(t, c, NO_ERROR)
	c.Enable(0x1234)
	expectError(t, c, INVALID_ENUM)
}

func TestDepthDisableKeepsFunc(t *testing.T) {
	c, dev := newTestContext(t)
	c.DepthFunc(GREATER)
	c.DepthMask(true)
	if s := dev.State(); s.DepthFunc != driver.CompareAlways || s.DepthWrite {
		t.Errorf("disabled depth test: got func %v write %v", s.DepthFunc, s.DepthWrite)
	}
	c.Enable(DEPTH_TEST)
	if s := dev.State(); s.DepthFunc != driver.CompareGreater || !s.DepthWrite {
		t.Errorf("enabled depth test: got func %v write %v", s.DepthFunc, s.DepthWrite)
	}
	c.DepthMask(false)
	if dev.State().DepthWrite {
		t.Error("depth writes enabled with a false depth mask")
	}
	c.DepthFunc(0x1234)
	expectError(t, c, INVALID_ENUM)
	if dev.State().DepthFunc != driver.CompareGreater {
		t.Error("invalid depth func changed the state")
	}
}

func TestBatchingGuard(t *testing.T) {
	c, _ := newTestContext(t)
	c.Begin(TRIANGLES)
	c.Enable(BLEND)
	expectError(t, c, INVALID_OPERATION)
	if c.IsEnabled(BLEND) {
		t.Error("blend enabled inside a batch")
	}
	c.Begin(POINTS)
	expectError(t, c, INVALID_OPERATION)
	c.Color3f(1, 0, 0)
	c.Vertex2f(0, 0)
	expectError(t, c, NO_ERROR)
	c.End()
	c.End()
	expectError(t, c, INVALID_OPERATION)
	c.Begin(0x1234)
	expectError(t, c, INVALID_ENUM)
	c.Vertex2f(0, 0)
	expectError(t, c, INVALID_OPERATION)
}

func TestMatrixStack(t *testing.T) {
	c, _ := newTestContext(t)
	c.Translatef(1, 2, 3)
	c.Rotatef(30, 0, 0, 1)
	saved := c.modelview.m
	c.PushMatrix()
	c.Scalef(2, 2, 2)
	c.PopMatrix()
	expectError(t, c, NO_ERROR)
	if c.modelview.m != saved {
		t.Errorf("push/pop: got %v, expected %v", c.modelview.m, saved)
	}

	c.PopMatrix()
	expectError(t, c, STACK_UNDERFLOW)
	if c.modelview.m != saved {
		t.Error("underflow modified the matrix")
	}

	for i := 0; i < ModelviewStackDepth; i++ {
		c.LoadIdentity()
		c.Translatef(float32(i), 0, 0)
		c.PushMatrix()
	}
	expectError(t, c, NO_ERROR)
	c.LoadIdentity()
	c.PushMatrix()
	expectError(t, c, STACK_OVERFLOW)
	for i := ModelviewStackDepth - 1; i >= 0; i-- {
		c.PopMatrix()
		if exp := mgl32.Translate3D(float32(i), 0, 0); c.modelview.m != exp {
			t.Fatalf("entry %d: got %v, expected %v", i, c.modelview.m, exp)
		}
	}
	expectError(t, c, NO_ERROR)

	c.MatrixMode(PROJECTION)
	for i := 0; i < ProjectionStackDepth; i++ {
		c.PushMatrix()
	}
	expectError(t, c, NO_ERROR)
	c.PushMatrix()
	expectError(t, c, STACK_OVERFLOW)
}

func TestMatrixOps(t *testing.T) {
	c, _ := newTestContext(t)
	c.MatrixMode(PROJECTION)
	c.Ortho(0, 64, 0, 64, -1, 1)
	exp := mgl32.Ortho(0, 64, 0, 64, -1, 1)
	if !c.projection.m.ApproxEqual(exp) {
		t.Errorf("ortho: got %v, expected %v", c.projection.m, exp)
	}
	c.Ortho(0, 0, 0, 1, 0, 1)
	expectError(t, c, INVALID_VALUE)
	c.Frustum(-1, 1, -1, 1, 0, 10)
	expectError(t, c, INVALID_VALUE)
	c.Frustum(-1, 1, 1, 1, 1, 10)
	expectError(t, c, INVALID_VALUE)
	if !c.projection.m.ApproxEqual(exp) {
		t.Error("degenerate volume modified the matrix")
	}
	c.LoadIdentity()
	c.Frustum(-1, 1, -1, 1, 1, 10)
	if exp := mgl32.Frustum(-1, 1, -1, 1, 1, 10); !c.projection.m.ApproxEqual(exp) {
		t.Errorf("frustum: got %v, expected %v", c.projection.m, exp)
	}
	c.MatrixMode(TEXTURE)
	expectError(t, c, INVALID_ENUM)

	c.MatrixMode(MODELVIEW)
	m := mgl32.Translate3D(1, 2, 3)
	c.LoadMatrixf(m[:])
	c.MultMatrixf(m[:])
	var got [16]float32
	c.GetFloatv(MODELVIEW_MATRIX, got[:])
	if exp := mgl32.Translate3D(2, 4, 6); !mgl32.Mat4(got).ApproxEqual(exp) {
		t.Errorf("load/mult: got %v, expected %v", got, exp)
	}
	c.Rotatef(45, 0, 0, 0)
	expectError(t, c, NO_ERROR)
	c.LoadMatrixf(m[:3])
	expectError(t, c, INVALID_VALUE)
}

func TestCullModes(t *testing.T) {
	tests := []struct {
		front, face Enum
		exp         driver.CullMode
	}{
		{CCW, BACK, driver.CullCW},
		{CW, BACK, driver.CullCCW},
		{CCW, FRONT, driver.CullCCW},
		{CW, FRONT, driver.CullCW},
	}
	c, dev := newTestContext(t)
	c.Enable(CULL_FACE)
	for _, test := range tests {
		c.FrontFace(test.front)
		c.CullFace(test.face)
		if got := dev.State().Cull; got != test.exp {
			t.Errorf("front %#x cull %#x: got %v, expected %v", test.front, test.face, got, test.exp)
		}
	}
	c.Disable(CULL_FACE)
	if got := dev.State().Cull; got != driver.CullNone {
		t.Errorf("disabled culling: got %v", got)
	}
	c.CullFace(FRONT_AND_BACK)
	if c.cull.discardAll() {
		t.Error("disabled culling discards primitives")
	}
	c.Enable(CULL_FACE)
	if !c.cull.discardAll() {
		t.Error("FRONT_AND_BACK culling keeps primitives")
	}
	c.FrontFace(FRONT)
	expectError(t, c, INVALID_ENUM)
}

func TestStencilState(t *testing.T) {
	c, dev := newTestContext(t)
	c.Enable(STENCIL_TEST)
	c.StencilFuncSeparate(FRONT, LESS, 300, 0xf0)
	c.StencilOpSeparate(BACK, ZERO, INCR, REPLACE)
	c.StencilMaskSeparate(BACK, 0x0f)
	s := dev.State().Stencil
	front := driver.StencilDesc{Func: driver.CompareLess, ReadMask: 0xf0, WriteMask: 0xff, Ref: 0xff}
	back := driver.StencilDesc{
		Func:      driver.CompareAlways,
		Fail:      driver.StencilZero,
		DepthFail: driver.StencilIncr,
		DepthPass: driver.StencilReplace,
		ReadMask:  0xff,
		WriteMask: 0x0f,
	}
	if s[0] != front || s[1] != back {
		t.Errorf("got %+v, expected %+v %+v", s, front, back)
	}

	c.StencilOpSeparate(FRONT, KEEP, 0x1234, ZERO)
	expectError(t, c, INVALID_ENUM)
	if dev.State().Stencil != s {
		t.Error("invalid stencil op changed the state")
	}
	c.StencilFuncSeparate(0x1234, LESS, 0, 0)
	expectError(t, c, INVALID_ENUM)

	c.FrontFace(CW)
	if got := dev.State().Stencil; got[0] != back || got[1] != front {
		t.Errorf("clockwise front faces: got %+v", got)
	}
	c.Disable(STENCIL_TEST)
	disabled := driver.StencilDesc{Func: driver.CompareAlways, ReadMask: 0xff}
	if got := dev.State().Stencil; got[0] != disabled || got[1] != disabled {
		t.Errorf("disabled stencil: got %+v", got)
	}
}

func TestBlendRecompile(t *testing.T) {
	c, dev := newTestContext(t)
	progs := dev.Stats().FragmentPrograms
	patches := c.progs.patches
	c.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	c.BlendEquation(FUNC_ADD)
	if dev.Stats().FragmentPrograms != progs || c.progs.patches != patches {
		t.Fatal("blend setters recompiled programs while blending is disabled")
	}
	c.Enable(BLEND)
	if c.progs.patches != patches+1 {
		t.Errorf("enabling blend: got %d patches, expected %d", c.progs.patches, patches+1)
	}
	if got := dev.Stats().FragmentPrograms - progs; got != int(numVariants) {
		t.Errorf("enabling blend created %d programs, expected %d", got, numVariants)
	}
	c.BlendFunc(SRC_ALPHA, ONE_MINUS_SRC_ALPHA)
	if c.progs.patches != patches+1 {
		t.Error("unchanged blend function recompiled programs")
	}
	c.BlendFunc(ONE, ONE)
	if c.progs.patches != patches+2 {
		t.Error("changed blend function did not recompile programs")
	}
	c.BlendFunc(ONE, 0x1234)
	expectError(t, c, INVALID_ENUM)
	if b := c.progs.blend; b.ColorSrc != driver.BlendFactorOne || b.ColorDst != driver.BlendFactorOne {
		t.Errorf("invalid factor changed the blend: %+v", b)
	}

	c.Disable(BLEND)
	if c.progs.blend != nil {
		t.Errorf("disabled blend with full color mask: got %+v, expected nil", c.progs.blend)
	}
	c.ColorMask(true, false, true, true)
	b := c.progs.blend
	if b == nil || b.ColorMask != driver.ColorMaskR|driver.ColorMaskB|driver.ColorMaskA {
		t.Fatalf("disabled blend with partial color mask: got %+v", b)
	}
	if b.ColorSrc != driver.BlendFactorOne || b.ColorDst != driver.BlendFactorZero {
		t.Errorf("pass-through blend: got %+v", b)
	}
}

func TestViewport(t *testing.T) {
	c, dev := newTestContext(t)
	c.Viewport(10, 20, 30, 40)
	c.DepthRange(0.25, 0.75)
	exp := driver.Viewport{
		Offset: [3]float32{25, 24, 0.5},
		Scale:  [3]float32{15, -20, 0.25},
	}
	if got := dev.State().Viewport; got != exp {
		t.Errorf("got %+v, expected %+v", got, exp)
	}
	c.Viewport(0, 0, -1, 1)
	expectError(t, c, INVALID_VALUE)
	var v [4]float32
	c.GetFloatv(VIEWPORT, v[:])
	if v != [4]float32{10, 20, 30, 40} {
		t.Errorf("VIEWPORT: got %v", v)
	}
	var r [2]float32
	c.GetFloatv(DEPTH_RANGE, r[:])
	if r != [2]float32{0.25, 0.75} {
		t.Errorf("DEPTH_RANGE: got %v", r)
	}
	c.GetFloatv(VIEWPORT, v[:2])
	expectError(t, c, INVALID_VALUE)
	c.GetFloatv(0x1234, v[:])
	expectError(t, c, INVALID_ENUM)
}

func TestPolygonState(t *testing.T) {
	c, dev := newTestContext(t)
	c.PolygonMode(BACK, LINE)
	c.PolygonOffset(2, 4)
	c.Enable(POLYGON_OFFSET_LINE)
	s := dev.State()
	if s.Polygon != [2]driver.PolygonMode{driver.PolygonFill, driver.PolygonLine} {
		t.Errorf("polygon modes: got %v", s.Polygon)
	}
	if exp := [2]driver.DepthBias{{}, {Factor: 2, Units: 4}}; s.DepthBias != exp {
		t.Errorf("depth bias: got %v, expected %v", s.DepthBias, exp)
	}
	c.PolygonMode(FRONT_AND_BACK, 0x1234)
	expectError(t, c, INVALID_ENUM)
}

func TestColorSubmission(t *testing.T) {
	c, _ := newTestContext(t)
	c.Color4ub(0xff, 0x80, 0, 0x40)
	var col [4]float32
	c.GetFloatv(CURRENT_COLOR, col[:])
	exp := [4]float32{1, float32(0x80) / 0xff, 0, float32(0x40) / 0xff}
	if col != exp {
		t.Errorf("Color4ub: got %v, expected %v", col, exp)
	}
	c.Color4f(2, -1, 0.5, 1)
	c.GetFloatv(CURRENT_COLOR, col[:])
	if col != [4]float32{1, 0, 0.5, 1} {
		t.Errorf("Color4f: got %v", col)
	}
}
