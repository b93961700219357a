// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ModelviewStackDepth is the number of model-view matrices
	// PushMatrix can save.
	ModelviewStackDepth = 32
	// ProjectionStackDepth is the number of projection matrices
	// PushMatrix can save.
	ProjectionStackDepth = 2
)

type matrixStack struct {
	m     mgl32.Mat4
	saved []mgl32.Mat4
	depth int
}

func newMatrixStack(depth int) matrixStack {
	return matrixStack{m: mgl32.Ident4(), saved: make([]mgl32.Mat4, 0, depth), depth: depth}
}

func (s *matrixStack) push() bool {
	if len(s.saved) >= s.depth {
		return false
	}
	s.saved = append(s.saved, s.m)
	return true
}

func (s *matrixStack) pop() bool {
	n := len(s.saved)
	if n == 0 {
		return false
	}
	s.m = s.saved[n-1]
	s.saved = s.saved[:n-1]
	return true
}

func (c *Context) current() *matrixStack {
	if c.matrixMode == PROJECTION {
		return &c.projection
	}
	return &c.modelview
}

// mvp returns the combined model-view-projection transform.
func (c *Context) mvp() mgl32.Mat4 {
	return c.projection.m.Mul4(c.modelview.m)
}

// MatrixMode selects the stack matrix operations apply to, MODELVIEW
// or PROJECTION.
func (c *Context) MatrixMode(mode Enum) {
	if !c.idle("MatrixMode") {
		return
	}
	if mode != MODELVIEW && mode != PROJECTION {
		c.setError("MatrixMode", INVALID_ENUM)
		return
	}
	c.matrixMode = mode
}

func (c *Context) LoadIdentity() {
	if !c.idle("LoadIdentity") {
		return
	}
	c.current().m = mgl32.Ident4()
}

// LoadMatrixf replaces the current matrix with the column-major m.
func (c *Context) LoadMatrixf(m []float32) {
	if !c.idle("LoadMatrixf") {
		return
	}
	if len(m) < 16 {
		c.setError("LoadMatrixf", INVALID_VALUE)
		return
	}
	c.current().m = mgl32.Mat4(m[:16])
}

// MultMatrixf multiplies the current matrix by the column-major m.
func (c *Context) MultMatrixf(m []float32) {
	if !c.idle("MultMatrixf") {
		return
	}
	if len(m) < 16 {
		c.setError("MultMatrixf", INVALID_VALUE)
		return
	}
	c.mult(mgl32.Mat4(m[:16]))
}

func (c *Context) mult(m mgl32.Mat4) {
	s := c.current()
	s.m = s.m.Mul4(m)
}

func (c *Context) Translatef(x, y, z float32) {
	if !c.idle("Translatef") {
		return
	}
	c.mult(mgl32.Translate3D(x, y, z))
}

func (c *Context) Scalef(x, y, z float32) {
	if !c.idle("Scalef") {
		return
	}
	c.mult(mgl32.Scale3D(x, y, z))
}

// Rotatef rotates by angle degrees around the axis (x, y, z). A zero
// axis leaves the matrix unchanged.
func (c *Context) Rotatef(angle, x, y, z float32) {
	if !c.idle("Rotatef") {
		return
	}
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return
	}
	c.mult(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

// Ortho multiplies the current matrix by a parallel projection.
func (c *Context) Ortho(left, right, bottom, top, near, far float64) {
	if !c.idle("Ortho") {
		return
	}
	if left == right || bottom == top || near == far {
		c.setError("Ortho", INVALID_VALUE)
		return
	}
	c.mult(mgl32.Ortho(float32(left), float32(right), float32(bottom), float32(top), float32(near), float32(far)))
}

// Frustum multiplies the current matrix by a perspective projection.
func (c *Context) Frustum(left, right, bottom, top, near, far float64) {
	if !c.idle("Frustum") {
		return
	}
	if left == right || bottom == top || near == far || near <= 0 || far <= 0 {
		c.setError("Frustum", INVALID_VALUE)
		return
	}
	c.mult(mgl32.Frustum(float32(left), float32(right), float32(bottom), float32(top), float32(near), float32(far)))
}

// PushMatrix saves the current matrix. A full stack records
// STACK_OVERFLOW and saves nothing.
func (c *Context) PushMatrix() {
	if !c.idle("PushMatrix") {
		return
	}
	if !c.current().push() {
		c.setError("PushMatrix", STACK_OVERFLOW)
	}
}

// PopMatrix restores the most recently saved matrix. An empty stack
// records STACK_UNDERFLOW and leaves the matrix unchanged.
func (c *Context) PopMatrix() {
	if !c.idle("PopMatrix") {
		return
	}
	if !c.current().pop() {
		c.setError("PopMatrix", STACK_UNDERFLOW)
	}
}
