// SPDX-License-Identifier: Unlicense OR MIT

package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/vglgo/vgl/gpu/driver"
)

// vertex is a transformed vertex.
type vertex struct {
	// x, y, z are window coordinates.
	x, y, z float32
	// nx, ny are normalized device coordinates, used for facing.
	nx, ny  float32
	color   [4]float32
	uv      [2]float32
	visible bool
}

type fragment struct {
	z     float32
	color [4]float32
	uv    [2]float32
}

const (
	faceFront = 0
	faceBack  = 1
)

func (d *Device) Draw(mode driver.DrawMode, indices driver.Stream, count int) {
	if d.vprog == nil || d.fprog == nil || count < 0 || count*2 > indices.Size {
		d.stats.Rejected++
		return
	}
	raw := indices.Bytes()
	verts := make([]vertex, count)
	for i := range verts {
		idx := int(driver.NativeOrder.Uint16(raw[i*2:]))
		v, ok := d.fetch(idx)
		if !ok {
			d.stats.Rejected++
			return
		}
		verts[i] = v
	}
	d.stats.Draws++
	switch mode {
	case driver.DrawModePoints:
		for i := range verts {
			d.point(&verts[i], faceFront)
		}
	case driver.DrawModeLines:
		for i := 0; i+1 < count; i += 2 {
			d.line(&verts[i], &verts[i+1], faceFront)
		}
	case driver.DrawModeTriangles:
		for i := 0; i+2 < count; i += 3 {
			d.triangle(&verts[i], &verts[i+1], &verts[i+2])
		}
	case driver.DrawModeTriangleStrip:
		for i := 0; i+2 < count; i++ {
			if i%2 == 0 {
				d.triangle(&verts[i], &verts[i+1], &verts[i+2])
			} else {
				d.triangle(&verts[i+1], &verts[i], &verts[i+2])
			}
		}
	case driver.DrawModeTriangleFan:
		for i := 1; i+1 < count; i++ {
			d.triangle(&verts[0], &verts[i], &verts[i+1])
		}
	}
}

// fetch reads and transforms vertex idx.
func (d *Device) fetch(idx int) (vertex, bool) {
	pos := [4]float32{0, 0, 0, 1}
	col := [4]float32{1, 1, 1, 1}
	var uv [4]float32
	l := d.vprog.layout
	for _, in := range l.Inputs {
		var dst *[4]float32
		switch in.Name {
		case "pos":
			dst = &pos
		case "color":
			dst = &col
		case "texcoord":
			dst = &uv
		default:
			continue
		}
		data := d.streams[in.Stream].Bytes()
		off := idx*l.Strides[in.Stream] + in.Offset
		if off < 0 || off+in.Size*in.Format.Size() > len(data) {
			return vertex{}, false
		}
		for c := 0; c < in.Size && c < 4; c++ {
			switch in.Format {
			case driver.FormatU8N:
				dst[c] = float32(data[off+c]) / 255
			default:
				dst[c] = math.Float32frombits(driver.NativeOrder.Uint32(data[off+c*4:]))
			}
		}
	}
	clip := mgl32.Vec4(pos)
	if off, ok := d.vprog.uniform("wvp"); ok && off+16 <= len(d.vuniforms) {
		var m mgl32.Mat4
		copy(m[:], d.vuniforms[off:off+16])
		clip = m.Mul4x1(clip)
	}
	v := vertex{color: col, uv: [2]float32{uv[0], uv[1]}}
	if clip.W() <= 0 {
		return v, true
	}
	vp := d.state.Viewport
	v.nx, v.ny = clip.X()/clip.W(), clip.Y()/clip.W()
	nz := clip.Z() / clip.W()
	v.x = vp.Offset[0] + vp.Scale[0]*v.nx
	v.y = vp.Offset[1] + vp.Scale[1]*v.ny
	v.z = vp.Offset[2] + vp.Scale[2]*nz
	v.visible = true
	return v, true
}

func (d *Device) triangle(a, b, c *vertex) {
	if !a.visible || !b.visible || !c.visible {
		return
	}
	area := (b.nx-a.nx)*(c.ny-a.ny) - (b.ny-a.ny)*(c.nx-a.nx)
	if area == 0 {
		return
	}
	ccw := area > 0
	switch d.state.Cull {
	case driver.CullCW:
		if !ccw {
			return
		}
	case driver.CullCCW:
		if ccw {
			return
		}
	}
	face := faceFront
	if !ccw {
		face = faceBack
	}
	switch d.state.Polygon[face] {
	case driver.PolygonLine:
		d.line(a, b, face)
		d.line(b, c, face)
		d.line(c, a, face)
	case driver.PolygonPoint:
		d.point(a, face)
		d.point(b, face)
		d.point(c, face)
	default:
		d.fill(a, b, c, face)
	}
}

// edge is the signed area of the parallelogram spanned by a->b and a->p.
func edge(a, b *vertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether a->b is a top or left edge of a triangle with
// positive area.
func topLeft(a, b *vertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func inside(e float32, tl bool) bool {
	return e > 0 || (e == 0 && tl)
}

func (d *Device) fill(a, b, c *vertex, face int) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	minX := max(int(math.Floor(float64(min(a.x, b.x, c.x)))), 0)
	maxX := min(int(math.Ceil(float64(max(a.x, b.x, c.x)))), d.width)
	minY := max(int(math.Floor(float64(min(a.y, b.y, c.y)))), 0)
	maxY := min(int(math.Ceil(float64(max(a.y, b.y, c.y)))), d.height)
	tlA, tlB, tlC := topLeft(b, c), topLeft(c, a), topLeft(a, b)
	bias := d.bias(face)
	inv := 1 / area
	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			e0, e1, e2 := edge(b, c, px, py), edge(c, a, px, py), edge(a, b, px, py)
			if !inside(e0, tlA) || !inside(e1, tlB) || !inside(e2, tlC) {
				continue
			}
			w0, w1, w2 := e0*inv, e1*inv, e2*inv
			f := fragment{z: w0*a.z + w1*b.z + w2*c.z + bias}
			for i := range f.color {
				f.color[i] = w0*a.color[i] + w1*b.color[i] + w2*c.color[i]
			}
			for i := range f.uv {
				f.uv[i] = w0*a.uv[i] + w1*b.uv[i] + w2*c.uv[i]
			}
			d.shade(x, y, f, face)
		}
	}
}

func (d *Device) line(a, b *vertex, face int) {
	if !a.visible || !b.visible {
		return
	}
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Ceil(float64(max(abs32(dx), abs32(dy)))))
	bias := d.bias(face)
	for i := 0; i <= steps; i++ {
		t := float32(0)
		if steps > 0 {
			t = float32(i) / float32(steps)
		}
		f := fragment{z: a.z + t*(b.z-a.z) + bias}
		for c := range f.color {
			f.color[c] = a.color[c] + t*(b.color[c]-a.color[c])
		}
		for c := range f.uv {
			f.uv[c] = a.uv[c] + t*(b.uv[c]-a.uv[c])
		}
		x := int(math.Floor(float64(a.x + t*dx)))
		y := int(math.Floor(float64(a.y + t*dy)))
		d.shade(x, y, f, face)
	}
}

func (d *Device) point(v *vertex, face int) {
	if !v.visible {
		return
	}
	f := fragment{z: v.z + d.bias(face), color: v.color, uv: v.uv}
	d.shade(int(math.Floor(float64(v.x))), int(math.Floor(float64(v.y))), f, face)
}

// bias returns the constant depth offset of a face, in units of the
// smallest resolvable depth difference.
func (d *Device) bias(face int) float32 {
	return d.state.DepthBias[face].Units / (1 << 16)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
