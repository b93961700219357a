// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"github.com/vglgo/vgl/gpu/driver"
)

// maxVertices is the number of vertices 16-bit indices address.
const maxVertices = 1 << 16

type primitive struct {
	mode driver.DrawMode
	// min is the smallest vertex count that draws anything and arity
	// the size of a vertex group.
	min, arity int
	// triangles reports whether the primitive is subject to face
	// culling.
	triangles bool
	// expand converts n vertices, mapped through idx if not nil, to
	// mode. Nil for primitives the device draws directly.
	expand func(n int, idx []uint16) []uint16
}

var primitives = map[Enum]primitive{
	POINTS:         {mode: driver.DrawModePoints, min: 1, arity: 1},
	LINES:          {mode: driver.DrawModeLines, min: 2, arity: 2},
	LINE_STRIP:     {mode: driver.DrawModeLines, min: 2, arity: 1, expand: expandLineStrip},
	LINE_LOOP:      {mode: driver.DrawModeLines, min: 2, arity: 1, expand: expandLineLoop},
	TRIANGLES:      {mode: driver.DrawModeTriangles, min: 3, arity: 3, triangles: true},
	TRIANGLE_STRIP: {mode: driver.DrawModeTriangleStrip, min: 3, arity: 1, triangles: true},
	TRIANGLE_FAN:   {mode: driver.DrawModeTriangleFan, min: 3, arity: 1, triangles: true},
	QUADS:          {mode: driver.DrawModeTriangles, min: 4, arity: 4, triangles: true, expand: expandQuads},
}

// complete reports whether n vertices form whole vertex groups.
func (p primitive) complete(n int) bool {
	return n >= p.min && n%p.arity == 0
}

// indices returns the index list drawing n vertices of p, mapped
// through idx if not nil.
func (p primitive) indices(n int, idx []uint16) []uint16 {
	switch {
	case p.expand != nil:
		return p.expand(n, idx)
	case idx != nil:
		return idx
	}
	seq := make([]uint16, n)
	for i := range seq {
		seq[i] = uint16(i)
	}
	return seq
}

// culled reports whether the cull state discards every primitive of
// p.
func (c *Context) culled(p primitive) bool {
	return p.triangles && c.cull.discardAll()
}

func at(idx []uint16, i int) uint16 {
	if idx == nil {
		return uint16(i)
	}
	return idx[i]
}

// quadPattern splits quad abcd into triangles abd and bcd.
var quadPattern = [6]int{0, 1, 3, 1, 2, 3}

// expandQuads converts quads to a triangle list. A trailing partial
// quad is dropped.
func expandQuads(n int, idx []uint16) []uint16 {
	quads := n / 4
	out := make([]uint16, 0, quads*6)
	for b := 0; b < quads*4; b += 4 {
		for _, k := range quadPattern {
			out = append(out, at(idx, b+k))
		}
	}
	return out
}

func expandLineStrip(n int, idx []uint16) []uint16 {
	out := make([]uint16, 0, max(n-1, 0)*2)
	for i := 0; i+1 < n; i++ {
		out = append(out, at(idx, i), at(idx, i+1))
	}
	return out
}

func expandLineLoop(n int, idx []uint16) []uint16 {
	out := expandLineStrip(n, idx)
	if n > 2 {
		out = append(out, at(idx, n-1), at(idx, 0))
	}
	return out
}
