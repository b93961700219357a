// SPDX-License-Identifier: Unlicense OR MIT

// Package geometry holds static triangle meshes and decodes them from
// Wavefront OBJ files.
package geometry

import "fmt"

// MaxVertices is the number of distinct vertices uint16 indices can
// address.
const MaxVertices = 1 << 16

// Mesh is an indexed triangle mesh. Attribute slices are tightly
// packed: 3 floats per position and normal, 2 per texture coordinate.
// Normals and TexCoords are nil when the source has none.
type Mesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	// Indices lists the vertices of every triangle, counter clockwise.
	Indices []uint16
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Validate checks that the attribute slices agree on the vertex count
// and that every index is in range.
func (m *Mesh) Validate() error {
	n := m.VertexCount()
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("geometry: %d position floats, not a multiple of 3", len(m.Positions))
	}
	if n > MaxVertices {
		return fmt.Errorf("geometry: %d vertices exceed %d", n, MaxVertices)
	}
	if m.Normals != nil && len(m.Normals) != n*3 {
		return fmt.Errorf("geometry: %d normal floats for %d vertices", len(m.Normals), n)
	}
	if m.TexCoords != nil && len(m.TexCoords) != n*2 {
		return fmt.Errorf("geometry: %d texture coordinate floats for %d vertices", len(m.TexCoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("geometry: %d indices, not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("geometry: index %d is %d, out of range", i, idx)
		}
	}
	return nil
}

// Bounds returns the axis aligned bounding box of the positions.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	for i := 0; i+2 < len(m.Positions); i += 3 {
		p := [3]float32(m.Positions[i : i+3])
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for c := range p {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	return lo, hi
}
