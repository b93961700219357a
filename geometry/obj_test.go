// SPDX-License-Identifier: Unlicense OR MIT

package geometry

import (
	"slices"
	"strings"
	"testing"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl none
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestDecodeQuad(t *testing.T) {
	m, err := DecodeOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if got, exp := m.Indices, []uint16{0, 1, 2, 0, 2, 3}; !slices.Equal(got, exp) {
		t.Errorf("indices: got %v, expected %v", got, exp)
	}
	if got, exp := m.TexCoords, []float32{0, 0, 1, 0, 1, 1, 0, 1}; !slices.Equal(got, exp) {
		t.Errorf("texcoords: got %v, expected %v", got, exp)
	}
	if n := len(m.Normals); n != 12 {
		t.Errorf("got %d normal floats, expected 12", n)
	}
	lo, hi := m.Bounds()
	if lo != [3]float32{0, 0, 0} || hi != [3]float32{1, 1, 0} {
		t.Errorf("bounds: got %v %v", lo, hi)
	}
}

func TestDecodeShared(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf -4 -2 -1\n"
	m, err := DecodeOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("got %d vertices, expected 4", m.VertexCount())
	}
	if got, exp := m.Indices, []uint16{0, 1, 2, 0, 2, 3}; !slices.Equal(got, exp) {
		t.Errorf("indices: got %v, expected %v", got, exp)
	}
	if m.Normals != nil || m.TexCoords != nil {
		t.Error("mesh without normals or texture coordinates has them")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []string{
		"",
		"v 0 0\n",
		"v 0 0 x\n",
		"v 0 0 0\nf 1 2\n",
		"v 0 0 0\nf 1 1 4\n",
		"v 0 0 0\nf 1/1 1 1\n",
		"v 0 0 0\nf /1 1 1\n",
	}
	for _, src := range tests {
		if _, err := DecodeOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%q: no error", src)
		}
	}
}

func TestValidate(t *testing.T) {
	m := &Mesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint16{0, 1, 3}}
	if err := m.Validate(); err == nil {
		t.Error("out of range index accepted")
	}
	m.Indices[2] = 2
	if err := m.Validate(); err != nil {
		t.Error(err)
	}
	m.Normals = []float32{0}
	if err := m.Validate(); err == nil {
		t.Error("short normals accepted")
	}
}
