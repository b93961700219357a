// SPDX-License-Identifier: Unlicense OR MIT

package geometry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// objVertex is a v/vt/vn reference, with absent elements -1.
type objVertex struct {
	pos, uv, normal int
}

type objDecoder struct {
	pos, uv, normal []float32
	lookup          map[objVertex]uint16
	mesh            Mesh
	hasUV           bool
	hasNormal       bool
}

// DecodeOBJ reads the geometry of a Wavefront OBJ file: v, vt and vn
// records and f faces. Polygons are split into triangle fans. Other
// records, materials and groups included, are ignored. Every distinct
// v/vt/vn combination becomes one vertex.
func DecodeOBJ(r io.Reader) (*Mesh, error) {
	d := &objDecoder{lookup: make(map[objVertex]uint16)}
	s := bufio.NewScanner(r)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := d.record(fields[0], fields[1:]); err != nil {
			return nil, fmt.Errorf("geometry: obj line %d: %w", lineNum, err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("geometry: obj: %w", err)
	}
	m := &d.mesh
	if !d.hasNormal {
		m.Normals = nil
	}
	if !d.hasUV {
		m.TexCoords = nil
	}
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("geometry: obj: no faces")
	}
	return m, nil
}

func (d *objDecoder) record(kind string, args []string) error {
	switch kind {
	case "v":
		return d.floats(&d.pos, args, 3)
	case "vt":
		return d.floats(&d.uv, args, 2)
	case "vn":
		return d.floats(&d.normal, args, 3)
	case "f":
		return d.face(args)
	}
	return nil
}

// floats appends the first n values of args to dst. Extra values, such
// as a w coordinate, are ignored.
func (d *objDecoder) floats(dst *[]float32, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%d values, expected %d", len(args), n)
	}
	for _, a := range args[:n] {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return err
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

func (d *objDecoder) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face with %d vertices", len(args))
	}
	idx := make([]uint16, len(args))
	for i, a := range args {
		v, err := d.parseVertex(a)
		if err != nil {
			return err
		}
		if idx[i], err = d.vertex(v); err != nil {
			return err
		}
	}
	for i := 1; i+1 < len(idx); i++ {
		d.mesh.Indices = append(d.mesh.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

func (d *objDecoder) parseVertex(s string) (objVertex, error) {
	v := objVertex{pos: -1, uv: -1, normal: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return v, fmt.Errorf("invalid face vertex %q", s)
	}
	counts := [3]int{len(d.pos) / 3, len(d.uv) / 2, len(d.normal) / 3}
	refs := [3]*int{&v.pos, &v.uv, &v.normal}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return v, fmt.Errorf("face vertex %q without position", s)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return v, fmt.Errorf("face vertex %q: %w", s, err)
		}
		// Negative references count back from the latest element.
		if n < 0 {
			n += counts[i]
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return v, fmt.Errorf("face vertex %q out of range", s)
		}
		*refs[i] = n
	}
	return v, nil
}

func (d *objDecoder) vertex(v objVertex) (uint16, error) {
	if idx, ok := d.lookup[v]; ok {
		return idx, nil
	}
	m := &d.mesh
	n := m.VertexCount()
	if n >= MaxVertices {
		return 0, fmt.Errorf("more than %d distinct vertices", MaxVertices)
	}
	m.Positions = append(m.Positions, d.pos[v.pos*3:v.pos*3+3]...)
	if v.uv >= 0 {
		d.hasUV = true
		m.TexCoords = append(m.TexCoords, d.uv[v.uv*2:v.uv*2+2]...)
	} else {
		m.TexCoords = append(m.TexCoords, 0, 0)
	}
	if v.normal >= 0 {
		d.hasNormal = true
		m.Normals = append(m.Normals, d.normal[v.normal*3:v.normal*3+3]...)
	} else {
		m.Normals = append(m.Normals, 0, 0, 0)
	}
	idx := uint16(n)
	d.lookup[v] = idx
	return idx, nil
}
