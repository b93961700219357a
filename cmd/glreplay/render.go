// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"

	"github.com/vglgo/vgl/geometry"
	"github.com/vglgo/vgl/gl"
	"github.com/vglgo/vgl/gpu/driver"
)

// renderer holds the device objects of a scene.
type renderer struct {
	scene    *Scene
	log      *slog.Logger
	meshes   map[string]*mesh
	textures map[string]uint32
}

type mesh struct {
	*geometry.Mesh
	// positions, texcoords and indices name the buffer objects of the
	// buffers draw mode. texcoords is 0 for meshes without texture
	// coordinates.
	positions, texcoords, indices uint32
}

func newRenderer(c *gl.Context, s *Scene, log *slog.Logger) (*renderer, error) {
	r := &renderer{
		scene:    s,
		log:      log,
		meshes:   make(map[string]*mesh),
		textures: make(map[string]uint32),
	}
	for _, ms := range s.Meshes {
		m, err := s.loadMesh(ms)
		if err != nil {
			return nil, err
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", ms.Name, err)
		}
		r.meshes[ms.Name] = r.upload(c, m)
		log.Debug("mesh loaded", "name", ms.Name, "vertices", m.VertexCount(), "triangles", len(m.Indices)/3)
	}
	for _, ts := range s.Textures {
		img, err := s.loadTexture(ts)
		if err != nil {
			return nil, err
		}
		names := c.GenTextures(1)
		if len(names) == 0 {
			return nil, fmt.Errorf("texture %q: no texture names left", ts.Name)
		}
		c.BindTexture(gl.TEXTURE_2D, names[0])
		c.TexImage2DFromImage(img)
		c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		if ts.Mipmap {
			c.GenerateMipmap(gl.TEXTURE_2D)
			c.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		}
		r.textures[ts.Name] = names[0]
		log.Debug("texture loaded", "name", ts.Name, "size", img.Bounds().Size())
	}
	if err := c.GetError(); err != gl.NO_ERROR {
		return nil, fmt.Errorf("scene upload: %v", err)
	}
	return r, nil
}

// upload copies the mesh into buffer objects.
func (r *renderer) upload(c *gl.Context, m *geometry.Mesh) *mesh {
	out := &mesh{Mesh: m}
	names := c.GenBuffers(3)
	if len(names) < 3 {
		return out
	}
	out.positions, out.indices = names[0], names[1]
	pos := f32.Bytes(driver.NativeOrder, m.Positions...)
	c.BindBuffer(gl.ARRAY_BUFFER, out.positions)
	c.BufferData(gl.ARRAY_BUFFER, len(pos), gl.STATIC_DRAW, pos)
	if m.TexCoords != nil {
		out.texcoords = names[2]
		uv := f32.Bytes(driver.NativeOrder, m.TexCoords...)
		c.BindBuffer(gl.ARRAY_BUFFER, out.texcoords)
		c.BufferData(gl.ARRAY_BUFFER, len(uv), gl.STATIC_DRAW, uv)
	}
	c.BindBuffer(gl.ARRAY_BUFFER, 0)
	idx := make([]byte, len(m.Indices)*2)
	driver.PutUint16s(idx, m.Indices)
	c.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, out.indices)
	c.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx), gl.STATIC_DRAW, idx)
	c.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return out
}

// frame draws frame n of the scene.
func (r *renderer) frame(c *gl.Context, n int) {
	s := r.scene
	c.ClearColor(s.Clear[0], s.Clear[1], s.Clear[2], s.Clear[3])
	c.Enable(gl.DEPTH_TEST)
	c.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if s.Cull {
		c.Enable(gl.CULL_FACE)
	} else {
		c.Disable(gl.CULL_FACE)
	}

	cam := s.Camera
	var vp [4]float32
	c.GetFloatv(gl.VIEWPORT, vp[:])
	aspect := vp[2] / max(vp[3], 1)
	proj := mgl32.Perspective(mgl32.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
	c.MatrixMode(gl.PROJECTION)
	c.LoadMatrixf(proj[:])
	view := mgl32.LookAtV(mgl32.Vec3(*cam.Eye), mgl32.Vec3(cam.Target), mgl32.Vec3{0, 1, 0})
	c.MatrixMode(gl.MODELVIEW)
	c.LoadMatrixf(view[:])

	for _, d := range s.Draws {
		r.draw(c, d, n)
	}
}

func (r *renderer) draw(c *gl.Context, d Draw, frame int) {
	m := r.meshes[d.Mesh]
	c.PushMatrix()
	defer c.PopMatrix()
	c.Translatef(d.Translate[0], d.Translate[1], d.Translate[2])
	if d.Spin != 0 {
		c.Rotatef(d.Spin*float32(frame), d.Axis[0], d.Axis[1], d.Axis[2])
	}
	c.Scalef(d.Scale[0], d.Scale[1], d.Scale[2])

	textured := false
	if tex, ok := r.textures[d.Texture]; ok && m.TexCoords != nil {
		textured = true
		c.Enable(gl.TEXTURE_2D)
		c.BindTexture(gl.TEXTURE_2D, tex)
	} else {
		c.Disable(gl.TEXTURE_2D)
	}
	if d.Blend {
		c.Enable(gl.BLEND)
		c.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		c.Disable(gl.BLEND)
	}
	col := d.Color
	c.Color4f(col[0], col[1], col[2], col[3])

	c.EnableClientState(gl.VERTEX_ARRAY)
	if textured {
		c.EnableClientState(gl.TEXTURE_COORD_ARRAY)
	} else {
		c.DisableClientState(gl.TEXTURE_COORD_ARRAY)
	}
	count := int32(len(m.Indices))
	switch d.Mode {
	case "buffers":
		c.BindBuffer(gl.ARRAY_BUFFER, m.positions)
		c.VertexPointer(3, gl.FLOAT, 0, gl.Offset(0))
		if textured {
			c.BindBuffer(gl.ARRAY_BUFFER, m.texcoords)
			c.TexCoordPointer(2, gl.FLOAT, 0, gl.Offset(0))
		}
		c.BindBuffer(gl.ARRAY_BUFFER, 0)
		c.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.indices)
		c.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, gl.Offset(0))
		c.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	case "arrays":
		c.VertexPointer(3, gl.FLOAT, 0, gl.Floats(m.Positions...))
		if textured {
			c.TexCoordPointer(2, gl.FLOAT, 0, gl.Floats(m.TexCoords...))
		}
		c.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, gl.Uint16s(m.Indices...))
	case "objects":
		// Objects belong to the client unit, so every draw packs its
		// mesh again.
		n := int32(m.VertexCount())
		c.VertexObject(3, gl.FLOAT, 0, n, gl.Floats(m.Positions...))
		if textured {
			c.TexCoordObject(2, gl.FLOAT, 0, n, gl.Floats(m.TexCoords...))
		}
		c.IndexObject(gl.UNSIGNED_SHORT, 0, count, gl.Uint16s(m.Indices...))
		c.DrawObjects(gl.TRIANGLES, count, false)
	case "immediate":
		c.Begin(gl.TRIANGLES)
		for _, idx := range m.Indices {
			i := int(idx)
			if textured {
				c.TexCoord2fv(m.TexCoords[i*2 : i*2+2])
			}
			c.Vertex3fv(m.Positions[i*3 : i*3+3])
		}
		c.End()
	}
}
