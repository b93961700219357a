// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Texture decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	"github.com/vglgo/vgl/geometry"
)

// Scene is a replay description loaded from YAML.
type Scene struct {
	// Width and Height select the display size, zero for the default.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Frames int `yaml:"frames"`
	// Clear is the clear color.
	Clear  [4]float32 `yaml:"clear"`
	Cull   bool       `yaml:"cull"`
	Camera Camera     `yaml:"camera"`

	Textures []TextureSpec `yaml:"textures"`
	Meshes   []MeshSpec    `yaml:"meshes"`
	Draws    []Draw        `yaml:"draws"`

	// dir is the directory file names are relative to.
	dir string
}

type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV    float32     `yaml:"fov"`
	Near   float32     `yaml:"near"`
	Far    float32     `yaml:"far"`
	Eye    *[3]float32 `yaml:"eye"`
	Target [3]float32  `yaml:"target"`
}

type TextureSpec struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Mipmap bool   `yaml:"mipmap"`
}

type MeshSpec struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Draw is one mesh drawn every frame.
type Draw struct {
	Mesh    string      `yaml:"mesh"`
	Texture string      `yaml:"texture"`
	Color   *[4]float32 `yaml:"color"`
	Blend   bool        `yaml:"blend"`
	// Mode selects the submission path: buffers, arrays, objects or
	// immediate.
	Mode      string      `yaml:"mode"`
	Translate [3]float32  `yaml:"translate"`
	Scale     *[3]float32 `yaml:"scale"`
	// Spin rotates the mesh by Spin degrees per frame around Axis.
	Spin float32     `yaml:"spin"`
	Axis *[3]float32 `yaml:"axis"`
}

var drawModes = map[string]bool{
	"buffers":   true,
	"arrays":    true,
	"objects":   true,
	"immediate": true,
}

// LoadScene reads and validates the scene at path.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s Scene
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	s.normalize()
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scene) normalize() {
	if s.Frames <= 0 {
		s.Frames = 1
	}
	c := &s.Camera
	if c.FOV == 0 {
		c.FOV = 60
	}
	if c.Near == 0 {
		c.Near = 0.1
	}
	if c.Far == 0 {
		c.Far = 100
	}
	if c.Eye == nil {
		c.Eye = &[3]float32{0, 0, 3}
	}
	for i := range s.Draws {
		d := &s.Draws[i]
		if d.Mode == "" {
			d.Mode = "buffers"
		}
		if d.Color == nil {
			d.Color = &[4]float32{1, 1, 1, 1}
		}
		if d.Scale == nil {
			d.Scale = &[3]float32{1, 1, 1}
		}
		if d.Axis == nil {
			d.Axis = &[3]float32{0, 1, 0}
		}
	}
}

func (s *Scene) validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", s.Width, s.Height)
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		return fmt.Errorf("invalid depth range %v-%v", s.Camera.Near, s.Camera.Far)
	}
	meshes := make(map[string]bool)
	for _, m := range s.Meshes {
		if m.Name == "" || m.File == "" {
			return errors.New("mesh without name or file")
		}
		if meshes[m.Name] {
			return fmt.Errorf("duplicate mesh %q", m.Name)
		}
		meshes[m.Name] = true
	}
	textures := make(map[string]bool)
	for _, t := range s.Textures {
		if t.Name == "" || t.File == "" {
			return errors.New("texture without name or file")
		}
		if textures[t.Name] {
			return fmt.Errorf("duplicate texture %q", t.Name)
		}
		textures[t.Name] = true
	}
	for i, d := range s.Draws {
		if !meshes[d.Mesh] {
			return fmt.Errorf("draw %d: unknown mesh %q", i, d.Mesh)
		}
		if d.Texture != "" && !textures[d.Texture] {
			return fmt.Errorf("draw %d: unknown texture %q", i, d.Texture)
		}
		if !drawModes[d.Mode] {
			return fmt.Errorf("draw %d: unknown mode %q", i, d.Mode)
		}
	}
	return nil
}

func (s *Scene) path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.dir, file)
}

func (s *Scene) loadMesh(m MeshSpec) (*geometry.Mesh, error) {
	f, err := os.Open(s.path(m.File))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mesh, err := geometry.DecodeOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	return mesh, nil
}

func (s *Scene) loadTexture(t TextureSpec) (image.Image, error) {
	f, err := os.Open(s.path(t.File))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", t.Name, err)
	}
	return img, nil
}
