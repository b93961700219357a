// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"image"
	"math/bits"

	"golang.org/x/image/draw"

	"github.com/vglgo/vgl/gpu/driver"
)

const (
	NumTextureUnits = 32
	// NumTextures is the number of texture names per unit. Name 0 is
	// the default texture.
	NumTextures = 1024
)

type textureSlot struct {
	used  bool
	valid bool
	tex   driver.Texture
	// pixels is the RGBA8 base level, kept for mipmap generation.
	pixels        []byte
	width, height int
	levels        int
}

// textureUnit holds the binding and sampling state of one unit, and
// the client arrays and array objects addressed through it.
type textureUnit struct {
	slots    []textureSlot
	bound    uint32
	enabled  bool
	env      driver.TexEnv
	envColor [4]float32
	sampler  driver.Sampler

	vertex, color, texcoord arrayDesc
	objects                 objectSet
}

var texEnvModes = map[Enum]driver.TexEnv{
	MODULATE: driver.TexEnvModulate,
	DECAL:    driver.TexEnvDecal,
	BLEND:    driver.TexEnvBlend,
	REPLACE:  driver.TexEnvReplace,
}

var minFilters = map[Enum]struct {
	filter driver.TextureFilter
	mip    driver.MipFilter
}{
	NEAREST:                {driver.FilterNearest, driver.MipNone},
	LINEAR:                 {driver.FilterLinear, driver.MipNone},
	NEAREST_MIPMAP_NEAREST: {driver.FilterNearest, driver.MipNearest},
	LINEAR_MIPMAP_NEAREST:  {driver.FilterLinear, driver.MipNearest},
	NEAREST_MIPMAP_LINEAR:  {driver.FilterNearest, driver.MipLinear},
	LINEAR_MIPMAP_LINEAR:   {driver.FilterLinear, driver.MipLinear},
}

var magFilters = map[Enum]driver.TextureFilter{
	NEAREST: driver.FilterNearest,
	LINEAR:  driver.FilterLinear,
}

var wrapModes = map[Enum]driver.TextureWrap{
	REPEAT:          driver.WrapRepeat,
	CLAMP:           driver.WrapClamp,
	CLAMP_TO_EDGE:   driver.WrapClamp,
	MIRRORED_REPEAT: driver.WrapMirror,
}

func newTextureUnit() textureUnit {
	return textureUnit{
		sampler: driver.Sampler{
			MinFilter: driver.FilterNearest,
			MagFilter: driver.FilterLinear,
			MipFilter: driver.MipLinear,
		},
		vertex:   arrayDesc{size: 4, typ: FLOAT},
		color:    arrayDesc{size: 4, typ: FLOAT},
		texcoord: arrayDesc{size: 4, typ: FLOAT},
	}
}

// slot returns the slot of name, allocating the unit's slots on first
// use.
func (u *textureUnit) slot(name uint32) *textureSlot {
	if u.slots == nil {
		u.slots = make([]textureSlot, NumTextures)
	}
	return &u.slots[name]
}

// texture returns the device texture bound to u, or nil if the bound
// texture has no image.
func (u *textureUnit) texture() driver.Texture {
	if u.slots == nil {
		return nil
	}
	s := &u.slots[u.bound]
	if !s.valid {
		return nil
	}
	return s.tex
}

func (s *textureSlot) release() {
	if s.valid {
		s.tex.Release()
	}
	*s = textureSlot{}
}

func (u *textureUnit) release() {
	for i := range u.slots {
		u.slots[i].release()
	}
	u.objects.release()
}

// ActiveTexture selects the unit texture binding calls apply to.
func (c *Context) ActiveTexture(texture Enum) {
	if !c.idle("ActiveTexture") {
		return
	}
	if texture < TEXTURE0 || texture >= TEXTURE0+NumTextureUnits {
		c.setError("ActiveTexture", INVALID_ENUM)
		return
	}
	c.serverUnit = int(texture - TEXTURE0)
}

// ClientActiveTexture selects the unit array calls apply to.
func (c *Context) ClientActiveTexture(texture Enum) {
	if !c.idle("ClientActiveTexture") {
		return
	}
	if texture < TEXTURE0 || texture >= TEXTURE0+NumTextureUnits {
		c.setError("ClientActiveTexture", INVALID_ENUM)
		return
	}
	c.clientUnit = int(texture - TEXTURE0)
}

// GenTextures returns up to n unused texture names of the active
// unit.
func (c *Context) GenTextures(n int) []uint32 {
	if !c.idle("GenTextures") {
		return nil
	}
	if n < 0 {
		c.setError("GenTextures", INVALID_VALUE)
		return nil
	}
	u := &c.units[c.serverUnit]
	var names []uint32
	for i := uint32(1); i < NumTextures && len(names) < n; i++ {
		if s := u.slot(i); !s.used {
			s.used = true
			names = append(names, i)
		}
	}
	if len(names) < n {
		c.setError("GenTextures", OUT_OF_MEMORY)
	}
	return names
}

func (c *Context) BindTexture(target Enum, texture uint32) {
	if !c.idle("BindTexture") {
		return
	}
	if target != TEXTURE_2D {
		c.setError("BindTexture", INVALID_ENUM)
		return
	}
	if texture >= NumTextures {
		c.setError("BindTexture", INVALID_VALUE)
		return
	}
	u := &c.units[c.serverUnit]
	u.slot(texture).used = true
	u.bound = texture
}

// DeleteTextures releases the named textures. Bound names revert to
// the default texture.
func (c *Context) DeleteTextures(textures []uint32) {
	if !c.idle("DeleteTextures") {
		return
	}
	u := &c.units[c.serverUnit]
	for _, t := range textures {
		if t >= NumTextures {
			c.setError("DeleteTextures", INVALID_VALUE)
			continue
		}
		if t == 0 {
			continue
		}
		u.slot(t).release()
		if u.bound == t {
			u.bound = 0
		}
	}
}

// TexImage2D replaces the image of the bound texture. pixels holds
// rows bottom to top; nil allocates an image of zeros. Only level 0
// can be specified; GenerateMipmap derives the others.
func (c *Context) TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, pixels []byte) {
	if !c.idle("TexImage2D") {
		return
	}
	if target != TEXTURE_2D || typ != UNSIGNED_BYTE || (format != RGB && format != RGBA) || (internalFormat != RGB && internalFormat != RGBA) {
		c.setError("TexImage2D", INVALID_ENUM)
		return
	}
	bpp := 4
	if format == RGB {
		bpp = 3
	}
	maxSize := int32(c.dev.Caps().MaxTextureSize)
	if level != 0 || width <= 0 || height <= 0 || width > maxSize || height > maxSize {
		c.setError("TexImage2D", INVALID_VALUE)
		return
	}
	n := int(width) * int(height)
	if pixels != nil && len(pixels) < n*bpp {
		c.setError("TexImage2D", INVALID_VALUE)
		return
	}
	rgba := make([]byte, n*4)
	switch {
	case pixels == nil:
	case bpp == 4:
		copy(rgba, pixels)
	default:
		for i := 0; i < n; i++ {
			copy(rgba[i*4:i*4+3], pixels[i*3:i*3+3])
			rgba[i*4+3] = 0xff
		}
	}
	if internalFormat == RGB {
		for i := 3; i < len(rgba); i += 4 {
			rgba[i] = 0xff
		}
	}
	c.upload("TexImage2D", rgba, int(width), int(height), 1)
}

// upload replaces the bound texture of the active unit with an RGBA8
// image and its generated mip levels.
func (c *Context) upload(op string, rgba []byte, width, height, levels int) {
	u := &c.units[c.serverUnit]
	s := u.slot(u.bound)
	tex, err := c.dev.NewTexture(driver.TextureDesc{Width: width, Height: height, Levels: levels})
	if err != nil {
		c.log.Error("texture allocation failed", "op", op, "err", err)
		c.setError(op, OUT_OF_MEMORY)
		return
	}
	tex.Upload(0, rgba)
	if levels > 1 {
		src := &image.RGBA{Pix: rgba, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
		w, h := width, height
		for l := 1; l < levels; l++ {
			w, h = max(w/2, 1), max(h/2, 1)
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
			tex.Upload(l, dst.Pix)
		}
	}
	smp := u.sampler
	if levels == 1 {
		smp.MipFilter = driver.MipNone
	} else if smp.MipFilter == driver.MipNone {
		smp.MipFilter = driver.MipNearest
	}
	tex.SetSampler(smp)
	s.release()
	*s = textureSlot{used: true, valid: true, tex: tex, pixels: rgba, width: width, height: height, levels: levels}
	c.log.Debug("texture uploaded", "unit", c.serverUnit, "name", u.bound, "width", width, "height", height, "levels", levels)
}

// TexImage2DFromImage uploads img as the RGBA image of the bound
// texture. Rows are flipped so the top of img lands at texture
// coordinate t = 1.
func (c *Context) TexImage2DFromImage(img image.Image) {
	if !c.idle("TexImage2DFromImage") {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		c.setError("TexImage2DFromImage", INVALID_VALUE)
		return
	}
	dst := image.NewRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	driver.FlipImageY(dst.Stride, b.Dy(), dst.Pix)
	c.TexImage2D(TEXTURE_2D, 0, RGBA, int32(b.Dx()), int32(b.Dy()), RGBA, UNSIGNED_BYTE, dst.Pix)
}

// GenerateMipmap derives the full mip chain of the bound texture from
// its base level. A texture without an image is left alone.
func (c *Context) GenerateMipmap(target Enum) {
	if !c.idle("GenerateMipmap") {
		return
	}
	if target != TEXTURE_2D {
		c.setError("GenerateMipmap", INVALID_ENUM)
		return
	}
	u := &c.units[c.serverUnit]
	s := u.slot(u.bound)
	if !s.valid {
		return
	}
	levels := bits.Len(uint(max(s.width, s.height)))
	c.upload("GenerateMipmap", s.pixels, s.width, s.height, levels)
}

// TexParameteri sets a sampling parameter of the active unit and the
// bound texture.
func (c *Context) TexParameteri(target, pname Enum, param int32) {
	if !c.idle("TexParameteri") {
		return
	}
	if target != TEXTURE_2D {
		c.setError("TexParameteri", INVALID_ENUM)
		return
	}
	u := &c.units[c.serverUnit]
	p := Enum(param)
	ok := false
	switch pname {
	case TEXTURE_MIN_FILTER:
		var f struct {
			filter driver.TextureFilter
			mip    driver.MipFilter
		}
		if f, ok = minFilters[p]; ok {
			u.sampler.MinFilter, u.sampler.MipFilter = f.filter, f.mip
		}
	case TEXTURE_MAG_FILTER:
		var f driver.TextureFilter
		if f, ok = magFilters[p]; ok {
			u.sampler.MagFilter = f
		}
	case TEXTURE_WRAP_S:
		var w driver.TextureWrap
		if w, ok = wrapModes[p]; ok {
			u.sampler.WrapU = w
		}
	case TEXTURE_WRAP_T:
		var w driver.TextureWrap
		if w, ok = wrapModes[p]; ok {
			u.sampler.WrapV = w
		}
	}
	if !ok {
		c.setError("TexParameteri", INVALID_ENUM)
		return
	}
	if s := u.slot(u.bound); s.valid {
		smp := u.sampler
		if s.levels == 1 {
			smp.MipFilter = driver.MipNone
		}
		s.tex.SetSampler(smp)
	}
}

// TexEnvi sets the texture environment mode of the active unit.
func (c *Context) TexEnvi(target, pname Enum, param int32) {
	if !c.idle("TexEnvi") {
		return
	}
	if target != TEXTURE_ENV || pname != TEXTURE_ENV_MODE {
		c.setError("TexEnvi", INVALID_ENUM)
		return
	}
	env, ok := texEnvModes[Enum(param)]
	if !ok {
		c.setError("TexEnvi", INVALID_ENUM)
		return
	}
	c.units[c.serverUnit].env = env
}

// TexEnvfv sets the texture environment color of the active unit.
func (c *Context) TexEnvfv(target, pname Enum, params []float32) {
	if !c.idle("TexEnvfv") {
		return
	}
	if target != TEXTURE_ENV || pname != TEXTURE_ENV_COLOR {
		c.setError("TexEnvfv", INVALID_ENUM)
		return
	}
	if len(params) < 4 {
		c.setError("TexEnvfv", INVALID_VALUE)
		return
	}
	u := &c.units[c.serverUnit]
	for i := range u.envColor {
		u.envColor[i] = clamp01(params[i])
	}
}
