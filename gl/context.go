// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"log/slog"

	"github.com/vglgo/vgl/gpu/driver"
	"github.com/vglgo/vgl/internal/f32color"
	"github.com/vglgo/vgl/internal/pool"
)

// Config holds the optional parameters of NewContext.
type Config struct {
	// PoolSize is the capacity in bytes of the transient vertex pool.
	// Zero selects 4 MiB.
	PoolSize int
	// Logger receives debug records of program patching, allocation
	// and recorded errors. Nil discards them.
	Logger *slog.Logger
}

const defaultPoolSize = 4 << 20

func (c *Config) normalize() {
	if c.PoolSize == 0 {
		c.PoolSize = defaultPoolSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

type phase uint8

const (
	phaseIdle phase = iota
	phaseBatching
)

// Context is a fixed-function pipeline bound to a device.
type Context struct {
	dev    driver.Device
	log    *slog.Logger
	pool   *pool.Ring
	progs  *resolver
	width  int
	height int

	err   Enum
	phase phase

	modelview  matrixStack
	projection matrixStack
	matrixMode Enum

	depth   depthState
	stencil stencilState
	blend   blendState
	cull    cullState
	polygon polygonState
	alpha   alphaState
	scissor scissorState
	view    viewState
	clear   clearState

	color    f32color.RGBA
	texcoord [2]float32

	units      [NumTextureUnits]textureUnit
	serverUnit int
	clientUnit int

	buffers       [NumBuffers]bufferObject
	arrayBuffer   uint32
	elementBuffer uint32

	batch  batch
	custom CustomProgram

	// quad is the full screen triangle fan used by clears and scissor
	// mask passes.
	quad        driver.Buffer
	quadIndices driver.Buffer
}

// NewContext returns a context drawing to dev. The context takes
// ownership of no device state other than what it allocates; Release
// frees that.
func NewContext(dev driver.Device, cfg Config) (*Context, error) {
	cfg.normalize()
	caps := dev.Caps()
	c := &Context{
		dev:        dev,
		log:        cfg.Logger,
		width:      caps.Width,
		height:     caps.Height,
		modelview:  newMatrixStack(ModelviewStackDepth),
		projection: newMatrixStack(ProjectionStackDepth),
		matrixMode: MODELVIEW,
		color:      f32color.RGBA{R: 1, G: 1, B: 1, A: 1},
	}
	c.depth = depthState{fn: driver.CompareLess, mask: true}
	c.stencil = newStencilState()
	c.blend = newBlendState()
	c.cull = cullState{face: BACK, front: CCW}
	c.alpha = alphaState{fn: driver.AlphaAlways}
	c.view = viewState{w: int32(caps.Width), h: int32(caps.Height), far: 1}
	c.clear = clearState{depth: 1}
	c.scissor.region = c.view.rect(c.height)
	for i := range c.units {
		c.units[i] = newTextureUnit()
	}
	var err error
	c.pool, err = pool.New(dev, cfg.PoolSize, c.log)
	if err != nil {
		return nil, fmt.Errorf("gl: transient pool: %w", err)
	}
	if err := c.initGeometry(); err != nil {
		c.Release()
		return nil, err
	}
	c.progs, err = newResolver(dev, c.log)
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("gl: programs: %w", err)
	}
	c.applyAll()
	return c, nil
}

func (c *Context) initGeometry() error {
	var err error
	c.quad, err = c.dev.NewBuffer(4 * 2 * 4)
	if err != nil {
		return fmt.Errorf("gl: default geometry: %w", err)
	}
	copy(c.quad.Bytes(), floatBytes(-1, -1, 1, -1, 1, 1, -1, 1))
	c.quadIndices, err = c.dev.NewBuffer(4 * 2)
	if err != nil {
		return fmt.Errorf("gl: default geometry: %w", err)
	}
	driver.PutUint16s(c.quadIndices.Bytes(), []uint16{0, 1, 2, 3})
	return nil
}

// applyAll pushes every piece of device tracked state.
func (c *Context) applyAll() {
	c.applyViewport()
	c.applyDepth()
	c.applyCull()
	c.applyPolygon()
	c.applyStencil()
	c.applyBlend()
}

// idle reports whether a state changing call is legal, recording
// INVALID_OPERATION for op if a batch is open.
func (c *Context) idle(op string) bool {
	if c.phase == phaseBatching {
		c.setError(op, INVALID_OPERATION)
		return false
	}
	return true
}

// Finish blocks until the device has executed every submitted draw.
func (c *Context) Finish() {
	if !c.idle("Finish") {
		return
	}
	c.dev.Finish()
}

// SwapBuffers presents the frame and starts a new one. Transient
// vertex data of the finished frame is recycled, and programs unused
// during it are released.
func (c *Context) SwapBuffers() {
	if !c.idle("SwapBuffers") {
		return
	}
	c.dev.Present()
	c.pool.Reset()
	c.progs.frame()
}

// Release frees every device object owned by the context. The
// context must not be used afterwards.
func (c *Context) Release() {
	for i := range c.units {
		c.units[i].release()
	}
	for i := range c.buffers {
		c.buffers[i].release()
	}
	if c.progs != nil {
		c.progs.release()
		c.progs = nil
	}
	if c.quad != nil {
		c.quad.Release()
		c.quad = nil
	}
	if c.quadIndices != nil {
		c.quadIndices.Release()
		c.quadIndices = nil
	}
	if c.pool != nil {
		c.pool.Release()
		c.pool = nil
	}
}
