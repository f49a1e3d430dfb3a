package engine

import (
	"fmt"
	"log/slog"

	"github.com/hulkholden/gpubind/device"
)

// Stats counts binding activity since the context was created.
type Stats struct {
	UniformBufferBinds     int
	UniformBufferEvictions int
	TextureBinds           int
	TextureEvictions       int
	// UniformPushes counts values sent to the device for plain uniforms and samplers.
	UniformPushes int
	// SkippedPushes counts sampler and block binding updates that were
	// elided because the device already had the value.
	SkippedPushes int
}

// Context owns the binding tables of one device.
type Context struct {
	dev      device.Device
	cfg      contextConfig
	registry *BlockBufferRegistry

	uniformUnits *BindingTable[*GPUBuffer]
	textureUnits *BindingTable[textureKey]

	active *Program

	pushes  int
	skipped int
}

func NewContext(dev device.Device, opts ...ContextOption) *Context {
	c := &Context{dev: dev}
	for _, option := range opts {
		option(&c.cfg)
	}
	c.registry = c.cfg.registry
	if c.registry == nil {
		c.registry = NewBlockBufferRegistry()
	}
	c.registry.attach(c)
	limits := dev.Limits()
	c.log().Info("context created",
		"maxUniformBufferBindings", limits.MaxUniformBufferBindings,
		"maxTextureUnits", limits.MaxTextureUnits,
		"debug", c.cfg.debug)
	return c
}

func (c *Context) Device() device.Device { return c.dev }

func (c *Context) Registry() *BlockBufferRegistry { return c.registry }

// ActiveProgram returns the program last made current with Use.
func (c *Context) ActiveProgram() *Program { return c.active }

func (c *Context) log() *slog.Logger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return Logger()
}

// UniformBufferUnits returns the uniform buffer binding table, sizing it
// from the device limits on first use.
func (c *Context) UniformBufferUnits() *BindingTable[*GPUBuffer] {
	if c.uniformUnits == nil {
		n := tableSize(c.cfg.maxUniformBufferUnits, c.dev.Limits().MaxUniformBufferBindings)
		c.uniformUnits = newBindingTable("uniform buffer", n, func(unit int, b *GPUBuffer, occupied bool) {
			var h device.Buffer
			if occupied {
				h = b.handle
			}
			c.dev.BindUniformBuffer(unit, h)
		})
		c.log().Info("uniform buffer units", "count", n)
	}
	return c.uniformUnits
}

// textureBindings returns the texture binding table.
func (c *Context) textureBindings() *BindingTable[textureKey] {
	if c.textureUnits == nil {
		n := tableSize(c.cfg.maxTextureUnits, c.dev.Limits().MaxTextureUnits)
		c.textureUnits = newBindingTable("texture", n, func(unit int, k textureKey, occupied bool) {
			var (
				t device.Texture
				s device.Sampler
			)
			if occupied {
				t = k.texture.handle
				if k.sampler != nil {
					s = k.sampler.handle
				}
			}
			c.dev.BindTexture(unit, t, s)
		})
		c.log().Info("texture units", "count", n)
	}
	return c.textureUnits
}

// UnitCounts returns the sizes of the uniform buffer and texture tables.
func (c *Context) UnitCounts() (uniformBuffers, textures int) {
	return c.UniformBufferUnits().Len(), c.textureBindings().Len()
}

func (c *Context) Stats() Stats {
	s := Stats{UniformPushes: c.pushes, SkippedPushes: c.skipped}
	if t := c.uniformUnits; t != nil {
		s.UniformBufferBinds = t.binds
		s.UniformBufferEvictions = t.evictions
	}
	if t := c.textureUnits; t != nil {
		s.TextureBinds = t.binds
		s.TextureEvictions = t.evictions
	}
	return s
}

// Err returns and clears the device error state.
func (c *Context) Err() error {
	return c.dev.Err()
}

// check panics on a pending device error when the context is in debug mode.
func (c *Context) check(op string) {
	if !c.cfg.debug {
		return
	}
	if err := c.dev.Err(); err != nil {
		panic(fmt.Errorf("%s: %w", op, err))
	}
}
