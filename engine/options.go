package engine

import (
	"log/slog"

	"github.com/hulkholden/gpubind/device"
)

// MaxBindingUnits caps the size of every binding table.
const MaxBindingUnits = 64

type contextConfig struct {
	maxUniformBufferUnits int
	maxTextureUnits       int
	debug                 bool
	registry              *BlockBufferRegistry
	logger                *slog.Logger
}

type ContextOption func(c *contextConfig)

// WithMaxUniformBufferUnits limits the uniform buffer binding table to n
// units. The device limit still applies.
func WithMaxUniformBufferUnits(n int) ContextOption {
	return func(c *contextConfig) {
		c.maxUniformBufferUnits = n
	}
}

// WithMaxTextureUnits limits the texture binding table to n units.
func WithMaxTextureUnits(n int) ContextOption {
	return func(c *contextConfig) {
		c.maxTextureUnits = n
	}
}

// WithDebug makes the context check the device error state after every
// state-changing sequence and panic on errors.
func WithDebug() ContextOption {
	return func(c *contextConfig) {
		c.debug = true
	}
}

// WithRegistry sets the registry that supplies buffers to uniform blocks.
func WithRegistry(r *BlockBufferRegistry) ContextOption {
	return func(c *contextConfig) {
		c.registry = r
	}
}

func WithLogger(l *slog.Logger) ContextOption {
	return func(c *contextConfig) {
		c.logger = l
	}
}

type bufferDesc struct {
	size  int
	data  []byte
	usage device.Usage
}

type BufferOption func(d *bufferDesc)

func WithUsage(u device.Usage) BufferOption {
	return func(d *bufferDesc) {
		d.usage = u
	}
}

// WithSize allocates n zeroed bytes.
func WithSize(n int) BufferOption {
	return func(d *bufferDesc) {
		d.size = n
	}
}

// WithData initializes the buffer with a copy of data.
func WithData(data []byte) BufferOption {
	return func(d *bufferDesc) {
		d.data = data
		d.size = len(data)
	}
}

// tableSize clamps a requested table size to the device limit and MaxBindingUnits.
func tableSize(requested, limit int) int {
	n := min(limit, MaxBindingUnits)
	if requested > 0 {
		n = min(requested, n)
	}
	return max(n, 0)
}
