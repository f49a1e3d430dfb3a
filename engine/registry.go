package engine

import (
	"fmt"
	"slices"

	"github.com/hulkholden/gpubind/device"
)

type registryEntry struct {
	name   string
	buffer *GPUBuffer
	refs   int
}

// BlockBufferRegistry hands out uniform block buffers by block name so that
// blocks with the same name in different programs share one buffer. Buffers
// are reference counted and released with their last reference.
type BlockBufferRegistry struct {
	ctx      *Context
	entries  map[string]*registryEntry
	byBuffer map[*GPUBuffer]*registryEntry
}

func NewBlockBufferRegistry() *BlockBufferRegistry {
	return &BlockBufferRegistry{
		entries:  map[string]*registryEntry{},
		byBuffer: map[*GPUBuffer]*registryEntry{},
	}
}

func (r *BlockBufferRegistry) attach(c *Context) {
	if r.ctx != nil && r.ctx != c {
		panic("engine: registry already belongs to another context")
	}
	r.ctx = c
}

// Acquire returns the buffer registered for name, creating it with size
// bytes if needed, and takes a reference to it.
func (r *BlockBufferRegistry) Acquire(name string, size int) (*GPUBuffer, error) {
	e, err := r.entry(name, size)
	if err != nil {
		return nil, err
	}
	e.refs++
	return e.buffer, nil
}

func (r *BlockBufferRegistry) entry(name string, size int) (*registryEntry, error) {
	if e, ok := r.entries[name]; ok {
		if e.buffer.Size() < size {
			return nil, fmt.Errorf("%w: block %q needs %d bytes, shared buffer has %d", ErrBlockSize, name, size, e.buffer.Size())
		}
		return e, nil
	}
	b := r.ctx.NewGPUBuffer(WithSize(size), WithUsage(device.DynamicDraw))
	e := &registryEntry{name: name, buffer: b}
	r.entries[name] = e
	r.byBuffer[b] = e
	r.ctx.log().Debug("block buffer created", "block", name, "size", size)
	return e, nil
}

func (r *BlockBufferRegistry) retain(b *GPUBuffer) {
	if e, ok := r.byBuffer[b]; ok {
		e.refs++
	}
}

// Release drops a reference to b and releases the buffer when none remain.
// It reports whether b is managed by the registry.
func (r *BlockBufferRegistry) Release(b *GPUBuffer) bool {
	e, ok := r.byBuffer[b]
	if !ok {
		return false
	}
	e.refs--
	if e.refs <= 0 {
		r.forget(b)
		b.Release()
	}
	return true
}

// forget removes b without releasing it.
func (r *BlockBufferRegistry) forget(b *GPUBuffer) {
	e, ok := r.byBuffer[b]
	if !ok {
		return
	}
	delete(r.byBuffer, b)
	delete(r.entries, e.name)
}

func (r *BlockBufferRegistry) Lookup(name string) (*GPUBuffer, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.buffer, true
}

func (r *BlockBufferRegistry) Managed(b *GPUBuffer) bool {
	_, ok := r.byBuffer[b]
	return ok
}

// Refs returns the number of references held on the buffer registered for name.
func (r *BlockBufferRegistry) Refs(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.refs
	}
	return 0
}

func (r *BlockBufferRegistry) Len() int { return len(r.entries) }

func (r *BlockBufferRegistry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
