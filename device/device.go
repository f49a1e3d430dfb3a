// Package device defines the boundary between the engine and a native
// graphics API. Implementations are bound to a single context and must only
// be called from the goroutine that owns it.
package device

import (
	"fmt"

	"github.com/hulkholden/gpubind/common/wgsltypes"
)

// Handles name device objects. The zero handle means "none".
type (
	Buffer  uint32
	Program uint32
	Texture uint32
	Sampler uint32
)

// Usage is a hint describing how buffer contents will be accessed.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
	StaticRead
	DynamicRead
	StreamRead
	StaticCopy
	DynamicCopy
	StreamCopy
)

func (u Usage) String() string {
	switch u {
	case StaticDraw:
		return "STATIC_DRAW"
	case DynamicDraw:
		return "DYNAMIC_DRAW"
	case StreamDraw:
		return "STREAM_DRAW"
	case StaticRead:
		return "STATIC_READ"
	case DynamicRead:
		return "DYNAMIC_READ"
	case StreamRead:
		return "STREAM_READ"
	case StaticCopy:
		return "STATIC_COPY"
	case DynamicCopy:
		return "DYNAMIC_COPY"
	case StreamCopy:
		return "STREAM_COPY"
	}
	return fmt.Sprintf("Usage(%d)", int(u))
}

// Access is the access mode of a mapped buffer.
type Access int

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "READ_ONLY"
	case WriteOnly:
		return "WRITE_ONLY"
	case ReadWrite:
		return "READ_WRITE"
	}
	return fmt.Sprintf("Access(%d)", int(a))
}

// Readable reports whether mapped memory holds the buffer contents.
func (a Access) Readable() bool { return a != WriteOnly }

// Writable reports whether writes to mapped memory are committed on unmap.
func (a Access) Writable() bool { return a != ReadOnly }

// Filter is a texture filtering mode.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// Wrap is a texture coordinate wrapping mode.
type Wrap int

const (
	ClampToEdge Wrap = iota
	Repeat
	MirroredRepeat
)

// SamplerParams describes the filtering and wrapping applied when sampling a texture.
type SamplerParams struct {
	MinFilter, MagFilter Filter
	WrapS, WrapT         Wrap
}

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Width, Height int
	// Format is the pixel format name, e.g. "rgba8unorm".
	Format string
}

// Limits reports implementation-dependent maxima.
type Limits struct {
	MaxUniformBufferBindings int
	MaxTextureUnits          int
}

// Device is the set of native calls the engine issues. Calls are
// synchronous; GetBufferSubData and MapBuffer may stall until pending
// device writes complete.
type Device interface {
	Limits() Limits

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	// BufferData reallocates b with size bytes, initialized from data when
	// it is non-nil.
	BufferData(b Buffer, size int, data []byte, usage Usage)
	BufferSubData(b Buffer, offset int, data []byte)
	GetBufferSubData(b Buffer, offset int, dst []byte)
	// MapBuffer exposes the contents of b as host memory until UnmapBuffer.
	MapBuffer(b Buffer, access Access) []byte
	UnmapBuffer(b Buffer)
	// BindUniformBuffer attaches b to a uniform buffer binding unit.
	// The zero buffer detaches whatever is bound.
	BindUniformBuffer(unit int, b Buffer)

	CreateProgram() Program
	DeleteProgram(p Program)
	UseProgram(p Program)
	// UniformBlockBinding routes block index of p to a uniform buffer unit.
	UniformBlockBinding(p Program, block, unit int)
	// SetUniform writes v to the uniform at location in p.
	SetUniform(p Program, location int, v wgsltypes.Value)

	CreateTexture(desc TextureDesc) Texture
	DeleteTexture(t Texture)
	CreateSampler(params SamplerParams) Sampler
	DeleteSampler(s Sampler)
	// BindTexture attaches t and s to a texture unit. The zero texture
	// detaches whatever is bound.
	BindTexture(unit int, t Texture, s Sampler)

	// Err returns and clears the first error recorded since the last call,
	// or nil.
	Err() error
}
