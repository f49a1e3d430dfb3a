package engine

import (
	"slices"

	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
)

// Buffer is a linear byte store that can be written, read back and mapped.
//
// While a buffer is mapped the only permitted calls are MappedData, Unmap
// and Release. Setting a member of a uniform block maps the block's buffer,
// and it stays mapped until the owning program's next Use or until the
// block's buffer is replaced.
type Buffer interface {
	Size() int
	Usage() device.Usage
	// SetData replaces the buffer with size bytes. A nil data zero-fills.
	SetData(size int, data []byte, usage device.Usage)
	SetSubData(offset int, data []byte)
	// GetSubData copies len(dst) bytes starting at offset into dst.
	GetSubData(offset int, dst []byte)
	Map(access device.Access) []byte
	Unmap()
	IsMapped() bool
	MappedData() []byte
	Release()
}

// bufferState holds the checks shared by all Buffer implementations.
type bufferState struct {
	size     int
	usage    device.Usage
	mapped   bool
	access   device.Access
	released bool
}

func (s *bufferState) Size() int           { return s.size }
func (s *bufferState) Usage() device.Usage { return s.usage }
func (s *bufferState) IsMapped() bool      { return s.mapped }

func (s *bufferState) mustBeLive(op string) {
	if s.released {
		precondition(ErrReleased, "%s", op)
	}
}

func (s *bufferState) mustNotBeMapped(op string) {
	s.mustBeLive(op)
	if s.mapped {
		precondition(ErrBufferMapped, "%s", op)
	}
}

func (s *bufferState) mustBeInRange(op string, offset, n int) {
	if offset < 0 || n < 0 || offset+n > s.size {
		precondition(ErrOutOfRange, "%s [%d, %d) of %d bytes", op, offset, offset+n, s.size)
	}
}

func checkData(op string, size int, data []byte) {
	if size < 0 || (data != nil && len(data) < size) {
		precondition(ErrOutOfRange, "%s: %d bytes from %d bytes of data", op, size, len(data))
	}
}

// CPUBuffer keeps its contents in host memory. A writable mapping hands out
// the backing slice; a ReadOnly mapping is a copy, so writes to it are lost.
type CPUBuffer struct {
	bufferState
	data    []byte
	mapping []byte
}

var _ Buffer = (*CPUBuffer)(nil)

func NewCPUBuffer(size int, usage device.Usage) *CPUBuffer {
	b := &CPUBuffer{}
	b.SetData(size, nil, usage)
	return b
}

func (b *CPUBuffer) SetData(size int, data []byte, usage device.Usage) {
	b.mustNotBeMapped("SetData")
	checkData("SetData", size, data)
	b.data = make([]byte, size)
	if data != nil {
		copy(b.data, data)
	}
	b.size = size
	b.usage = usage
}

func (b *CPUBuffer) SetSubData(offset int, data []byte) {
	b.mustNotBeMapped("SetSubData")
	b.mustBeInRange("SetSubData", offset, len(data))
	copy(b.data[offset:], data)
}

func (b *CPUBuffer) GetSubData(offset int, dst []byte) {
	b.mustNotBeMapped("GetSubData")
	b.mustBeInRange("GetSubData", offset, len(dst))
	copy(dst, b.data[offset:])
}

func (b *CPUBuffer) Map(access device.Access) []byte {
	b.mustNotBeMapped("Map")
	b.mapped = true
	b.access = access
	b.mapping = b.data
	if !access.Writable() {
		b.mapping = slices.Clone(b.data)
	}
	return b.mapping
}

func (b *CPUBuffer) Unmap() {
	b.mustBeLive("Unmap")
	if !b.mapped {
		precondition(ErrBufferNotMapped, "Unmap")
	}
	b.mapped = false
	b.mapping = nil
}

func (b *CPUBuffer) MappedData() []byte {
	if !b.mapped {
		return nil
	}
	return b.mapping
}

// Bytes returns the backing storage.
func (b *CPUBuffer) Bytes() []byte { return b.data }

func (b *CPUBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.mapped = false
	b.data, b.mapping = nil, nil
}

// GPUBuffer is a buffer object owned by the device.
//
// A host shadow of the contents is filled by the first full readback and
// dropped by any write, so repeated reads of an unchanged buffer do not
// stall on the device.
type GPUBuffer struct {
	bufferState

	ctx     *Context
	handle  device.Buffer
	mapping []byte
	shadow  []byte

	unit  opt.T[int]
	users map[device.Program]int
}

var _ Buffer = (*GPUBuffer)(nil)

// NewGPUBuffer creates a device buffer. Without options it is empty with
// DynamicDraw usage.
func (c *Context) NewGPUBuffer(opts ...BufferOption) *GPUBuffer {
	d := bufferDesc{usage: device.DynamicDraw}
	for _, option := range opts {
		option(&d)
	}
	b := &GPUBuffer{
		ctx:    c,
		handle: c.dev.CreateBuffer(),
		users:  map[device.Program]int{},
	}
	b.usage = d.usage
	if d.size > 0 {
		b.SetData(d.size, d.data, d.usage)
	}
	c.check("NewGPUBuffer")
	return b
}

func (b *GPUBuffer) Handle() device.Buffer { return b.handle }

func (b *GPUBuffer) SetData(size int, data []byte, usage device.Usage) {
	b.mustNotBeMapped("SetData")
	checkData("SetData", size, data)
	if data != nil {
		data = data[:size]
	}
	b.ctx.dev.BufferData(b.handle, size, data, usage)
	b.size = size
	b.usage = usage
	b.shadow = nil
	b.ctx.check("SetData")
}

func (b *GPUBuffer) SetSubData(offset int, data []byte) {
	b.mustNotBeMapped("SetSubData")
	b.mustBeInRange("SetSubData", offset, len(data))
	b.ctx.dev.BufferSubData(b.handle, offset, data)
	b.shadow = nil
	b.ctx.check("SetSubData")
}

func (b *GPUBuffer) GetSubData(offset int, dst []byte) {
	b.mustNotBeMapped("GetSubData")
	b.mustBeInRange("GetSubData", offset, len(dst))
	if b.shadow != nil {
		copy(dst, b.shadow[offset:])
		return
	}
	b.ctx.dev.GetBufferSubData(b.handle, offset, dst)
	b.ctx.check("GetSubData")
}

// Data returns a copy of the whole buffer.
func (b *GPUBuffer) Data() []byte {
	b.mustNotBeMapped("Data")
	if b.shadow == nil {
		b.shadow = make([]byte, b.size)
		b.ctx.dev.GetBufferSubData(b.handle, 0, b.shadow)
		b.ctx.check("Data")
	}
	return slices.Clone(b.shadow)
}

func (b *GPUBuffer) Map(access device.Access) []byte {
	b.mustNotBeMapped("Map")
	m := b.ctx.dev.MapBuffer(b.handle, access)
	b.ctx.check("Map")
	if m == nil {
		m = []byte{}
	}
	b.mapped = true
	b.access = access
	b.mapping = m
	if access.Writable() {
		b.shadow = nil
	}
	return m
}

func (b *GPUBuffer) Unmap() {
	b.mustBeLive("Unmap")
	if !b.mapped {
		precondition(ErrBufferNotMapped, "Unmap")
	}
	b.ctx.dev.UnmapBuffer(b.handle)
	b.mapped = false
	b.mapping = nil
	b.ctx.check("Unmap")
}

func (b *GPUBuffer) MappedData() []byte { return b.mapping }

// Access is the access mode of the current mapping.
func (b *GPUBuffer) Access() device.Access { return b.access }

func (b *GPUBuffer) AddUser(p device.Program) {
	b.users[p]++
}

func (b *GPUBuffer) RemoveUser(p device.Program) {
	if b.users[p] <= 1 {
		delete(b.users, p)
		return
	}
	b.users[p]--
}

func (b *GPUBuffer) IsUsedBy(p device.Program) bool {
	return b.users[p] > 0
}

// BindToUniformBufferUnit makes the buffer available to p through a uniform
// buffer unit and returns the unit. A buffer that is already bound keeps its
// unit.
func (b *GPUBuffer) BindToUniformBufferUnit(p device.Program) (int, error) {
	b.mustNotBeMapped("BindToUniformBufferUnit")
	unit, err := b.ctx.UniformBufferUnits().bindFor(b, p)
	if err != nil {
		return -1, err
	}
	b.ctx.check("BindToUniformBufferUnit")
	return unit, nil
}

// Unit returns the uniform buffer unit the buffer occupies, if any.
func (b *GPUBuffer) Unit() (int, bool) {
	return b.unit.Value, b.unit.Specified
}

func (b *GPUBuffer) boundUnit() opt.T[int]     { return b.unit }
func (b *GPUBuffer) setBoundUnit(u opt.T[int]) { b.unit = u }

// Release unmaps and unbinds the buffer and deletes it from the device.
// Releasing twice is a no-op.
func (b *GPUBuffer) Release() {
	if b.released {
		return
	}
	if b.mapped {
		b.Unmap()
	}
	if b.unit.Specified {
		b.ctx.UniformBufferUnits().Unbind(b)
	}
	if len(b.users) > 0 {
		b.ctx.log().Warn("releasing buffer still in use", "buffer", b.handle, "programs", len(b.users))
	}
	b.ctx.registry.forget(b)
	b.ctx.dev.DeleteBuffer(b.handle)
	b.released = true
	b.shadow = nil
	b.ctx.check("Release")
}
