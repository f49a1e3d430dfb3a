package engine

import (
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
)

// UniformBlock is a named group of uniforms backed by one GPUBuffer.
//
// Member writes go through a mapping of the buffer which stays open until
// the program is used, so a frame's worth of updates costs one map and one
// unmap.
type UniformBlock struct {
	program  *Program
	name     string
	index    int
	layout   wgsltypes.Struct
	uniforms map[string]*Uniform
	members  []*Uniform
	buffer   *GPUBuffer
	// unit is the last unit sent with UniformBlockBinding.
	unit opt.T[int]
}

func newUniformBlock(p *Program, index int, layout wgsltypes.Struct) *UniformBlock {
	b := &UniformBlock{
		program:  p,
		name:     layout.Name,
		index:    index,
		layout:   layout,
		uniforms: make(map[string]*Uniform, len(layout.Fields)),
	}
	for _, name := range layout.Fields {
		f := layout.FieldMap[name]
		u := &Uniform{
			program:  p,
			block:    b,
			name:     name,
			typ:      f.WGSLType,
			location: int(f.Offset),
		}
		b.uniforms[name] = u
		b.members = append(b.members, u)
	}
	return b
}

func (b *UniformBlock) Name() string             { return b.name }
func (b *UniformBlock) Index() int               { return b.index }
func (b *UniformBlock) Program() *Program        { return b.program }
func (b *UniformBlock) Layout() wgsltypes.Struct { return b.layout }
func (b *UniformBlock) Buffer() *GPUBuffer       { return b.buffer }

// Size is the minimum size of a buffer backing the block.
func (b *UniformBlock) Size() int { return b.layout.UniformBufferSize() }

// Uniforms returns the members in declaration order.
func (b *UniformBlock) Uniforms() []*Uniform { return b.members }

// Uniform looks up a member by its bare name, then as "<block>.<name>".
func (b *UniformBlock) Uniform(name string) (*Uniform, bool) {
	if u, ok := b.uniforms[name]; ok {
		return u, true
	}
	u, ok := b.uniforms[b.name+"."+name]
	return u, ok
}

// WGSL declares the block's struct and its uniform variable.
func (b *UniformBlock) WGSL(group int) string {
	return b.layout.ToWGSL() + varDecl(group, b.index, b.name)
}

// SetBuffer replaces the block's buffer. The old buffer is unmapped and
// loses the program as a user. Registry buffers are released through the
// registry. Detaching with a nil buf also releases a buffer no program
// uses any more.
func (b *UniformBlock) SetBuffer(buf *GPUBuffer) {
	if buf == b.buffer {
		return
	}
	if buf != nil {
		buf.mustBeLive("SetBuffer")
		if buf.Size() < b.Size() {
			precondition(ErrOutOfRange, "SetBuffer: block %q needs %d bytes, buffer has %d", b.name, b.Size(), buf.Size())
		}
	}
	pid := b.program.id
	reg := b.program.ctx.registry
	if old := b.buffer; old != nil {
		b.unmapBuffer()
		old.RemoveUser(pid)
		b.buffer = nil
		if !reg.Release(old) && buf == nil && len(old.users) == 0 {
			old.Release()
		}
	}
	if buf != nil {
		buf.AddUser(pid)
		reg.retain(buf)
		b.buffer = buf
	}
}

// mapBuffer maps the block buffer for writing and returns the mapping from
// offset on.
func (b *UniformBlock) mapBuffer(offset int) []byte {
	if b.buffer == nil {
		precondition(ErrNoBuffer, "block %q", b.name)
	}
	if b.buffer.IsMapped() && !b.buffer.Access().Writable() {
		b.buffer.Unmap()
	}
	if !b.buffer.IsMapped() {
		b.buffer.Map(device.ReadWrite)
	}
	return b.buffer.MappedData()[offset:]
}

func (b *UniformBlock) unmapBuffer() {
	if b.buffer != nil && b.buffer.IsMapped() {
		b.buffer.Unmap()
	}
}

// BindToUniformBufferUnit binds the block's buffer for p and returns its unit.
func (b *UniformBlock) BindToUniformBufferUnit(p device.Program) (int, error) {
	if b.buffer == nil {
		precondition(ErrNoBuffer, "block %q", b.name)
	}
	b.unmapBuffer()
	return b.buffer.BindToUniformBufferUnit(p)
}

// bind makes the block's buffer visible to its program, updating the
// program's block binding only when the unit changed.
func (b *UniformBlock) bind() error {
	if b.buffer == nil {
		b.program.ctx.log().Warn("uniform block has no buffer", "program", b.program.id, "block", b.name)
		return nil
	}
	unit, err := b.BindToUniformBufferUnit(b.program.id)
	if err != nil {
		return err
	}
	c := b.program.ctx
	if b.unit.Specified && b.unit.Value == unit {
		c.skipped++
		return nil
	}
	c.dev.UniformBlockBinding(b.program.id, b.index, unit)
	b.unit = opt.V(unit)
	return nil
}
