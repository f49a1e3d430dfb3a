package engine

import (
	"fmt"
	"strings"

	"github.com/hulkholden/gpubind/common/vmath"
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
)

// UniformDesc declares a uniform outside any block. Uniforms of type
// wgsltypes.Texture2D become samplers.
type UniformDesc struct {
	Name     string
	Type     wgsltypes.TypeName
	Location int
}

// BlockDesc declares a uniform block. Blocks are indexed in declaration order.
type BlockDesc struct {
	Name    string
	Members []wgsltypes.Member
}

type ProgramDesc struct {
	Label    string
	Uniforms []UniformDesc
	Blocks   []BlockDesc
}

// Program is a device program with its uniforms, samplers and blocks.
type Program struct {
	ctx   *Context
	id    device.Program
	label string

	uniforms   map[string]*Uniform
	plain      []*Uniform
	samplers   map[string]*UniformSampler
	samplerSeq []*UniformSampler
	blocks     []*UniformBlock
	blockNames map[string]*UniformBlock

	// dirty holds uniforms set while the program was not active.
	dirty    []*Uniform
	released bool
}

// NewProgram creates a program. Each block gets the registry's buffer for
// its name.
func (c *Context) NewProgram(desc ProgramDesc) (*Program, error) {
	p := &Program{
		ctx:        c,
		label:      desc.Label,
		uniforms:   map[string]*Uniform{},
		samplers:   map[string]*UniformSampler{},
		blockNames: map[string]*UniformBlock{},
	}
	locations := map[int]string{}
	for _, ud := range desc.Uniforms {
		if p.declared(ud.Name) {
			return nil, fmt.Errorf("%w: duplicate uniform %q", ErrInvalidProgram, ud.Name)
		}
		if other, ok := locations[ud.Location]; ok {
			return nil, fmt.Errorf("%w: uniforms %q and %q share location %d", ErrInvalidProgram, other, ud.Name, ud.Location)
		}
		locations[ud.Location] = ud.Name
		t, ok := wgsltypes.Lookup(ud.Type)
		if !ok {
			return nil, fmt.Errorf("%w: uniform %q: unhandled WGSL type %q", ErrInvalidProgram, ud.Name, ud.Type)
		}
		if t.IsOpaque() {
			s := &UniformSampler{program: p, name: ud.Name, location: ud.Location}
			p.samplers[ud.Name] = s
			p.samplerSeq = append(p.samplerSeq, s)
			continue
		}
		u := &Uniform{program: p, name: ud.Name, typ: t, location: ud.Location}
		p.uniforms[ud.Name] = u
		p.plain = append(p.plain, u)
	}
	layouts := make([]wgsltypes.Struct, len(desc.Blocks))
	for i, bd := range desc.Blocks {
		if bd.Name == "" {
			return nil, fmt.Errorf("%w: block %d has no name", ErrInvalidProgram, i)
		}
		if _, dup := p.blockNames[bd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate block %q", ErrInvalidProgram, bd.Name)
		}
		layout, err := wgsltypes.NewLayout(bd.Name, bd.Members...)
		if err != nil {
			return nil, fmt.Errorf("%w: block %q: %v", ErrInvalidProgram, bd.Name, err)
		}
		layouts[i] = layout
		p.blockNames[bd.Name] = nil
	}

	// Reserve shared buffers before touching the device so a size conflict
	// leaves nothing behind.
	for _, layout := range layouts {
		if e, ok := c.registry.entries[layout.Name]; ok && e.buffer.Size() < layout.UniformBufferSize() {
			return nil, fmt.Errorf("%w: block %q needs %d bytes, shared buffer has %d", ErrBlockSize, layout.Name, layout.UniformBufferSize(), e.buffer.Size())
		}
	}

	p.id = c.dev.CreateProgram()
	for i, layout := range layouts {
		b := newUniformBlock(p, i, layout)
		p.blocks = append(p.blocks, b)
		p.blockNames[layout.Name] = b
		e, err := c.registry.entry(layout.Name, b.Size())
		if err != nil {
			p.Release()
			return nil, err
		}
		b.SetBuffer(e.buffer)
	}
	c.check("NewProgram")
	c.log().Debug("program created", "program", p.id, "label", p.label,
		"uniforms", len(p.plain), "samplers", len(p.samplerSeq), "blocks", len(p.blocks))
	return p, nil
}

func (p *Program) declared(name string) bool {
	_, u := p.uniforms[name]
	_, s := p.samplers[name]
	return u || s
}

func (p *Program) ID() device.Program { return p.id }
func (p *Program) Label() string      { return p.label }

// Active reports whether p is the context's current program.
func (p *Program) Active() bool { return p.ctx.active == p }

// Uniform looks up a uniform by name, including block members.
func (p *Program) Uniform(name string) (*Uniform, bool) {
	if u, ok := p.uniforms[name]; ok {
		return u, true
	}
	for _, b := range p.blocks {
		if u, ok := b.Uniform(name); ok {
			return u, true
		}
	}
	if blk, member, ok := strings.Cut(name, "."); ok {
		if b := p.blockNames[blk]; b != nil {
			return b.Uniform(member)
		}
	}
	return nil, false
}

// MustUniform is like Uniform but panics if name is not declared.
func (p *Program) MustUniform(name string) *Uniform {
	u, ok := p.Uniform(name)
	if !ok {
		panic(fmt.Sprintf("engine: program %q has no uniform %q", p.label, name))
	}
	return u
}

func (p *Program) Sampler(name string) (*UniformSampler, bool) {
	s, ok := p.samplers[name]
	return s, ok
}

func (p *Program) Block(name string) (*UniformBlock, bool) {
	b := p.blockNames[name]
	return b, b != nil
}

func (p *Program) Blocks() []*UniformBlock { return p.blocks }

func (p *Program) Samplers() []*UniformSampler { return p.samplerSeq }

// Set stores v in the named uniform.
func (p *Program) Set(name string, v wgsltypes.Value) {
	p.MustUniform(name).Set(v)
}

// SetFloat sets an f32 uniform.
func (p *Program) SetFloat(name string, v float32) {
	p.Set(name, wgsltypes.Float(v))
}

func (p *Program) SetInt(name string, v int32) {
	p.Set(name, wgsltypes.Int(v))
}

func (p *Program) SetUint(name string, v uint32) {
	p.Set(name, wgsltypes.Uint(v))
}

func (p *Program) SetBool(name string, v bool) {
	p.Set(name, wgsltypes.Bool(v))
}

func (p *Program) SetVec3(name string, v vmath.V3) {
	p.Set(name, wgsltypes.Vec3(v))
}

func (p *Program) SetVec4(name string, v vmath.V4) {
	p.Set(name, wgsltypes.Vec4(v))
}

func (p *Program) SetMat4(name string, m vmath.M4) {
	p.Set(name, wgsltypes.Mat4(m))
}

// SetTexture attaches a texture to the named sampler, keeping its
// sampling parameters.
func (p *Program) SetTexture(name string, t *Texture) error {
	s, ok := p.samplers[name]
	if !ok {
		panic(fmt.Sprintf("engine: program %q has no sampler %q", p.label, name))
	}
	return s.Set(t, s.sampler)
}

// Use makes p the current program and brings the device up to date:
// block buffers are unmapped and bound, textures are bound, and uniforms
// set while p was inactive are sent.
func (p *Program) Use() error {
	if p.released {
		precondition(ErrReleased, "Use")
	}
	c := p.ctx
	if c.active != p {
		c.dev.UseProgram(p.id)
		c.active = p
	}
	for _, b := range p.blocks {
		if err := b.bind(); err != nil {
			return fmt.Errorf("binding block %q: %w", b.name, err)
		}
	}
	for _, s := range p.samplerSeq {
		if err := s.push(); err != nil {
			return fmt.Errorf("binding sampler %q: %w", s.name, err)
		}
	}
	for _, u := range p.dirty {
		u.push()
	}
	p.dirty = p.dirty[:0]
	c.check("Use")
	return nil
}

// WGSL declares the program's blocks in bind group group.
func (p *Program) WGSL(group int) string {
	var sb strings.Builder
	for _, b := range p.blocks {
		sb.WriteString(b.WGSL(group))
	}
	return sb.String()
}

// Release detaches all buffers and textures and deletes the program.
func (p *Program) Release() {
	if p.released {
		return
	}
	c := p.ctx
	for _, b := range p.blocks {
		b.SetBuffer(nil)
	}
	for _, s := range p.samplerSeq {
		if s.texture != nil {
			s.texture.RemoveUser(p.id)
			s.texture = nil
		}
	}
	if c.active == p {
		c.active = nil
	}
	c.dev.DeleteProgram(p.id)
	p.dirty = nil
	p.released = true
	c.check("Program.Release")
}

func varDecl(group, binding int, name string) string {
	return fmt.Sprintf("@group(%d) @binding(%d) var<uniform> %s : %s;\n", group, binding, strings.ToLower(name[:1])+name[1:], name)
}
