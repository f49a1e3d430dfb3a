package engine

import (
	"github.com/hulkholden/gpubind/common/wgsltypes"
)

// Uniform is a named, typed program input. A uniform declared inside a
// uniform block lives in the block's buffer at Location; otherwise Location
// is the device uniform location.
type Uniform struct {
	program  *Program
	block    *UniformBlock
	name     string
	typ      wgsltypes.Type
	location int
	value    wgsltypes.Value
	dirty    bool
}

func (u *Uniform) Name() string           { return u.name }
func (u *Uniform) Type() wgsltypes.Type   { return u.typ }
func (u *Uniform) Program() *Program      { return u.program }
func (u *Uniform) Location() int          { return u.location }
func (u *Uniform) Value() wgsltypes.Value { return u.value }
func (u *Uniform) Dirty() bool            { return u.dirty }
func (u *Uniform) Block() *UniformBlock   { return u.block }
func (u *Uniform) InBlock() bool          { return u.block != nil }

// Set stores v. Block members are written into the mapped block buffer.
// Other uniforms reach the device immediately if their program is active
// and on the next Use otherwise.
//
// Set panics with ErrTypeMismatch if v is not of the uniform's type.
func (u *Uniform) Set(v wgsltypes.Value) {
	if v == nil || v.Type().Name != u.typ.Name {
		var got wgsltypes.TypeName = "nil"
		if v != nil {
			got = v.Type().Name
		}
		precondition(ErrTypeMismatch, "uniform %q is %s, not %s", u.name, u.typ.Name, got)
	}
	if u.block != nil {
		wgsltypes.Put(u.block.mapBuffer(u.location), v)
		u.value = v
		return
	}
	u.value = v
	if u.program.Active() {
		u.push()
		u.program.ctx.check("Uniform.Set")
		return
	}
	if !u.dirty {
		u.dirty = true
		u.program.dirty = append(u.program.dirty, u)
		u.program.ctx.log().Debug("uniform deferred", "program", u.program.id, "uniform", u.name)
	}
}

func (u *Uniform) push() {
	c := u.program.ctx
	c.dev.SetUniform(u.program.id, u.location, u.value)
	c.pushes++
	u.dirty = false
}
