package engine

import (
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/mokiat/gog/opt"
)

// UniformSampler is a texture uniform. Its device value is the texture unit
// holding the texture, which is assigned when the program is used.
type UniformSampler struct {
	program  *Program
	name     string
	location int
	texture  *Texture
	sampler  *Sampler
	// unit is the last unit sent to the device.
	unit opt.T[int]
}

func (s *UniformSampler) Name() string      { return s.name }
func (s *UniformSampler) Location() int     { return s.location }
func (s *UniformSampler) Program() *Program { return s.program }
func (s *UniformSampler) Texture() *Texture { return s.texture }
func (s *UniformSampler) Sampler() *Sampler { return s.sampler }

// Set attaches texture, which may be nil, sampled with sampler, which may
// also be nil. The program becomes one of the texture's users. If the
// program is active the texture is bound right away.
func (s *UniformSampler) Set(texture *Texture, sampler *Sampler) error {
	if texture != s.texture {
		pid := s.program.id
		if s.texture != nil {
			s.texture.RemoveUser(pid)
		}
		if texture != nil {
			texture.AddUser(pid)
		}
		s.texture = texture
	}
	s.sampler = sampler
	if s.program.Active() {
		return s.push()
	}
	return nil
}

// push binds the texture to a unit and sends the unit to the device unless
// it already has it.
func (s *UniformSampler) push() error {
	if s.texture == nil {
		return nil
	}
	unit, err := s.texture.BindToTextureUnit(s.sampler, s.program.id)
	if err != nil {
		return err
	}
	c := s.program.ctx
	if s.unit.Specified && s.unit.Value == unit {
		c.skipped++
		return nil
	}
	c.dev.SetUniform(s.program.id, s.location, wgsltypes.Int(unit))
	c.pushes++
	s.unit = opt.V(unit)
	return nil
}
