package engine

import (
	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
)

// Sampler holds texture sampling parameters.
type Sampler struct {
	ctx      *Context
	handle   device.Sampler
	params   device.SamplerParams
	released bool
}

func (c *Context) NewSampler(params device.SamplerParams) *Sampler {
	s := &Sampler{ctx: c, handle: c.dev.CreateSampler(params), params: params}
	c.check("NewSampler")
	return s
}

func (s *Sampler) Handle() device.Sampler       { return s.handle }
func (s *Sampler) Params() device.SamplerParams { return s.params }

// Release unbinds every texture unit using the sampler and deletes it.
func (s *Sampler) Release() {
	if s.released {
		return
	}
	if s.ctx.textureUnits != nil {
		s.ctx.textureUnits.UnbindFunc(func(k textureKey) bool { return k.sampler == s })
	}
	s.ctx.dev.DeleteSampler(s.handle)
	s.released = true
	s.ctx.check("Sampler.Release")
}

type Texture struct {
	ctx    *Context
	handle device.Texture
	desc   device.TextureDesc
	users  map[device.Program]int
	// units maps each sampler the texture is bound with to its unit.
	units    map[*Sampler]int
	released bool
}

func (c *Context) NewTexture(desc device.TextureDesc) *Texture {
	t := &Texture{
		ctx:    c,
		handle: c.dev.CreateTexture(desc),
		desc:   desc,
		users:  map[device.Program]int{},
		units:  map[*Sampler]int{},
	}
	c.check("NewTexture")
	return t
}

func (t *Texture) Handle() device.Texture   { return t.handle }
func (t *Texture) Desc() device.TextureDesc { return t.desc }

func (t *Texture) AddUser(p device.Program) {
	t.users[p]++
}

func (t *Texture) RemoveUser(p device.Program) {
	if t.users[p] <= 1 {
		delete(t.users, p)
		return
	}
	t.users[p]--
}

func (t *Texture) IsUsedBy(p device.Program) bool {
	return t.users[p] > 0
}

// BindToTextureUnit binds the texture with sampler s, which may be nil, and
// returns the unit. The same texture with another sampler takes another unit.
func (t *Texture) BindToTextureUnit(s *Sampler, p device.Program) (int, error) {
	if t.released {
		precondition(ErrReleased, "BindToTextureUnit")
	}
	unit, err := t.ctx.textureBindings().bindFor(textureKey{texture: t, sampler: s}, p)
	if err != nil {
		return -1, err
	}
	t.ctx.check("BindToTextureUnit")
	return unit, nil
}

// Release unbinds and deletes the texture.
func (t *Texture) Release() {
	if t.released {
		return
	}
	if len(t.units) > 0 {
		t.ctx.textureBindings().UnbindFunc(func(k textureKey) bool { return k.texture == t })
	}
	if len(t.users) > 0 {
		t.ctx.log().Warn("releasing texture still in use", "texture", t.handle, "programs", len(t.users))
	}
	t.ctx.dev.DeleteTexture(t.handle)
	t.released = true
	t.ctx.check("Texture.Release")
}

// textureKey is the occupant of a texture unit.
type textureKey struct {
	texture *Texture
	sampler *Sampler
}

func (k textureKey) IsUsedBy(p device.Program) bool { return k.texture.IsUsedBy(p) }

func (k textureKey) boundUnit() opt.T[int] {
	if u, ok := k.texture.units[k.sampler]; ok {
		return opt.V(u)
	}
	return opt.Unspecified[int]()
}

func (k textureKey) setBoundUnit(u opt.T[int]) {
	if u.Specified {
		k.texture.units[k.sampler] = u.Value
		return
	}
	delete(k.texture.units, k.sampler)
}
