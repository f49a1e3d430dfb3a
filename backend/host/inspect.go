package host

import "github.com/hulkholden/gpubind/device"

// Count returns how many times the named call was issued.
func (d *Device) Count(op string) int { return d.calls[op] }

// Counts returns a copy of all call counters.
func (d *Device) Counts() map[string]int {
	counts := make(map[string]int, len(d.calls))
	for op, n := range d.calls {
		counts[op] = n
	}
	return counts
}

func (d *Device) ResetCounts() {
	d.calls = make(map[string]int)
}

// UniformUnit returns the buffer attached to a uniform buffer unit.
func (d *Device) UniformUnit(unit int) device.Buffer { return d.uniformUnits[unit] }

// TextureUnit returns the texture and sampler attached to a texture unit.
func (d *Device) TextureUnit(unit int) (device.Texture, device.Sampler) {
	tb := d.textureUnits[unit]
	return tb.texture, tb.sampler
}

// Uniform returns the encoded value last written to a uniform location.
func (d *Device) Uniform(p device.Program, location int) ([]byte, bool) {
	v, ok := d.uniforms[uniformKey{p, location}]
	return v, ok
}

// BlockBinding returns the unit a uniform block of p reads from.
func (d *Device) BlockBinding(p device.Program, block int) (int, bool) {
	unit, ok := d.blockBindings[blockKey{p, block}]
	return unit, ok
}

// Contents returns a copy of the committed contents of b.
func (d *Device) Contents(b device.Buffer) []byte {
	buf, ok := d.buffers[b]
	if !ok {
		return nil
	}
	return append([]byte(nil), buf.data...)
}

// IsMapped reports whether b is currently mapped.
func (d *Device) IsMapped(b device.Buffer) bool {
	buf, ok := d.buffers[b]
	return ok && buf.mapped != nil
}

// CurrentProgram returns the program in use.
func (d *Device) CurrentProgram() device.Program { return d.current }

// Live reports the number of live objects of each kind.
type Live struct {
	Buffers, Programs, Textures, Samplers int
}

func (d *Device) Live() Live {
	return Live{
		Buffers:  len(d.buffers),
		Programs: len(d.programs),
		Textures: len(d.textures),
		Samplers: len(d.samplers),
	}
}
