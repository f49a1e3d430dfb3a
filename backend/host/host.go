// Package host implements device.Device in host memory. It follows the
// error semantics of a GL context and counts every call, which makes it
// usable as a software backend and as a test oracle.
package host

import (
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
)

// Names of counted calls.
const (
	OpCreateBuffer        = "CreateBuffer"
	OpDeleteBuffer        = "DeleteBuffer"
	OpBufferData          = "BufferData"
	OpBufferSubData       = "BufferSubData"
	OpGetBufferSubData    = "GetBufferSubData"
	OpMapBuffer           = "MapBuffer"
	OpUnmapBuffer         = "UnmapBuffer"
	OpBindUniformBuffer   = "BindUniformBuffer"
	OpCreateProgram       = "CreateProgram"
	OpDeleteProgram       = "DeleteProgram"
	OpUseProgram          = "UseProgram"
	OpUniformBlockBinding = "UniformBlockBinding"
	OpSetUniform          = "SetUniform"
	OpCreateTexture       = "CreateTexture"
	OpDeleteTexture       = "DeleteTexture"
	OpCreateSampler       = "CreateSampler"
	OpDeleteSampler       = "DeleteSampler"
	OpBindTexture         = "BindTexture"
)

// DefaultLimits are the limits reported unless WithLimits is given.
var DefaultLimits = device.Limits{
	MaxUniformBufferBindings: 72,
	MaxTextureUnits:          32,
}

type buffer struct {
	data   []byte
	usage  device.Usage
	mapped []byte
	access device.Access
}

type textureBinding struct {
	texture device.Texture
	sampler device.Sampler
}

type uniformKey struct {
	program  device.Program
	location int
}

type blockKey struct {
	program device.Program
	block   int
}

// Device is a host-memory device.
type Device struct {
	limits device.Limits

	next     uint32
	buffers  map[device.Buffer]*buffer
	programs map[device.Program]bool
	textures map[device.Texture]device.TextureDesc
	samplers map[device.Sampler]device.SamplerParams

	current       device.Program
	uniformUnits  []device.Buffer
	textureUnits  []textureBinding
	uniforms      map[uniformKey][]byte
	blockBindings map[blockKey]int
	calls         map[string]int
	err           *device.Error
}

var _ device.Device = (*Device)(nil)

type Option func(d *Device)

func WithLimits(l device.Limits) Option {
	return func(d *Device) {
		d.limits = l
	}
}

func New(opts ...Option) *Device {
	d := &Device{
		limits:        DefaultLimits,
		buffers:       make(map[device.Buffer]*buffer),
		programs:      make(map[device.Program]bool),
		textures:      make(map[device.Texture]device.TextureDesc),
		samplers:      make(map[device.Sampler]device.SamplerParams),
		uniforms:      make(map[uniformKey][]byte),
		blockBindings: make(map[blockKey]int),
		calls:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.uniformUnits = make([]device.Buffer, d.limits.MaxUniformBufferBindings)
	d.textureUnits = make([]textureBinding, d.limits.MaxTextureUnits)
	return d
}

func (d *Device) Limits() device.Limits { return d.limits }

// fail records the first error since the last call to Err.
func (d *Device) fail(op string, code device.Code) {
	if d.err == nil {
		d.err = &device.Error{Code: code, Op: op}
	}
}

func (d *Device) Err() error {
	if d.err == nil {
		return nil
	}
	err := d.err
	d.err = nil
	return err
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) buffer(op string, b device.Buffer) (*buffer, bool) {
	buf, ok := d.buffers[b]
	if !ok {
		d.fail(op, device.InvalidValue)
		return nil, false
	}
	return buf, true
}

func (d *Device) CreateBuffer() device.Buffer {
	d.calls[OpCreateBuffer]++
	b := device.Buffer(d.handle())
	d.buffers[b] = &buffer{}
	return b
}

func (d *Device) DeleteBuffer(b device.Buffer) {
	d.calls[OpDeleteBuffer]++
	if _, ok := d.buffer(OpDeleteBuffer, b); !ok {
		return
	}
	delete(d.buffers, b)
	for i, u := range d.uniformUnits {
		if u == b {
			d.uniformUnits[i] = 0
		}
	}
}

func (d *Device) BufferData(b device.Buffer, size int, data []byte, usage device.Usage) {
	d.calls[OpBufferData]++
	buf, ok := d.buffer(OpBufferData, b)
	if !ok {
		return
	}
	if buf.mapped != nil {
		d.fail(OpBufferData, device.InvalidOperation)
		return
	}
	if size < 0 || (data != nil && len(data) < size) {
		d.fail(OpBufferData, device.InvalidValue)
		return
	}
	buf.data = make([]byte, size)
	copy(buf.data, data)
	buf.usage = usage
}

func (d *Device) inRange(op string, buf *buffer, offset, n int) bool {
	if offset < 0 || offset+n > len(buf.data) {
		d.fail(op, device.InvalidValue)
		return false
	}
	if buf.mapped != nil {
		d.fail(op, device.InvalidOperation)
		return false
	}
	return true
}

func (d *Device) BufferSubData(b device.Buffer, offset int, data []byte) {
	d.calls[OpBufferSubData]++
	buf, ok := d.buffer(OpBufferSubData, b)
	if !ok || !d.inRange(OpBufferSubData, buf, offset, len(data)) {
		return
	}
	copy(buf.data[offset:], data)
}

func (d *Device) GetBufferSubData(b device.Buffer, offset int, dst []byte) {
	d.calls[OpGetBufferSubData]++
	buf, ok := d.buffer(OpGetBufferSubData, b)
	if !ok || !d.inRange(OpGetBufferSubData, buf, offset, len(dst)) {
		return
	}
	copy(dst, buf.data[offset:])
}

func (d *Device) MapBuffer(b device.Buffer, access device.Access) []byte {
	d.calls[OpMapBuffer]++
	buf, ok := d.buffer(OpMapBuffer, b)
	if !ok {
		return nil
	}
	if buf.mapped != nil {
		d.fail(OpMapBuffer, device.InvalidOperation)
		return nil
	}
	// Mapped memory is a staging copy; write-only mappings start undefined.
	buf.mapped = make([]byte, len(buf.data))
	if access.Readable() {
		copy(buf.mapped, buf.data)
	}
	buf.access = access
	return buf.mapped
}

func (d *Device) UnmapBuffer(b device.Buffer) {
	d.calls[OpUnmapBuffer]++
	buf, ok := d.buffer(OpUnmapBuffer, b)
	if !ok {
		return
	}
	if buf.mapped == nil {
		d.fail(OpUnmapBuffer, device.InvalidOperation)
		return
	}
	if buf.access.Writable() {
		copy(buf.data, buf.mapped)
	}
	buf.mapped = nil
}

func (d *Device) BindUniformBuffer(unit int, b device.Buffer) {
	d.calls[OpBindUniformBuffer]++
	if unit < 0 || unit >= len(d.uniformUnits) {
		d.fail(OpBindUniformBuffer, device.InvalidValue)
		return
	}
	if b != 0 {
		if _, ok := d.buffer(OpBindUniformBuffer, b); !ok {
			return
		}
	}
	d.uniformUnits[unit] = b
}

func (d *Device) CreateProgram() device.Program {
	d.calls[OpCreateProgram]++
	p := device.Program(d.handle())
	d.programs[p] = true
	return p
}

func (d *Device) DeleteProgram(p device.Program) {
	d.calls[OpDeleteProgram]++
	if !d.programs[p] {
		d.fail(OpDeleteProgram, device.InvalidValue)
		return
	}
	delete(d.programs, p)
	if d.current == p {
		d.current = 0
	}
	for k := range d.uniforms {
		if k.program == p {
			delete(d.uniforms, k)
		}
	}
	for k := range d.blockBindings {
		if k.program == p {
			delete(d.blockBindings, k)
		}
	}
}

func (d *Device) UseProgram(p device.Program) {
	d.calls[OpUseProgram]++
	if p != 0 && !d.programs[p] {
		d.fail(OpUseProgram, device.InvalidValue)
		return
	}
	d.current = p
}

func (d *Device) UniformBlockBinding(p device.Program, block, unit int) {
	d.calls[OpUniformBlockBinding]++
	if !d.programs[p] {
		d.fail(OpUniformBlockBinding, device.InvalidValue)
		return
	}
	if unit < 0 || unit >= len(d.uniformUnits) {
		d.fail(OpUniformBlockBinding, device.InvalidValue)
		return
	}
	d.blockBindings[blockKey{p, block}] = unit
}

func (d *Device) SetUniform(p device.Program, location int, v wgsltypes.Value) {
	d.calls[OpSetUniform]++
	if !d.programs[p] {
		d.fail(OpSetUniform, device.InvalidValue)
		return
	}
	// Like glUniform*, this only applies to the program in use.
	if p != d.current {
		d.fail(OpSetUniform, device.InvalidOperation)
		return
	}
	d.uniforms[uniformKey{p, location}] = wgsltypes.Encode(v)
}

func (d *Device) CreateTexture(desc device.TextureDesc) device.Texture {
	d.calls[OpCreateTexture]++
	t := device.Texture(d.handle())
	d.textures[t] = desc
	return t
}

func (d *Device) DeleteTexture(t device.Texture) {
	d.calls[OpDeleteTexture]++
	if _, ok := d.textures[t]; !ok {
		d.fail(OpDeleteTexture, device.InvalidValue)
		return
	}
	delete(d.textures, t)
	for i, tb := range d.textureUnits {
		if tb.texture == t {
			d.textureUnits[i] = textureBinding{}
		}
	}
}

func (d *Device) CreateSampler(params device.SamplerParams) device.Sampler {
	d.calls[OpCreateSampler]++
	s := device.Sampler(d.handle())
	d.samplers[s] = params
	return s
}

func (d *Device) DeleteSampler(s device.Sampler) {
	d.calls[OpDeleteSampler]++
	if _, ok := d.samplers[s]; !ok {
		d.fail(OpDeleteSampler, device.InvalidValue)
		return
	}
	delete(d.samplers, s)
}

func (d *Device) BindTexture(unit int, t device.Texture, s device.Sampler) {
	d.calls[OpBindTexture]++
	if unit < 0 || unit >= len(d.textureUnits) {
		d.fail(OpBindTexture, device.InvalidValue)
		return
	}
	if _, ok := d.textures[t]; t != 0 && !ok {
		d.fail(OpBindTexture, device.InvalidValue)
		return
	}
	if _, ok := d.samplers[s]; s != 0 && !ok {
		d.fail(OpBindTexture, device.InvalidValue)
		return
	}
	d.textureUnits[unit] = textureBinding{texture: t, sampler: s}
}
