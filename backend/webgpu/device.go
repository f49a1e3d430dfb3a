//go:build js && wasm

package webgpu

import (
	"syscall/js"

	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
	"github.com/mokiat/wasmgpu"
)

// DefaultLimits are the WebGPU per-stage minimums every adapter supports.
var DefaultLimits = device.Limits{
	MaxUniformBufferBindings: 12,
	MaxTextureUnits:          16,
}

var uint8ArrayCtor = js.Global().Get("Uint8Array")

const bufferUsage = wasmgpu.GPUBufferUsageFlagsUniform |
	wasmgpu.GPUBufferUsageFlagsVertex |
	wasmgpu.GPUBufferUsageFlagsCopyDst |
	wasmgpu.GPUBufferUsageFlagsCopySrc

// buffer keeps a host mirror of the device allocation. Shaders only read
// these buffers, so the mirror is authoritative and reads never wait for
// the queue.
type buffer struct {
	gpu    opt.T[wasmgpu.GPUBuffer]
	size   int
	data   []byte
	usage  device.Usage
	mapped []byte
	access device.Access
}

type program struct {
	uniforms wasmgpu.GPUBuffer
	blocks   map[int]int
}

type textureBinding struct {
	texture device.Texture
	sampler device.Sampler
}

type Device struct {
	gpu    wasmgpu.GPUDevice
	limits device.Limits
	next   uint32
	err    *device.Error

	buffers  map[device.Buffer]*buffer
	programs map[device.Program]*program
	// TODO: create GPUTexture and GPUSampler objects once the client uploads image data.
	textures map[device.Texture]device.TextureDesc
	samplers map[device.Sampler]device.SamplerParams

	uniformUnits []device.Buffer
	textureUnits []textureBinding
	current      device.Program
}

var _ device.Device = (*Device)(nil)

func New(gpu wasmgpu.GPUDevice, limits device.Limits) *Device {
	return &Device{
		gpu:          gpu,
		limits:       limits,
		buffers:      map[device.Buffer]*buffer{},
		programs:     map[device.Program]*program{},
		textures:     map[device.Texture]device.TextureDesc{},
		samplers:     map[device.Sampler]device.SamplerParams{},
		uniformUnits: make([]device.Buffer, limits.MaxUniformBufferBindings),
		textureUnits: make([]textureBinding, limits.MaxTextureUnits),
	}
}

func (d *Device) Limits() device.Limits { return d.limits }

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
	if buf.mapped != nil {
		d.fail(op, device.InvalidOperation)
		return nil, false
	}
	return buf, true
}

func (d *Device) CreateBuffer() device.Buffer {
	b := device.Buffer(d.handle())
	d.buffers[b] = &buffer{}
	return b
}

func (d *Device) DeleteBuffer(b device.Buffer) {
	buf, ok := d.buffers[b]
	if !ok {
		d.fail("DeleteBuffer", device.InvalidValue)
		return
	}
	if buf.gpu.Specified {
		buf.gpu.Value.Destroy()
	}
	delete(d.buffers, b)
	for i, u := range d.uniformUnits {
		if u == b {
			d.uniformUnits[i] = 0
		}
	}
}

func (d *Device) BufferData(b device.Buffer, size int, data []byte, usage device.Usage) {
	buf, ok := d.buffer("BufferData", b)
	if !ok {
		return
	}
	if buf.gpu.Specified {
		buf.gpu.Value.Destroy()
	}
	alloc := gpuSize(size)
	buf.gpu = opt.V(d.gpu.CreateBuffer(wasmgpu.GPUBufferDescriptor{
		Size:  wasmgpu.GPUSize64(alloc),
		Usage: bufferUsage,
	}))
	buf.size = size
	buf.usage = usage
	buf.data = make([]byte, alloc)
	copy(buf.data, data)
	d.write(buf, 0, alloc)
}

// write uploads [offset, offset+n) of the mirror, widened to copy alignment.
func (d *Device) write(buf *buffer, offset, n int) {
	start, end := writeWindow(offset, n, len(buf.data))
	if end <= start {
		return
	}
	d.gpu.Queue().WriteBuffer(buf.gpu.Value, wasmgpu.GPUSize64(start), buf.data[start:end])
}

func (d *Device) inRange(op string, buf *buffer, offset, n int) bool {
	if offset < 0 || n < 0 || offset+n > buf.size {
		d.fail(op, device.InvalidValue)
		return false
	}
	return true
}

func (d *Device) BufferSubData(b device.Buffer, offset int, data []byte) {
	buf, ok := d.buffer("BufferSubData", b)
	if !ok || !d.inRange("BufferSubData", buf, offset, len(data)) {
		return
	}
	copy(buf.data[offset:], data)
	d.write(buf, offset, len(data))
}

func (d *Device) GetBufferSubData(b device.Buffer, offset int, dst []byte) {
	buf, ok := d.buffer("GetBufferSubData", b)
	if !ok || !d.inRange("GetBufferSubData", buf, offset, len(dst)) {
		return
	}
	copy(dst, buf.data[offset:])
}

func (d *Device) MapBuffer(b device.Buffer, access device.Access) []byte {
	buf, ok := d.buffer("MapBuffer", b)
	if !ok {
		return nil
	}
	buf.mapped = make([]byte, buf.size)
	if access.Readable() {
		copy(buf.mapped, buf.data)
	}
	buf.access = access
	return buf.mapped
}

func (d *Device) UnmapBuffer(b device.Buffer) {
	buf, ok := d.buffers[b]
	if !ok {
		d.fail("UnmapBuffer", device.InvalidValue)
		return
	}
	if buf.mapped == nil {
		d.fail("UnmapBuffer", device.InvalidOperation)
		return
	}
	if buf.access.Writable() {
		copy(buf.data, buf.mapped)
		d.write(buf, 0, buf.size)
	}
	buf.mapped = nil
}

// ReadAsync copies the device contents of b into a staging buffer and calls
// callback with them once the copy completes. It checks the mirror against
// what the GPU actually holds.
func (d *Device) ReadAsync(b device.Buffer, callback func(data []byte)) {
	buf, ok := d.buffer("ReadAsync", b)
	if !ok || !buf.gpu.Specified {
		return
	}
	size := wasmgpu.GPUSize64(len(buf.data))
	staging := d.gpu.CreateBuffer(wasmgpu.GPUBufferDescriptor{
		Size:  size,
		Usage: wasmgpu.GPUBufferUsageFlagsMapRead | wasmgpu.GPUBufferUsageFlagsCopyDst,
	})
	commandEncoder := d.gpu.CreateCommandEncoder()
	commandEncoder.CopyBufferToBuffer(buf.gpu.Value, 0, staging, 0, size)
	d.gpu.Queue().Submit([]wasmgpu.GPUCommandBuffer{commandEncoder.Finish()})

	n := buf.size
	promise := staging.MapAsync(wasmgpu.GPUMapModeFlagsRead, 0, size)
	var then js.Func
	then = js.FuncOf(func(this js.Value, args []js.Value) any {
		ab := staging.GetMappedRange(0, size)
		abCopy := ab.Call("slice")
		staging.Unmap()
		staging.Destroy()
		then.Release()

		data := make([]byte, len(buf.data))
		numBytes := js.CopyBytesToGo(data, uint8ArrayCtor.New(abCopy))
		callback(data[:min(numBytes, n)])
		return nil
	})
	promise.Call("then", then)
}

func (d *Device) BindUniformBuffer(unit int, b device.Buffer) {
	if unit < 0 || unit >= len(d.uniformUnits) {
		d.fail("BindUniformBuffer", device.InvalidValue)
		return
	}
	if _, ok := d.buffers[b]; b != 0 && !ok {
		d.fail("BindUniformBuffer", device.InvalidValue)
		return
	}
	d.uniformUnits[unit] = b
}

func (d *Device) CreateProgram() device.Program {
	p := device.Program(d.handle())
	d.programs[p] = &program{
		uniforms: d.gpu.CreateBuffer(wasmgpu.GPUBufferDescriptor{
			Size:  wasmgpu.GPUSize64(UniformSlots * UniformSlotSize),
			Usage: wasmgpu.GPUBufferUsageFlagsUniform | wasmgpu.GPUBufferUsageFlagsCopyDst,
		}),
		blocks: map[int]int{},
	}
	return p
}

func (d *Device) DeleteProgram(p device.Program) {
	prog, ok := d.programs[p]
	if !ok {
		d.fail("DeleteProgram", device.InvalidValue)
		return
	}
	prog.uniforms.Destroy()
	delete(d.programs, p)
	if d.current == p {
		d.current = 0
	}
}

func (d *Device) UseProgram(p device.Program) {
	if _, ok := d.programs[p]; p != 0 && !ok {
		d.fail("UseProgram", device.InvalidValue)
		return
	}
	d.current = p
}

func (d *Device) UniformBlockBinding(p device.Program, block, unit int) {
	prog, ok := d.programs[p]
	if !ok || unit < 0 || unit >= len(d.uniformUnits) {
		d.fail("UniformBlockBinding", device.InvalidValue)
		return
	}
	prog.blocks[block] = unit
}

func (d *Device) SetUniform(p device.Program, location int, v wgsltypes.Value) {
	prog, ok := d.programs[p]
	if !ok || location < 0 || location >= UniformSlots {
		d.fail("SetUniform", device.InvalidValue)
		return
	}
	if p != d.current {
		d.fail("SetUniform", device.InvalidOperation)
		return
	}
	data := wgsltypes.Encode(v)
	if len(data) > UniformSlotSize {
		d.fail("SetUniform", device.InvalidValue)
		return
	}
	padded := make([]byte, roundUp(len(data), copyAlignment))
	copy(padded, data)
	d.gpu.Queue().WriteBuffer(prog.uniforms, wasmgpu.GPUSize64(location*UniformSlotSize), padded)
}

func (d *Device) CreateTexture(desc device.TextureDesc) device.Texture {
	t := device.Texture(d.handle())
	d.textures[t] = desc
	return t
}

func (d *Device) DeleteTexture(t device.Texture) {
	if _, ok := d.textures[t]; !ok {
		d.fail("DeleteTexture", device.InvalidValue)
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
	s := device.Sampler(d.handle())
	d.samplers[s] = params
	return s
}

func (d *Device) DeleteSampler(s device.Sampler) {
	if _, ok := d.samplers[s]; !ok {
		d.fail("DeleteSampler", device.InvalidValue)
		return
	}
	delete(d.samplers, s)
}

func (d *Device) BindTexture(unit int, t device.Texture, s device.Sampler) {
	if unit < 0 || unit >= len(d.textureUnits) {
		d.fail("BindTexture", device.InvalidValue)
		return
	}
	d.textureUnits[unit] = textureBinding{texture: t, sampler: s}
}
