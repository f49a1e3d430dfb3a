//go:build js && wasm

package webgpu

import (
	"fmt"
	"slices"

	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
	"github.com/hulkholden/gpubind/engine"
	"github.com/mokiat/gog/opt"
	"github.com/mokiat/wasmgpu"
)

// BindGroupEntries returns one entry per uniform block of p, bound at the
// block's index, resolving each block's unit to the buffer bound there.
func (d *Device) BindGroupEntries(p device.Program) []wasmgpu.GPUBindGroupEntry {
	prog, ok := d.programs[p]
	if !ok {
		return nil
	}
	indices := make([]int, 0, len(prog.blocks))
	for block := range prog.blocks {
		indices = append(indices, block)
	}
	slices.Sort(indices)

	var entries []wasmgpu.GPUBindGroupEntry
	for _, block := range indices {
		buf, ok := d.buffers[d.uniformUnits[prog.blocks[block]]]
		if !ok || !buf.gpu.Specified {
			continue
		}
		entries = append(entries, wasmgpu.GPUBindGroupEntry{
			Binding:  wasmgpu.GPUIndex32(block),
			Resource: wasmgpu.GPUBufferBinding{Buffer: buf.gpu.Value},
		})
	}
	return entries
}

// UniformsEntry returns the entry for p's plain uniform buffer.
func (d *Device) UniformsEntry(p device.Program, binding int) (wasmgpu.GPUBindGroupEntry, bool) {
	prog, ok := d.programs[p]
	if !ok {
		return wasmgpu.GPUBindGroupEntry{}, false
	}
	return wasmgpu.GPUBindGroupEntry{
		Binding:  wasmgpu.GPUIndex32(binding),
		Resource: wasmgpu.GPUBufferBinding{Buffer: prog.uniforms},
	}, true
}

// GPUBuffer returns the device allocation behind b.
func (d *Device) GPUBuffer(b device.Buffer) (wasmgpu.GPUBuffer, bool) {
	buf, ok := d.buffers[b]
	if !ok || !buf.gpu.Specified {
		return wasmgpu.GPUBuffer{}, false
	}
	return buf.gpu.Value, true
}

var vertexFormatTypeMap = map[wgsltypes.TypeName]wasmgpu.GPUVertexFormat{
	"f32":       wasmgpu.GPUVertexFormatFloat32,
	"i32":       wasmgpu.GPUVertexFormatSint32,
	"u32":       wasmgpu.GPUVertexFormatUint32,
	"vec2<f32>": wasmgpu.GPUVertexFormatFloat32x2,
	"vec3<f32>": wasmgpu.GPUVertexFormatFloat32x3,
	"vec4<f32>": wasmgpu.GPUVertexFormatFloat32x4,
}

func mustFormatFromFieldType(fieldType wgsltypes.TypeName) wasmgpu.GPUVertexFormat {
	format, ok := vertexFormatTypeMap[fieldType]
	if !ok {
		panic("unhandled wgsltype: " + fieldType)
	}
	return format
}

// VertexLayouts describes attribute buffers as vertex buffer layouts.
// Shader locations are assigned consecutively across the buffers. Buffers
// with a divisor step per instance; WebGPU cannot step every n instances,
// so divisors above 1 are rejected.
func VertexLayouts(attrs []*engine.AttributeBuffer) ([]wasmgpu.GPUVertexBufferLayout, error) {
	result := make([]wasmgpu.GPUVertexBufferLayout, len(attrs))
	location := 0
	for idx, a := range attrs {
		if a.Divisor > 1 {
			return nil, fmt.Errorf("attribute buffer %q: divisor %d is not supported", a.Layout.Name, a.Divisor)
		}
		stepMode := wasmgpu.GPUVertexStepModeVertex
		if a.Instanced() {
			stepMode = wasmgpu.GPUVertexStepModeInstance
		}
		result[idx] = wasmgpu.GPUVertexBufferLayout{
			ArrayStride: wasmgpu.GPUSize64(a.Stride()),
			StepMode:    opt.V(stepMode),
		}
		for _, attr := range a.Attributes(location) {
			result[idx].Attributes = append(result[idx].Attributes, wasmgpu.GPUVertexAttribute{
				ShaderLocation: wasmgpu.GPUIndex32(attr.Location),
				Format:         mustFormatFromFieldType(attr.Type.Name),
				Offset:         wasmgpu.GPUSize64(attr.Offset),
			})
			location++
		}
	}
	return result, nil
}
