// Package webgpu implements device.Device on WebGPU through wasmgpu.
//
// WebGPU has no loose uniforms, program objects or binding units, so the
// device keeps them itself: plain uniforms live in a per-program buffer with
// one slot per location, and BindGroupEntries turns a program's block
// bindings into bind group entries.
package webgpu

// copyAlignment is the alignment WebGPU requires of buffer sizes and of
// writeBuffer offsets and sizes.
const copyAlignment = 4

// UniformSlotSize is the stride between plain uniform locations.
const UniformSlotSize = 64

// UniformSlots is the number of plain uniform locations per program.
const UniformSlots = 16

func roundUp(n, k int) int {
	return (n + k - 1) / k * k
}

// gpuSize is the size of the device allocation backing size bytes.
func gpuSize(size int) int {
	return roundUp(max(size, copyAlignment), copyAlignment)
}

// writeWindow widens [offset, offset+n) to copy alignment within an
// allocation of allocSize bytes.
func writeWindow(offset, n, allocSize int) (start, end int) {
	start = offset &^ (copyAlignment - 1)
	end = min(roundUp(offset+n, copyAlignment), allocSize)
	return start, end
}
