package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUSize(t *testing.T) {
	for size, want := range map[int]int{0: 4, 1: 4, 4: 4, 5: 8, 80: 80} {
		assert.Equal(t, want, gpuSize(size), "gpuSize(%d)", size)
	}
}

func TestWriteWindow(t *testing.T) {
	tests := []struct {
		offset, n, alloc int
		start, end       int
	}{
		{offset: 0, n: 4, alloc: 16, start: 0, end: 4},
		{offset: 2, n: 1, alloc: 16, start: 0, end: 4},
		{offset: 6, n: 5, alloc: 16, start: 4, end: 12},
		{offset: 14, n: 2, alloc: 16, start: 12, end: 16},
	}
	for _, tc := range tests {
		start, end := writeWindow(tc.offset, tc.n, tc.alloc)
		assert.Equal(t, [2]int{tc.start, tc.end}, [2]int{start, end}, "writeWindow(%d, %d, %d)", tc.offset, tc.n, tc.alloc)
	}
}
