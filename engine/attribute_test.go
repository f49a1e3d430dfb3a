package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
	"github.com/stretchr/testify/require"
)

var testInstanceLayout = wgsltypes.MustNewLayout("Instance",
	wgsltypes.Member{Name: "offset", Type: "vec3<f32>"},
	wgsltypes.Member{Name: "scale", Type: "f32"},
)

func TestNewAttributeBuffer(t *testing.T) {
	tests := []struct {
		name    string
		layout  wgsltypes.Struct
		divisor int
		wantErr bool
	}{
		{name: "per vertex", layout: testInstanceLayout, divisor: 0},
		{name: "per instance", layout: testInstanceLayout, divisor: 1},
		{name: "every other instance", layout: testInstanceLayout, divisor: 2},
		{name: "negative divisor", layout: testInstanceLayout, divisor: -1, wantErr: true},
		{name: "empty layout", layout: wgsltypes.Struct{Name: "Empty"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAttributeBuffer(tc.layout, NewCPUBuffer(64, device.StaticDraw), tc.divisor)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if got, want := a.Divisor, tc.divisor; got != want {
				t.Errorf("Divisor = %d, want %d", got, want)
			}
			if got, want := a.Instanced(), tc.divisor > 0; got != want {
				t.Errorf("Instanced() = %t, want %t", got, want)
			}
		})
	}
}

func TestAttributeBufferLayout(t *testing.T) {
	a, err := NewAttributeBuffer(testInstanceLayout, NewCPUBuffer(40, device.StaticDraw), 1)
	require.NoError(t, err)

	if got, want := a.Stride(), 16; got != want {
		t.Errorf("Stride() = %d, want %d", got, want)
	}
	if got, want := a.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	want := []Attribute{
		{Location: 3, Field: "offset", Type: wgsltypes.MustLookup("vec3<f32>"), Offset: 0},
		{Location: 4, Field: "scale", Type: wgsltypes.MustLookup("f32"), Offset: 12},
	}
	if diff := cmp.Diff(want, a.Attributes(3)); diff != "" {
		t.Errorf("Attributes(3) mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributeBufferPut(t *testing.T) {
	buf := NewCPUBuffer(32, device.StaticDraw)
	a, err := NewAttributeBuffer(testInstanceLayout, buf, 1)
	require.NoError(t, err)

	a.Put(1, wgsltypes.Vec3{X: 1, Y: 2, Z: 3}, wgsltypes.Float(4))

	want := append(append(make([]byte, 16),
		wgsltypes.Encode(wgsltypes.Vec3{X: 1, Y: 2, Z: 3})...),
		wgsltypes.Encode(wgsltypes.Float(4))...)
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("buffer contents mismatch (-want +got):\n%s", diff)
	}

	requirePanicsIs(t, ErrTypeMismatch, func() {
		a.Put(0, wgsltypes.Float(1), wgsltypes.Float(4))
	})
	require.Panics(t, func() { a.Put(0, wgsltypes.Float(4)) })
}
