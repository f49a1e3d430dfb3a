package wgsltypes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  []byte
	}{
		{name: "f32", value: Float(1), want: []byte{0, 0, 0x80, 0x3f}},
		{name: "i32", value: Int(-1), want: []byte{0xff, 0xff, 0xff, 0xff}},
		{name: "u32", value: Uint(258), want: []byte{2, 1, 0, 0}},
		{name: "bool", value: BVec2{true, false}, want: []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{name: "vec3 is 12 bytes", value: Vec3{X: 1}, want: []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0}},
		{name: "f64", value: Double(1), want: []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Encode(tc.value)); diff != "" {
				t.Errorf("Encode(%v) mismatch (-want +got):\n%s", tc.value, diff)
			}
		})
	}
}

func TestEncodeMat3PadsColumns(t *testing.T) {
	got := Encode(Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if len(got) != 48 {
		t.Fatalf("len(Encode(mat3)) = %d, want 48", len(got))
	}
	// Second column starts at 16, not 12.
	want := Encode(Vec3{X: 4, Y: 5, Z: 6})
	if diff := cmp.Diff(want, got[16:28]); diff != "" {
		t.Errorf("column 1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(make([]byte, 4), got[12:16]); diff != "" {
		t.Errorf("padding mismatch (-want +got):\n%s", diff)
	}
}

func TestPutPanicsOnShortDestination(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Put() into short buffer did not panic")
		}
	}()
	Put(make([]byte, 8), Vec4{})
}

func TestZeroCoversAllBufferTypes(t *testing.T) {
	for name, typ := range typeMap {
		v, ok := Zero(name)
		if typ.IsOpaque() {
			if ok {
				t.Errorf("Zero(%q) = %v, want no value for opaque type", name, v)
			}
			continue
		}
		if !ok {
			t.Errorf("Zero(%q) missing", name)
			continue
		}
		if diff := cmp.Diff(typ, v.Type()); diff != "" {
			t.Errorf("Zero(%q).Type() mismatch (-want +got):\n%s", name, diff)
		}
		if got := len(Encode(v)); got != typ.SizeOf {
			t.Errorf("len(Encode(Zero(%q))) = %d, want %d", name, got, typ.SizeOf)
		}
	}
}

func TestLookupMatrixStride(t *testing.T) {
	tests := []struct {
		name       TypeName
		wantStride int
		wantSize   int
	}{
		{name: "mat2x2<f32>", wantStride: 8, wantSize: 16},
		{name: "mat3x3<f32>", wantStride: 16, wantSize: 48},
		{name: "mat4x4<f32>", wantStride: 16, wantSize: 64},
		{name: "mat3x3<f64>", wantStride: 32, wantSize: 96},
	}
	for _, tc := range tests {
		typ, ok := Lookup(tc.name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", tc.name)
		}
		if got := typ.ColumnStride(); got != tc.wantStride {
			t.Errorf("%s.ColumnStride() = %d, want %d", tc.name, got, tc.wantStride)
		}
		if typ.SizeOf != tc.wantSize {
			t.Errorf("%s.SizeOf = %d, want %d", tc.name, typ.SizeOf, tc.wantSize)
		}
	}
}
