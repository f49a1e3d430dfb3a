package host

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
)

func wantCode(t *testing.T, d *Device, op string, code device.Code) {
	t.Helper()
	err := d.Err()
	var devErr *device.Error
	if !errors.As(err, &devErr) {
		t.Fatalf("Err() = %v, want *device.Error", err)
	}
	if diff := cmp.Diff(device.Error{Code: code, Op: op}, *devErr); diff != "" {
		t.Errorf("Err() mismatch (-want +got):\n%s", diff)
	}
	if err := d.Err(); err != nil {
		t.Errorf("second Err() = %v, want nil", err)
	}
}

func TestBufferDataRoundTrip(t *testing.T) {
	d := New()
	b := d.CreateBuffer()
	d.BufferData(b, 4, []byte{1, 2, 3, 4}, device.StaticDraw)
	d.BufferSubData(b, 2, []byte{9})

	got := make([]byte, 4)
	d.GetBufferSubData(b, 0, got)
	if diff := cmp.Diff([]byte{1, 2, 9, 4}, got); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
	if err := d.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestMapCommitsOnlyWritableMappings(t *testing.T) {
	tests := []struct {
		name   string
		access device.Access
		want   []byte
	}{
		{name: "read only", access: device.ReadOnly, want: []byte{1, 2}},
		{name: "write only", access: device.WriteOnly, want: []byte{7, 0}},
		{name: "read write", access: device.ReadWrite, want: []byte{7, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := New()
			b := d.CreateBuffer()
			d.BufferData(b, 2, []byte{1, 2}, device.DynamicDraw)
			m := d.MapBuffer(b, tc.access)
			m[0] = 7
			d.UnmapBuffer(b)
			if diff := cmp.Diff(tc.want, d.Contents(b)); diff != "" {
				t.Errorf("contents mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		call func(d *Device, b device.Buffer)
		op   string
		code device.Code
	}{
		{
			name: "sub data out of range",
			call: func(d *Device, b device.Buffer) { d.BufferSubData(b, 3, []byte{1, 2}) },
			op:   OpBufferSubData, code: device.InvalidValue,
		},
		{
			name: "double map",
			call: func(d *Device, b device.Buffer) { d.MapBuffer(b, device.ReadOnly); d.MapBuffer(b, device.ReadOnly) },
			op:   OpMapBuffer, code: device.InvalidOperation,
		},
		{
			name: "unmap without map",
			call: func(d *Device, b device.Buffer) { d.UnmapBuffer(b) },
			op:   OpUnmapBuffer, code: device.InvalidOperation,
		},
		{
			name: "write while mapped",
			call: func(d *Device, b device.Buffer) { d.MapBuffer(b, device.ReadWrite); d.BufferSubData(b, 0, []byte{1}) },
			op:   OpBufferSubData, code: device.InvalidOperation,
		},
		{
			name: "bind past limit",
			call: func(d *Device, b device.Buffer) { d.BindUniformBuffer(DefaultLimits.MaxUniformBufferBindings, b) },
			op:   OpBindUniformBuffer, code: device.InvalidValue,
		},
		{
			name: "delete twice",
			call: func(d *Device, b device.Buffer) { d.DeleteBuffer(b); d.DeleteBuffer(b) },
			op:   OpDeleteBuffer, code: device.InvalidValue,
		},
		{
			name: "uniform on inactive program",
			call: func(d *Device, b device.Buffer) { d.SetUniform(d.CreateProgram(), 0, wgsltypes.Float(1)) },
			op:   OpSetUniform, code: device.InvalidOperation,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := New()
			b := d.CreateBuffer()
			d.BufferData(b, 4, nil, device.StaticDraw)
			tc.call(d, b)
			wantCode(t, d, tc.op, tc.code)
		})
	}
}

func TestDeleteClearsBindings(t *testing.T) {
	d := New()
	b := d.CreateBuffer()
	d.BindUniformBuffer(3, b)
	tex := d.CreateTexture(device.TextureDesc{Width: 1, Height: 1, Format: "rgba8unorm"})
	d.BindTexture(1, tex, 0)

	d.DeleteBuffer(b)
	d.DeleteTexture(tex)

	if got := d.UniformUnit(3); got != 0 {
		t.Errorf("UniformUnit(3) = %v after delete, want 0", got)
	}
	if got, _ := d.TextureUnit(1); got != 0 {
		t.Errorf("TextureUnit(1) = %v after delete, want 0", got)
	}
	if diff := cmp.Diff(Live{}, d.Live()); diff != "" {
		t.Errorf("Live() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetUniformStoresEncoding(t *testing.T) {
	d := New()
	p := d.CreateProgram()
	d.UseProgram(p)
	d.SetUniform(p, 5, wgsltypes.Int(3))
	got, ok := d.Uniform(p, 5)
	if !ok {
		t.Fatalf("Uniform(p, 5) not set")
	}
	if diff := cmp.Diff(wgsltypes.Encode(wgsltypes.Int(3)), got); diff != "" {
		t.Errorf("Uniform mismatch (-want +got):\n%s", diff)
	}
	if got := d.Count(OpSetUniform); got != 1 {
		t.Errorf("Count(SetUniform) = %d, want 1", got)
	}
}
