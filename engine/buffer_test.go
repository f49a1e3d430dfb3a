package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hulkholden/gpubind/backend/host"
	"github.com/hulkholden/gpubind/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffersRoundTrip(t *testing.T) {
	c, _ := newTestContext(t)
	buffers := map[string]Buffer{
		"cpu": NewCPUBuffer(0, device.StaticDraw),
		"gpu": c.NewGPUBuffer(),
	}
	for name, b := range buffers {
		t.Run(name, func(t *testing.T) {
			b.SetData(6, []byte{1, 2, 3, 4, 5, 6}, device.DynamicDraw)
			b.SetSubData(4, []byte{9, 9})

			got := make([]byte, 4)
			b.GetSubData(2, got)
			if diff := cmp.Diff([]byte{3, 4, 9, 9}, got); diff != "" {
				t.Errorf("GetSubData mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 6, b.Size())
			assert.Equal(t, device.DynamicDraw, b.Usage())

			m := b.Map(device.ReadWrite)
			m[0] = 42
			b.Unmap()
			b.GetSubData(0, got[:1])
			assert.Equal(t, byte(42), got[0])
		})
	}
}

func TestReadOnlyMapDiscardsWrites(t *testing.T) {
	c, _ := newTestContext(t)
	buffers := map[string]Buffer{
		"cpu": NewCPUBuffer(0, device.StaticDraw),
		"gpu": c.NewGPUBuffer(),
	}
	for name, b := range buffers {
		t.Run(name, func(t *testing.T) {
			b.SetData(4, []byte{1, 2, 3, 4}, device.StaticDraw)

			m := b.Map(device.ReadOnly)
			if diff := cmp.Diff([]byte{1, 2, 3, 4}, m); diff != "" {
				t.Errorf("Map(ReadOnly) mismatch (-want +got):\n%s", diff)
			}
			m[0] = 42
			b.Unmap()

			got := make([]byte, 4)
			b.GetSubData(0, got)
			if diff := cmp.Diff([]byte{1, 2, 3, 4}, got); diff != "" {
				t.Errorf("contents after ReadOnly map mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBufferPreconditions(t *testing.T) {
	c, _ := newTestContext(t)
	buffers := map[string]func() Buffer{
		"cpu": func() Buffer { return NewCPUBuffer(8, device.StaticDraw) },
		"gpu": func() Buffer { return c.NewGPUBuffer(WithSize(8)) },
	}
	tests := []struct {
		name string
		op   func(b Buffer)
		want error
	}{
		{
			name: "write while mapped",
			op: func(b Buffer) {
				b.Map(device.WriteOnly)
				b.SetSubData(0, []byte{1})
			},
			want: ErrBufferMapped,
		},
		{
			name: "read while mapped",
			op: func(b Buffer) {
				b.Map(device.ReadOnly)
				b.GetSubData(0, make([]byte, 1))
			},
			want: ErrBufferMapped,
		},
		{
			name: "map twice",
			op: func(b Buffer) {
				b.Map(device.ReadOnly)
				b.Map(device.ReadOnly)
			},
			want: ErrBufferMapped,
		},
		{
			name: "unmap without map",
			op:   func(b Buffer) { b.Unmap() },
			want: ErrBufferNotMapped,
		},
		{
			name: "write past end",
			op:   func(b Buffer) { b.SetSubData(6, []byte{1, 2, 3}) },
			want: ErrOutOfRange,
		},
		{
			name: "negative offset",
			op:   func(b Buffer) { b.GetSubData(-1, make([]byte, 1)) },
			want: ErrOutOfRange,
		},
		{
			name: "short data",
			op:   func(b Buffer) { b.SetData(4, []byte{1}, device.StaticDraw) },
			want: ErrOutOfRange,
		},
		{
			name: "use after release",
			op: func(b Buffer) {
				b.Release()
				b.SetData(4, nil, device.StaticDraw)
			},
			want: ErrReleased,
		},
	}
	for kind, newBuffer := range buffers {
		for _, tc := range tests {
			t.Run(kind+"/"+tc.name, func(t *testing.T) {
				b := newBuffer()
				requirePanicsIs(t, tc.want, func() { tc.op(b) })
			})
		}
	}
}

func TestReleaseWhileMapped(t *testing.T) {
	c, dev := newTestContext(t)
	b := c.NewGPUBuffer(WithSize(16))
	b.Map(device.ReadWrite)

	b.Release()
	b.Release()

	assert.Equal(t, 1, dev.Count(host.OpUnmapBuffer))
	assert.Equal(t, 1, dev.Count(host.OpDeleteBuffer))
	assert.Zero(t, dev.Live().Buffers)
}

func TestGPUBufferShadowAvoidsReadback(t *testing.T) {
	c, dev := newTestContext(t)
	b := c.NewGPUBuffer(WithData([]byte{1, 2, 3, 4}))

	for i := 0; i < 3; i++ {
		if diff := cmp.Diff([]byte{1, 2, 3, 4}, b.Data()); diff != "" {
			t.Errorf("Data() mismatch (-want +got):\n%s", diff)
		}
	}
	got := make([]byte, 2)
	b.GetSubData(1, got)
	assert.Equal(t, []byte{2, 3}, got)
	assert.Equal(t, 1, dev.Count(host.OpGetBufferSubData))

	// A write drops the shadow.
	b.SetSubData(0, []byte{7})
	assert.Equal(t, []byte{7, 2, 3, 4}, b.Data())
	assert.Equal(t, 2, dev.Count(host.OpGetBufferSubData))

	// Mutating the returned copy does not affect the buffer.
	b.Data()[0] = 99
	assert.Equal(t, []byte{7, 2, 3, 4}, b.Data())
}

func TestBindToUniformBufferUnitReusesUnit(t *testing.T) {
	c, dev := newTestContext(t)
	b := c.NewGPUBuffer(WithSize(16))
	p := dev.CreateProgram()
	b.AddUser(p)

	first, err := b.BindToUniformBufferUnit(p)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		u, err := b.BindToUniformBufferUnit(p)
		require.NoError(t, err)
		assert.Equal(t, first, u)
	}
	assert.Equal(t, 1, dev.Count(host.OpBindUniformBuffer))
	assert.Equal(t, b.Handle(), dev.UniformUnit(first))

	unit, ok := b.Unit()
	assert.True(t, ok)
	assert.Equal(t, first, unit)

	b.Release()
	assert.Equal(t, device.Buffer(0), dev.UniformUnit(first))
	_, ok = b.Unit()
	assert.False(t, ok)
}

func TestEvictsLeastRecentlyBoundOf64(t *testing.T) {
	c, dev := newTestContext(t)
	table := c.UniformBufferUnits()
	require.Equal(t, MaxBindingUnits, table.Len())

	p := dev.CreateProgram()
	bufs := make([]*GPUBuffer, table.Len())
	for i := range bufs {
		bufs[i] = c.NewGPUBuffer(WithSize(16))
		unit, err := bufs[i].BindToUniformBufferUnit(p)
		require.NoError(t, err)
		require.Equal(t, i, unit)
	}

	extra := c.NewGPUBuffer(WithSize(16))
	unit, err := extra.BindToUniformBufferUnit(dev.CreateProgram())
	require.NoError(t, err)

	assert.Equal(t, 0, unit)
	_, ok := bufs[0].Unit()
	assert.False(t, ok, "evicted buffer still reports a unit")
	assert.Same(t, extra, table.Unit(0).Occupant)
	assert.Equal(t, extra.Handle(), dev.UniformUnit(0))
	assert.Equal(t, uint64(65), table.Clock())
	assert.Equal(t, 1, c.Stats().UniformBufferEvictions)
}

func TestBindMappedBufferPanics(t *testing.T) {
	c, _ := newTestContext(t)
	b := c.NewGPUBuffer(WithSize(16))
	b.Map(device.WriteOnly)
	requirePanicsIs(t, ErrBufferMapped, func() {
		b.BindToUniformBufferUnit(1)
	})
}

func TestUsers(t *testing.T) {
	c, _ := newTestContext(t)
	b := c.NewGPUBuffer()
	b.AddUser(1)
	b.AddUser(1)
	b.AddUser(2)
	b.RemoveUser(1)
	assert.True(t, b.IsUsedBy(1))
	b.RemoveUser(1)
	assert.False(t, b.IsUsedBy(1))
	assert.True(t, b.IsUsedBy(2))
	b.RemoveUser(3)
	assert.False(t, b.IsUsedBy(3))
}

func TestDebugModePanicsOnDeviceError(t *testing.T) {
	c, dev := newTestContext(t)
	b := c.NewGPUBuffer(WithSize(4))
	// Delete the buffer behind the context's back.
	dev.DeleteBuffer(b.Handle())

	defer func() {
		err, _ := recover().(error)
		var devErr *device.Error
		require.ErrorAs(t, err, &devErr)
		if diff := cmp.Diff(device.Error{Code: device.InvalidValue, Op: host.OpBufferSubData}, *devErr); diff != "" {
			t.Errorf("device error mismatch (-want +got):\n%s", diff)
		}
	}()
	b.SetSubData(0, []byte{1})
}

func TestWithoutDebugErrorsArePolled(t *testing.T) {
	dev := host.New()
	c := NewContext(dev)
	b := c.NewGPUBuffer(WithSize(4))
	dev.DeleteBuffer(b.Handle())

	b.SetSubData(0, []byte{1})
	require.Error(t, c.Err())
	require.NoError(t, c.Err())
}
