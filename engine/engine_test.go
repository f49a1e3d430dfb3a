package engine

import (
	"testing"

	"github.com/hulkholden/gpubind/backend/host"
	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, opts ...ContextOption) (*Context, *host.Device) {
	t.Helper()
	dev := host.New()
	c := NewContext(dev, append([]ContextOption{WithDebug()}, opts...)...)
	return c, dev
}

// requirePanicsIs runs f and requires it to panic with an error matching target.
func requirePanicsIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.Truef(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	f()
}

// fakeOccupant is a binding table occupant with an explicit user set.
type fakeOccupant struct {
	name  string
	users map[device.Program]bool
	unit  int
	bound bool
}

func newOccupant(name string, users ...device.Program) *fakeOccupant {
	o := &fakeOccupant{name: name, users: map[device.Program]bool{}}
	for _, u := range users {
		o.users[u] = true
	}
	return o
}

func (o *fakeOccupant) IsUsedBy(p device.Program) bool { return o.users[p] }

func (o *fakeOccupant) boundUnit() opt.T[int] {
	if o.bound {
		return opt.V(o.unit)
	}
	return opt.Unspecified[int]()
}

func (o *fakeOccupant) setBoundUnit(u opt.T[int]) {
	o.unit, o.bound = u.Value, u.Specified
}

type applyCall struct {
	Unit     int
	Occupant string
}

// newFakeTable returns a table whose device calls are recorded in calls.
func newFakeTable(size int, calls *[]applyCall) *BindingTable[*fakeOccupant] {
	return newBindingTable("fake", size, func(unit int, o *fakeOccupant, occupied bool) {
		name := ""
		if occupied {
			name = o.name
		}
		*calls = append(*calls, applyCall{Unit: unit, Occupant: name})
	})
}
