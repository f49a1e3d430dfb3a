package engine

import (
	"fmt"

	"github.com/hulkholden/gpubind/device"
	"github.com/mokiat/gog/opt"
)

// occupant is a resource that can sit in a binding unit. It records the unit
// it currently occupies so that a bind to a resource which is already bound
// costs nothing.
type occupant interface {
	comparable
	IsUsedBy(p device.Program) bool
	boundUnit() opt.T[int]
	setBoundUnit(u opt.T[int])
}

// UnitState describes one binding unit.
type UnitState[T occupant] struct {
	Occupant T
	Occupied bool
	// LastUse is the clock value of the most recent bind to this unit.
	LastUse uint64
}

// BindingTable is a fixed set of binding units shared by all programs.
//
// Every Bind and Clear advances the clock, so LastUse values are distinct
// and the least recently bound unit is always well defined.
type BindingTable[T occupant] struct {
	name  string
	units []UnitState[T]
	clock uint64
	// apply issues the device call for a unit whose occupant changed.
	apply func(unit int, o T, occupied bool)

	binds     int
	evictions int
}

func newBindingTable[T occupant](name string, size int, apply func(unit int, o T, occupied bool)) *BindingTable[T] {
	return &BindingTable[T]{
		name:  name,
		units: make([]UnitState[T], size),
		apply: apply,
	}
}

func (t *BindingTable[T]) Len() int { return len(t.units) }

func (t *BindingTable[T]) Clock() uint64 { return t.clock }

func (t *BindingTable[T]) Unit(i int) UnitState[T] { return t.units[i] }

// FindFreeUnit returns a unit for a resource that consumer is about to use.
// An empty unit is preferred. Otherwise the least recently bound unit whose
// occupant is not used by consumer is chosen, lowest index first on ties.
// The returned unit is not modified.
func (t *BindingTable[T]) FindFreeUnit(consumer device.Program) (int, error) {
	for i := range t.units {
		if !t.units[i].Occupied {
			return i, nil
		}
	}
	best := -1
	for i := range t.units {
		u := &t.units[i]
		if u.Occupant.IsUsedBy(consumer) {
			continue
		}
		if best < 0 || u.LastUse < t.units[best].LastUse {
			best = i
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: program %d uses all %d %s units", ErrUnitsExhausted, consumer, len(t.units), t.name)
	}
	t.evictions++
	return best, nil
}

// Bind places o in unit and refreshes the unit's recency. The device is only
// called when the unit's occupant changes. A displaced occupant loses its
// back-reference, and if o was bound elsewhere that unit is cleared first.
func (t *BindingTable[T]) Bind(unit int, o T) {
	if prev := o.boundUnit(); prev.Specified && prev.Value != unit {
		t.Clear(prev.Value)
	}
	u := &t.units[unit]
	u.LastUse = t.clock
	t.clock++
	if u.Occupied && u.Occupant == o {
		return
	}
	if u.Occupied {
		u.Occupant.setBoundUnit(opt.Unspecified[int]())
	}
	u.Occupant = o
	u.Occupied = true
	o.setBoundUnit(opt.V(unit))
	t.binds++
	t.apply(unit, o, true)
}

// Clear empties unit.
func (t *BindingTable[T]) Clear(unit int) {
	u := &t.units[unit]
	u.LastUse = t.clock
	t.clock++
	if u.Occupied {
		u.Occupant.setBoundUnit(opt.Unspecified[int]())
	}
	var zero T
	u.Occupant = zero
	u.Occupied = false
	t.apply(unit, zero, false)
}

// Unbind clears every unit held by o.
func (t *BindingTable[T]) Unbind(o T) {
	t.UnbindFunc(func(x T) bool { return x == o })
}

// UnbindFunc clears every unit whose occupant matches.
func (t *BindingTable[T]) UnbindFunc(match func(T) bool) {
	for i := range t.units {
		if t.units[i].Occupied && match(t.units[i].Occupant) {
			t.Clear(i)
		}
	}
}

// bindFor returns the unit holding o, assigning one if o has none.
func (t *BindingTable[T]) bindFor(o T, consumer device.Program) (int, error) {
	unit := o.boundUnit()
	if !unit.Specified {
		u, err := t.FindFreeUnit(consumer)
		if err != nil {
			return -1, err
		}
		if t.units[u].Occupied {
			Logger().Debug("evicting binding unit", "table", t.name, "unit", u, "program", consumer)
		}
		unit = opt.V(u)
	}
	t.Bind(unit.Value, o)
	return unit.Value, nil
}
