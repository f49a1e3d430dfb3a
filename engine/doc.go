// Package engine manages GPU resources on top of a device.Device: data
// buffers, uniform buffer and texture binding units, programs and their
// uniforms and uniform blocks.
//
// A Context and every object created from it are confined to the goroutine
// that owns the underlying device. Nothing in this package locks.
//
// Binding units are a small fixed table shared by all programs. A buffer or
// texture keeps the unit it was last bound to, and a unit is only reassigned
// when a program needs a resource that has none: free units are used first,
// then the least recently bound unit whose occupant the requesting program
// does not use. Recency is a logical clock that advances on every bind.
//
// Misuse such as writing a mapped buffer or setting a uniform with a value
// of the wrong type panics with an error wrapping one of the sentinel errors
// below. Running out of binding units is reported as ErrUnitsExhausted.
package engine
