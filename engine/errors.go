package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferMapped is raised when a buffer is used while mapped.
	ErrBufferMapped = errors.New("engine: buffer is mapped")

	// ErrBufferNotMapped is raised when unmapping a buffer that is not mapped.
	ErrBufferNotMapped = errors.New("engine: buffer is not mapped")

	// ErrOutOfRange is raised for accesses outside a buffer.
	ErrOutOfRange = errors.New("engine: range out of bounds")

	// ErrReleased is raised when using a released resource.
	ErrReleased = errors.New("engine: resource released")

	// ErrTypeMismatch is raised when a uniform is set to a value of another type.
	ErrTypeMismatch = errors.New("engine: uniform type mismatch")

	// ErrNoBuffer is raised when writing a uniform of a block that has no buffer.
	ErrNoBuffer = errors.New("engine: uniform block has no buffer")

	// ErrUnitsExhausted is returned when a program needs more binding units
	// than the device provides. It is a configuration error: retrying cannot
	// succeed.
	ErrUnitsExhausted = errors.New("engine: binding units exhausted")

	// ErrBlockSize is returned when a shared block buffer is too small for a block.
	ErrBlockSize = errors.New("engine: block buffer too small")

	// ErrInvalidProgram is returned for malformed program descriptions.
	ErrInvalidProgram = errors.New("engine: invalid program")
)

// precondition panics with err annotated by the failing operation.
func precondition(err error, format string, args ...any) {
	panic(fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}
