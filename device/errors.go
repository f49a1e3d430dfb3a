package device

import "fmt"

// Code is a device-reported error code.
type Code int

const (
	NoError Code = iota
	InvalidEnum
	InvalidValue
	InvalidOperation
	OutOfMemory
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is an error reported by the device after a call.
type Error struct {
	Code Code
	// Op is the call that raised the error.
	Op string
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: %s", e.Op, e.Code)
}
