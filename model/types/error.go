package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by buffers, the marshaler, worker contexts and the
// dispatcher. Callers detect conditions with errors.Is.
var (
	// ErrDetachedAccess is returned on read or write through a transferred buffer handle.
	ErrDetachedAccess = errors.New("detached buffer access")

	// ErrAlreadyDetached is returned when a transferred buffer is transferred again.
	ErrAlreadyDetached = errors.New("buffer already detached")

	// ErrUnknownFunction is returned for a function reference with no registered entry point.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArgumentMismatch is returned when the argument count does not match the function arity.
	ErrArgumentMismatch = errors.New("argument mismatch")

	// ErrWorkerTerminated is returned for an invocation lost with its execution context.
	ErrWorkerTerminated = errors.New("worker terminated")

	// ErrCancelled is returned for an invocation cancelled before its result arrived.
	ErrCancelled = errors.New("invocation cancelled")

	// ErrDataClone is returned when a value can be neither cloned nor transferred.
	ErrDataClone = errors.New("value cannot be cloned")

	// ErrClosed is returned once the dispatcher has been shut down.
	ErrClosed = errors.New("dispatcher closed")
)

func NewUnknownFunctionError(ref string) error {
	return fmt.Errorf("%w: %v", ErrUnknownFunction, ref)
}

func NewArgumentMismatchError(ref string, expected, actual int) error {
	return fmt.Errorf("%w: %v expects %d argument(s), got %d", ErrArgumentMismatch, ref, expected, actual)
}

func NewInvalidArgumentError(index int, in interface{}) error {
	return fmt.Errorf("%w: invalid argument %d: %T", ErrArgumentMismatch, index, in)
}

// ExecutionError carries a failure raised by a registered function inside a
// worker context back to the caller.
type ExecutionError struct {
	FunctionRef string
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%v failed: %v", e.FunctionRef, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
