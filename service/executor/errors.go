package executor

import "errors"

var (
	// ErrPanic marks a registered function that panicked instead of returning an error.
	ErrPanic = errors.New("function panicked")
)
