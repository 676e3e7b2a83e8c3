package invocation

import (
	"fmt"
	"reflect"
	"time"
)

// Kind identifies how a payload travels across the boundary
type Kind int

const (
	// KindValue is an immutable scalar passed as is.
	KindValue Kind = iota
	// KindClone is a structured clone encoded in Bytes, decoded into Type.
	KindClone
	// KindBuffer is a buffer handle region; the receiver adopts Bytes.
	KindBuffer
	// KindBytes is a raw byte sequence.
	KindBytes
)

// Payload is a single marshaled argument or return value
type Payload struct {
	Kind      Kind
	Directive Directive
	Value     interface{}
	Bytes     []byte
	Type      reflect.Type
}

// Policy exposes the type defaults the caller resolved its arguments with
type Policy interface {
	Buffer() Directive
	TransferRawBytes() bool
}

// Invocation is one request to run a registered function in a worker context
type Invocation struct {
	ID              string
	FunctionRef     string
	Arguments       []*Payload
	ResultDirective Directive
	// Policy is the caller's context policy, nil when the service policy applies
	Policy      Policy
	SubmittedAt time.Time
}

// Result is the worker reply to an Invocation
type Result struct {
	ID    string
	Value *Payload
	Error error
}

// NewResult creates a successful result
func NewResult(id string, value *Payload) *Result {
	return &Result{ID: id, Value: value}
}

// NewFailure creates a failed result
func NewFailure(id string, err error) *Result {
	return &Result{ID: id, Error: err}
}

// Failed returns true if the result carries an error
func (r *Result) Failed() bool {
	return r.Error != nil
}

// Validate checks that exactly one of value and error is present
func (r *Result) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("result id was empty")
	case r.Value == nil && r.Error == nil:
		return fmt.Errorf("result %v has neither value nor error", r.ID)
	case r.Value != nil && r.Error != nil:
		return fmt.Errorf("result %v has both value and error", r.ID)
	}
	return nil
}
