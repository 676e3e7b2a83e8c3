package invocation

import (
	"fmt"
	"strings"
)

// Directive decides whether a value crosses the host/worker boundary by copy
// or by ownership transfer.
type Directive int

const (
	// DirectiveAuto defers to the function declaration and then the value type default.
	DirectiveAuto Directive = iota
	// DirectiveCopy produces an independent value on the destination side.
	DirectiveCopy
	// DirectiveTransfer moves ownership of a buffer region to the destination side.
	DirectiveTransfer
)

func (d Directive) String() string {
	switch d {
	case DirectiveCopy:
		return "copy"
	case DirectiveTransfer:
		return "transfer"
	default:
		return "auto"
	}
}

// ParseDirective parses "auto", "copy" or "transfer" (case-insensitive, empty means auto)
func ParseDirective(text string) (Directive, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "auto":
		return DirectiveAuto, nil
	case "copy":
		return DirectiveCopy, nil
	case "transfer":
		return DirectiveTransfer, nil
	}
	return DirectiveAuto, fmt.Errorf("unsupported directive: %q", text)
}

// Directives is the per-call directive table: explicit annotations for
// individual argument slots and for the returned value. A nil *Directives
// carries no annotation at all.
type Directives struct {
	Args   map[int]Directive
	Result Directive
}

// Transfer returns a table transferring the arguments at the given indexes
func Transfer(indexes ...int) *Directives {
	return newDirectives(DirectiveTransfer, indexes)
}

// Copy returns a table copying the arguments at the given indexes
func Copy(indexes ...int) *Directives {
	return newDirectives(DirectiveCopy, indexes)
}

func newDirectives(directive Directive, indexes []int) *Directives {
	ret := &Directives{Args: make(map[int]Directive, len(indexes))}
	for _, i := range indexes {
		ret.Args[i] = directive
	}
	return ret
}

// WithResult sets the result directive
func (d *Directives) WithResult(directive Directive) *Directives {
	if d == nil {
		d = &Directives{}
	}
	d.Result = directive
	return d
}

// Arg returns the explicit directive for argument i
func (d *Directives) Arg(i int) Directive {
	if d == nil || d.Args == nil {
		return DirectiveAuto
	}
	return d.Args[i]
}

// ResultDirective returns the explicit result directive
func (d *Directives) ResultDirective() Directive {
	if d == nil {
		return DirectiveAuto
	}
	return d.Result
}

// Validate checks that every annotated index addresses one of count arguments
func (d *Directives) Validate(count int) error {
	if d == nil {
		return nil
	}
	for i := range d.Args {
		if i < 0 || i >= count {
			return fmt.Errorf("directive for argument %d out of range [0,%d)", i, count)
		}
	}
	return nil
}
