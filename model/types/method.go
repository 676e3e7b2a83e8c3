package types

import (
	"context"

	"github.com/viant/xfer/model/invocation"
)

type Signatures []Signature

func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature describes a registered function
type Signature struct {
	Name        string
	Description string
	// Arity is the number of arguments the function takes; with Variadic it is the minimum.
	Arity    int
	Variadic bool
	// Result is the declared directive for the returned value, used when the
	// call carries no explicit result directive.
	Result invocation.Directive
}

// Accepts reports whether count arguments satisfy the signature arity.
func (s *Signature) Accepts(count int) bool {
	if s.Variadic {
		return count >= s.Arity
	}
	return count == s.Arity
}

// Executable is a function that can be executed in a worker context
type Executable func(ctx context.Context, args []interface{}) (interface{}, error)
