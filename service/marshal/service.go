package marshal

import (
	"bytes"
	"context"
	"fmt"
	"reflect"

	"github.com/viant/xfer/model/buffer"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
)

// Service resolves directives and packs/unpacks payloads
type Service struct {
	policy *policy.Policy
	cloner *cloner
}

// New creates a marshaler
func New(options ...Option) (*Service, error) {
	c, err := newCloner()
	if err != nil {
		return nil, fmt.Errorf("failed to create cloner: %w", err)
	}
	s := &Service{policy: policy.Default(), cloner: c}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Policy returns the default type policy
func (s *Service) Policy() *policy.Policy {
	return s.policy
}

func (s *Service) policyFor(ctx context.Context) *policy.Policy {
	if p := policy.FromContext(ctx); p != nil {
		return p
	}
	return s.policy
}

// Resolve returns the effective directive for value: the explicit one when
// set, otherwise the type default of p.
func Resolve(p *policy.Policy, value interface{}, explicit invocation.Directive) invocation.Directive {
	if explicit != invocation.DirectiveAuto {
		return explicit
	}
	switch value.(type) {
	case *buffer.Buffer:
		return p.Buffer()
	case []byte:
		if p.TransferRawBytes() {
			return invocation.DirectiveTransfer
		}
	}
	return invocation.DirectiveCopy
}

// PackArguments marshals call arguments on the sending side. Every argument
// is checked before any buffer is detached and transfers are applied last,
// so a rejected call leaves all handles in their original state.
func (s *Service) PackArguments(ctx context.Context, args []interface{}, directives *invocation.Directives) ([]*invocation.Payload, error) {
	p := s.policyFor(ctx)
	resolved := make([]invocation.Directive, len(args))
	transferred := map[*buffer.Buffer]bool{}
	for i, arg := range args {
		directive := Resolve(p, arg, directives.Arg(i))
		resolved[i] = directive
		if err := check(arg, directive, transferred); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}

	ret := make([]*invocation.Payload, len(args))
	for _, transfers := range []bool{false, true} {
		for i, arg := range args {
			_, isBuffer := arg.(*buffer.Buffer)
			if transfers != (isBuffer && resolved[i] == invocation.DirectiveTransfer) {
				continue
			}
			payload, err := s.pack(arg, resolved[i])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			ret[i] = payload
		}
	}
	return ret, nil
}

func check(value interface{}, directive invocation.Directive, transferred map[*buffer.Buffer]bool) error {
	switch actual := value.(type) {
	case *buffer.Buffer:
		if actual == nil {
			return fmt.Errorf("%w: nil buffer", types.ErrDataClone)
		}
		if actual.Detached() {
			if directive == invocation.DirectiveTransfer {
				return types.ErrAlreadyDetached
			}
			return types.ErrDetachedAccess
		}
		if directive == invocation.DirectiveTransfer {
			if transferred[actual] {
				return fmt.Errorf("%w: buffer listed twice for transfer", types.ErrAlreadyDetached)
			}
			transferred[actual] = true
		}
	case []byte, nil:
	default:
		if directive == invocation.DirectiveTransfer {
			return fmt.Errorf("%w: %T is not transferable", types.ErrDataClone, value)
		}
	}
	return nil
}

// PackResult marshals a returned value on the worker side. explicit is the
// call annotation, declared the function's declared result directive.
// A policy attached to ctx takes precedence over the service policy.
func (s *Service) PackResult(ctx context.Context, value interface{}, explicit, declared invocation.Directive) (*invocation.Payload, error) {
	if explicit == invocation.DirectiveAuto {
		explicit = declared
	}
	directive := Resolve(s.policyFor(ctx), value, explicit)
	if err := check(value, directive, map[*buffer.Buffer]bool{}); err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	payload, err := s.pack(value, directive)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	return payload, nil
}

func (s *Service) pack(value interface{}, directive invocation.Directive) (*invocation.Payload, error) {
	switch actual := value.(type) {
	case nil:
		return &invocation.Payload{Kind: invocation.KindValue, Directive: invocation.DirectiveCopy}, nil
	case *buffer.Buffer:
		if directive == invocation.DirectiveTransfer {
			region, err := actual.Detach()
			if err != nil {
				return nil, err
			}
			return &invocation.Payload{Kind: invocation.KindBuffer, Directive: directive, Bytes: region}, nil
		}
		data, err := actual.ReadBytes()
		if err != nil {
			return nil, err
		}
		return &invocation.Payload{Kind: invocation.KindBuffer, Directive: invocation.DirectiveCopy, Bytes: data}, nil
	case []byte:
		// the source slice has no handle to detach: copy once, the copy's region then travels
		return &invocation.Payload{Kind: invocation.KindBytes, Directive: directive, Bytes: bytes.Clone(actual)}, nil
	}
	if isScalar(value) {
		return &invocation.Payload{Kind: invocation.KindValue, Directive: invocation.DirectiveCopy, Value: value}, nil
	}
	data, err := s.cloner.encode(value)
	if err != nil {
		return nil, err
	}
	return &invocation.Payload{Kind: invocation.KindClone, Directive: invocation.DirectiveCopy, Bytes: data, Type: reflect.TypeOf(value)}, nil
}

// UnpackArguments materialises arguments on the receiving side
func (s *Service) UnpackArguments(payloads []*invocation.Payload) ([]interface{}, error) {
	ret := make([]interface{}, len(payloads))
	for i, payload := range payloads {
		value, err := s.Unpack(payload)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		ret[i] = value
	}
	return ret, nil
}

// Unpack materialises a single payload on the receiving side
func (s *Service) Unpack(payload *invocation.Payload) (interface{}, error) {
	if payload == nil {
		return nil, nil
	}
	switch payload.Kind {
	case invocation.KindValue:
		return payload.Value, nil
	case invocation.KindBuffer:
		return buffer.Adopt(payload.Bytes), nil
	case invocation.KindBytes:
		if payload.Directive == invocation.DirectiveTransfer {
			return payload.Bytes, nil
		}
		return bytes.Clone(payload.Bytes), nil
	case invocation.KindClone:
		return s.cloner.decode(payload.Bytes, payload.Type)
	}
	return nil, fmt.Errorf("%w: unsupported payload kind %d", types.ErrDataClone, payload.Kind)
}
