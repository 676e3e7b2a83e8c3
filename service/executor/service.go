package executor

import (
	"context"
	"fmt"

	"github.com/viant/xfer/extension"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
	"github.com/viant/xfer/service/marshal"
	"github.com/viant/xfer/tracing"
	"go.uber.org/zap"
)

// Listener is invoked once a function completes, regardless of whether it
// returned an error. Implementations can log, collect metrics or perform any
// other side-effects they require.
type Listener func(ref string, args []interface{}, output interface{}, err error)

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener sets the listener invoked after every executed function.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service executes invocations
type Service interface {
	Execute(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result
}

type service struct {
	registry  *extension.Registry
	marshaler *marshal.Service
	listener  Listener
	logger    *zap.Logger
}

// Execute runs the invocation and returns its result
func (s *service) Execute(ctx context.Context, anInvocation *invocation.Invocation) (result *invocation.Result) {
	ctx, span := tracing.StartSpan(ctx, "executor.Execute "+anInvocation.FunctionRef, "CONSUMER")
	span.WithAttributes(map[string]string{"invocation.id": anInvocation.ID})
	defer func() {
		err := types.ErrWorkerTerminated
		if result != nil {
			err = result.Error
		}
		tracing.EndSpan(span, err)
	}()

	fn, err := s.registry.Check(anInvocation.FunctionRef, len(anInvocation.Arguments))
	if err != nil {
		return invocation.NewFailure(anInvocation.ID, err)
	}
	args, err := s.marshaler.UnpackArguments(anInvocation.Arguments)
	if err != nil {
		return invocation.NewFailure(anInvocation.ID, err)
	}

	output, err := s.call(ctx, fn, args)
	if s.listener != nil {
		s.listener(fn.Ref, args, output, err)
	}
	if err != nil {
		s.logger.Debug("function failed", zap.String("function", fn.Ref), zap.String("invocation", anInvocation.ID), zap.Error(err))
		return invocation.NewFailure(anInvocation.ID, &types.ExecutionError{FunctionRef: fn.Ref, Err: err})
	}

	if p, ok := anInvocation.Policy.(*policy.Policy); ok && p != nil {
		ctx = policy.WithPolicy(ctx, p)
	}
	payload, err := s.marshaler.PackResult(ctx, output, anInvocation.ResultDirective, fn.Signature.Result)
	if err != nil {
		return invocation.NewFailure(anInvocation.ID, &types.ExecutionError{FunctionRef: fn.Ref, Err: err})
	}
	return invocation.NewResult(anInvocation.ID, payload)
}

// call invokes the entry point; a panic is converted into an error while
// runtime.Goexit is left to unwind the worker goroutine.
func (s *service) call(ctx context.Context, fn *extension.Function, args []interface{}) (output interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn.Executable(ctx, args)
}

// NewService creates a new executor service instance.
func NewService(registry *extension.Registry, marshaler *marshal.Service, opts ...Option) Service {
	s := &service{
		registry:  registry,
		marshaler: marshaler,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
