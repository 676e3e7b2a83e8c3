package xfer

import (
	"context"

	"github.com/viant/xfer/extension"
	"github.com/viant/xfer/internal/logging"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
	"github.com/viant/xfer/progress"
	"github.com/viant/xfer/service/action/echo"
	"github.com/viant/xfer/service/action/nop"
	"github.com/viant/xfer/service/dispatcher"
	"github.com/viant/xfer/service/executor"
	"github.com/viant/xfer/service/marshal"
	"github.com/viant/xfer/tracing"
	"go.uber.org/zap"
)

// Service represents the xfer façade
type Service struct {
	config            *Config
	poolSize          int
	policy            *policy.Policy
	logger            *zap.Logger
	listener          dispatcher.Listener
	extensionServices []types.Service
	executorOptions   []executor.Option

	registry   *extension.Registry
	marshaler  *marshal.Service
	dispatcher *dispatcher.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.poolSize > 0 {
		s.config.Dispatcher.PoolSize = s.poolSize
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		logger, err := logging.New(s.config.Log)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if tracingConfig := s.config.Tracing; tracingConfig.Enabled {
		if err := tracing.Init(tracingConfig.ServiceName, tracingConfig.Version, tracingConfig.OutputFile); err != nil {
			return err
		}
	}
	if s.policy == nil {
		aPolicy, err := policy.FromConfig(&s.config.Marshal)
		if err != nil {
			return err
		}
		s.policy = aPolicy
	}

	var err error
	if s.marshaler, err = marshal.New(marshal.WithPolicy(s.policy)); err != nil {
		return err
	}
	services := append([]types.Service{echo.New(), nop.New()}, s.extensionServices...)
	if s.registry, err = extension.NewRegistry(services...); err != nil {
		return err
	}
	s.registry.Seal()
	exec := executor.NewService(s.registry, s.marshaler, append([]executor.Option{executor.WithLogger(s.logger)}, s.executorOptions...)...)
	s.dispatcher, err = dispatcher.New(
		dispatcher.WithConfig(s.config.Dispatcher),
		dispatcher.WithRegistry(s.registry),
		dispatcher.WithMarshaler(s.marshaler),
		dispatcher.WithExecutor(exec),
		dispatcher.WithLogger(s.logger),
		dispatcher.WithListener(s.listener),
	)
	return err
}

// Start spawns the worker pool
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("starting worker pool", zap.Int("poolSize", s.config.Dispatcher.PoolSize), zap.Strings("functions", s.registry.Refs()))
	return s.dispatcher.Start(ctx)
}

// Submit dispatches an invocation and returns its pending call
func (s *Service) Submit(ctx context.Context, ref string, args []interface{}, directives *invocation.Directives) (*dispatcher.Call, error) {
	return s.dispatcher.Submit(ctx, ref, args, directives)
}

// Run dispatches an invocation and waits for its result
func (s *Service) Run(ctx context.Context, ref string, args []interface{}, directives *invocation.Directives) (interface{}, error) {
	return s.dispatcher.Run(ctx, ref, args, directives)
}

// Stats returns a snapshot of the worker pool
func (s *Service) Stats() dispatcher.Stats {
	return s.dispatcher.Stats()
}

// Progress returns call outcome counters
func (s *Service) Progress() progress.Counters {
	return s.dispatcher.Progress()
}

// Shutdown terminates the worker pool
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.dispatcher.Shutdown(ctx)
	_ = s.logger.Sync()
	return err
}

func (s *Service) Config() *Config {
	return s.config
}

func (s *Service) Registry() *extension.Registry {
	return s.registry
}

func (s *Service) Dispatcher() *dispatcher.Service {
	return s.dispatcher
}

func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
