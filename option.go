package xfer

import (
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
	"github.com/viant/xfer/service/dispatcher"
	"github.com/viant/xfer/service/executor"
	"github.com/viant/xfer/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPoolSize sets the number of worker slots
func WithPoolSize(size int) Option {
	return func(s *Service) {
		s.poolSize = size
	}
}

// WithExtensionServices registers additional function providers; the table is fixed once New returns
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithPolicy overrides the configured marshaling policy
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithLogger sets the logger; by default one is built from Config.Log
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithListener registers a slot lifecycle listener
func WithListener(listener dispatcher.Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithExecutorOptions supplies additional options passed to executor.NewService
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter, for example OTLP.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
