package dispatcher

import (
	"github.com/viant/xfer/extension"
	"github.com/viant/xfer/progress"
	"github.com/viant/xfer/service/executor"
	"github.com/viant/xfer/service/marshal"
	"go.uber.org/zap"
)

// Option customises the dispatcher
type Option func(*Service)

// WithConfig sets the configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPoolSize sets the number of worker slots
func WithPoolSize(size int) Option {
	return func(s *Service) {
		s.config.PoolSize = size
	}
}

// WithRegistry sets the function registration table
func WithRegistry(registry *extension.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithMarshaler sets the payload marshaler
func WithMarshaler(marshaler *marshal.Service) Option {
	return func(s *Service) {
		s.marshaler = marshaler
	}
}

// WithExecutor sets the executor shared by worker contexts; by default one is
// built from the registry and marshaler
func WithExecutor(exec executor.Service) Option {
	return func(s *Service) {
		s.executor = exec
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithListener registers a slot lifecycle listener
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithProgress sets the tracker updated with every call outcome
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
