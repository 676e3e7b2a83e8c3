package nop

import (
	"context"

	"github.com/viant/xfer/model/types"
)

const name = "nop"

// Service performs no work
type Service struct{}

// New creates a nop service
func New() *Service {
	return &Service{}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "nop",
			Description: "Performs no operation and returns immediately.",
			Variadic:    true,
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	if name != "nop" {
		return nil, types.NewUnknownFunctionError(name)
	}
	return s.nop, nil
}

// does nothing
func (s *Service) nop(ctx context.Context, args []interface{}) (interface{}, error) {
	return nil, nil
}
