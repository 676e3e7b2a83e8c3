package echo

import (
	"context"
	"strings"

	"github.com/viant/xfer/model/buffer"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
)

const name = "echo"

// Service returns its input after touching every byte, mirroring a worker
// that reads a payload and writes it back
type Service struct{}

// New creates an echo service
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
			Name:        "buffer",
			Description: "Reads a buffer, writes the bytes back and returns the buffer by transfer.",
			Arity:       1,
			Result:      invocation.DirectiveTransfer,
		},
		{
			Name:        "bytes",
			Description: "Returns a raw byte sequence.",
			Arity:       1,
		},
		{
			Name:        "value",
			Description: "Returns any cloneable value.",
			Arity:       1,
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "buffer":
		return s.buffer, nil
	case "bytes":
		return s.bytes, nil
	case "value":
		return s.value, nil
	default:
		return nil, types.NewUnknownFunctionError(name)
	}
}

func (s *Service) buffer(ctx context.Context, args []interface{}) (interface{}, error) {
	buf, ok := args[0].(*buffer.Buffer)
	if !ok {
		return nil, types.NewInvalidArgumentError(0, args[0])
	}
	data, err := buf.ReadBytes()
	if err != nil {
		return nil, err
	}
	if _, err = buf.WriteAt(data, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Service) bytes(ctx context.Context, args []interface{}) (interface{}, error) {
	data, ok := args[0].([]byte)
	if !ok {
		return nil, types.NewInvalidArgumentError(0, args[0])
	}
	return data, nil
}

func (s *Service) value(ctx context.Context, args []interface{}) (interface{}, error) {
	return args[0], nil
}
