package marshal

import "github.com/viant/xfer/policy"

// Option customises the marshaler
type Option func(*Service)

// WithPolicy sets the default type policy
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}
