package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/xfer/model/invocation"
)

// Raw byte sequence handling modes.
const (
	// RawBytesTransfer copies an unwrapped []byte once and transfers the copy.
	RawBytesTransfer = "transfer"
	// RawBytesCopy copies an unwrapped []byte on both sides of the boundary.
	RawBytesCopy = "copy"
)

// Policy holds the type defaults applied when neither the call nor the
// function declaration carries an explicit directive.
//
//   - BufferDefault applies to *buffer.Buffer values (copy unless annotated).
//   - RawBytes applies to plain []byte values.
//
// A nil *Policy behaves like Default().
type Policy struct {
	BufferDefault invocation.Directive
	RawBytes      string
}

// Default returns the default policy
func Default() *Policy {
	return &Policy{BufferDefault: invocation.DirectiveCopy, RawBytes: RawBytesTransfer}
}

// TransferRawBytes returns true when unwrapped byte sequences are copied once then transferred
func (p *Policy) TransferRawBytes() bool {
	if p == nil {
		return true
	}
	return !strings.EqualFold(p.RawBytes, RawBytesCopy)
}

// Buffer returns the default directive for buffer handles
func (p *Policy) Buffer() invocation.Directive {
	if p == nil || p.BufferDefault == invocation.DirectiveAuto {
		return invocation.DirectiveCopy
	}
	return p.BufferDefault
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters
// ---------------------------------------------------------------------------

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Buffer   string `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	RawBytes string `json:"rawBytes,omitempty" yaml:"rawBytes,omitempty"`
}

// Validate checks the configured values
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := invocation.ParseDirective(c.Buffer); err != nil {
		return fmt.Errorf("marshal.buffer: %w", err)
	}
	switch strings.ToLower(c.RawBytes) {
	case "", RawBytesCopy, RawBytesTransfer:
	default:
		return fmt.Errorf("marshal.rawBytes: unsupported mode %q", c.RawBytes)
	}
	return nil
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{Buffer: p.BufferDefault.String(), RawBytes: p.RawBytes}
}

// FromConfig converts a stored Config back to a runtime Policy; unset fields take defaults.
func FromConfig(c *Config) (*Policy, error) {
	ret := Default()
	if c == nil {
		return ret, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if directive, _ := invocation.ParseDirective(c.Buffer); directive != invocation.DirectiveAuto {
		ret.BufferDefault = directive
	}
	if c.RawBytes != "" {
		ret.RawBytes = strings.ToLower(c.RawBytes)
	}
	return ret, nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx; it overrides the marshaler policy for calls made with ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
