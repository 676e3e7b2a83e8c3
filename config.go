package xfer

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/xfer/internal/logging"
	"github.com/viant/xfer/policy"
	"github.com/viant/xfer/service/dispatcher"
	"github.com/viant/xfer/service/meta"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from YAML or JSON; unset sections keep their defaults.
type Config struct {
	Dispatcher dispatcher.Config `json:"dispatcher" yaml:"dispatcher"`
	Marshal    policy.Config     `json:"marshal" yaml:"marshal"`
	Log        logging.Config    `json:"log" yaml:"log"`
	Tracing    TracingConfig     `json:"tracing" yaml:"tracing"`
}

// TracingConfig configures the stdout trace exporter
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Version     string `json:"version" yaml:"version"`
	// OutputFile receives spans; empty means stdout
	OutputFile string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with the package defaults
func DefaultConfig() *Config {
	return &Config{
		Dispatcher: dispatcher.DefaultConfig(),
		Marshal:    *policy.ToConfig(policy.Default()),
		Log:        logging.DefaultConfig(),
		Tracing:    TracingConfig{ServiceName: "xfer"},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Dispatcher.Validate(); err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}
	if err := c.Marshal.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML config from any afs location (file://, mem://, embed:// ...)
// on top of DefaultConfig. ${env.KEY} expressions are expanded.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
