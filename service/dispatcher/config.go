package dispatcher

import "fmt"

// Config represents dispatcher configuration
type Config struct {
	// PoolSize is the fixed number of worker slots
	PoolSize int `yaml:"poolSize" json:"poolSize"`
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{PoolSize: 1}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("invalid pool size: %d", c.PoolSize)
	}
	return nil
}
