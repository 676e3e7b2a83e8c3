// Package logging builds the zap logger shared by the dispatcher and its worker contexts.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents logger configuration
type Config struct {
	Level       string   `yaml:"level" json:"level"`
	Format      string   `yaml:"format" json:"format"`
	Outputs     []string `yaml:"outputs" json:"outputs"`
	Development bool     `yaml:"development" json:"development"`
	Rotation    Rotation `yaml:"rotation" json:"rotation"`
}

// Rotation configures file outputs rotation
type Rotation struct {
	Enable     bool `yaml:"enable" json:"enable"`
	MaxSizeMB  int  `yaml:"maxSizeMB" json:"maxSizeMB"`
	MaxBackups int  `yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays int  `yaml:"maxAgeDays" json:"maxAgeDays"`
	Compress   bool `yaml:"compress" json:"compress"`
}

// DefaultConfig returns console logging of warnings to stderr
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console", Outputs: []string{"stderr"}}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", c.Format)
	}
	return nil
}

// New builds a logger; the caller should defer logger.Sync()
func New(c Config) (*zap.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	encoderConfig := zap.NewProductionEncoderConfig()
	if c.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	var encoder zapcore.Encoder
	if strings.ToLower(c.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var cores []zapcore.Core
	for _, output := range c.Outputs {
		writer, err := c.writer(output)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, writer, atomicLevel))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	options := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if c.Development {
		options = append(options, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), options...), nil
}

func (c *Config) writer(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}
	if c.Rotation.Enable {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   output,
			MaxSize:    max(c.Rotation.MaxSizeMB, 10),
			MaxBackups: max(c.Rotation.MaxBackups, 1),
			MaxAge:     max(c.Rotation.MaxAgeDays, 7),
			Compress:   c.Rotation.Compress,
		}), nil
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %v: %w", output, err)
	}
	return zapcore.AddSync(f), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unsupported log level: %q", level)
}
