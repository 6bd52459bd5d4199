package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

// Validate checks level and format.
func (c LogConfig) Validate() error {
	if _, err := c.getLevel(); err != nil {
		return err
	}
	switch c.getFormat() {
	case "console", "json":
		return nil
	}
	return fmt.Errorf("config: unknown log format %q", c.Format)
}

// Build returns a logger writing to stderr. verbose forces the development
// configuration at debug level.
func (c LogConfig) Build(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := c.getLevel()
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = c.getFormat()
	if cfg.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
}

func (c LogConfig) getLevel() (zap.AtomicLevel, error) {
	var level zapcore.Level
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("config: log level: %w", err)
		}
	}
	return zap.NewAtomicLevelAt(level), nil
}

func (c LogConfig) getFormat() string {
	if c.Format == "" {
		return "console"
	}
	return strings.ToLower(c.Format)
}
