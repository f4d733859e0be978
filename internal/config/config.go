// Package config defines all configuration structures for RingSense.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds structured-logging tunables.  It mirrors
// logging.LogConfig; the duplication keeps this package free of
// infrastructure imports.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// PerceptionConfig holds the ring-perception tunables.
type PerceptionConfig struct {
	// MaxFrerejacque caps the ring phase: molecules whose Frèrejacque
	// number |E|-|V|+1 exceeds it skip ring detection entirely.
	MaxFrerejacque int `mapstructure:"max_frerejacque"`
}

// SDFConfig holds MDL/SDF reader tunables.
type SDFConfig struct {
	// BufferSize is the bufio scanner buffer in bytes.
	BufferSize int `mapstructure:"buffer_size"`

	// Strict makes any malformed block abort the whole file.  When false
	// the reader logs, skips the offending block, and continues at the
	// next $$$$ terminator.
	Strict bool `mapstructure:"strict"`
}

// MetricsConfig holds metrics-collection tunables.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for all RingSense binaries.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Perception PerceptionConfig `mapstructure:"perception"`
	SDF        SDFConfig        `mapstructure:"sdf"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks cross-field consistency and value ranges.  It is called by
// the loader after defaults are applied, so zero values have already been
// filled in.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log.format %q", c.Log.Format)
	}
	if c.Perception.MaxFrerejacque < 1 {
		return fmt.Errorf("config: perception.max_frerejacque must be >= 1, got %d", c.Perception.MaxFrerejacque)
	}
	if c.SDF.BufferSize < 1024 {
		return fmt.Errorf("config: sdf.buffer_size must be >= 1024, got %d", c.SDF.BufferSize)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace must be set when metrics are enabled")
	}
	return nil
}
