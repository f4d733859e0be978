package config

// Default values applied by the loader for any unset field.
const (
	// DefaultMaxFrerejacque is the ring-phase cap.  Molecules denser than
	// this are treated as having no detectable rings.
	DefaultMaxFrerejacque = 15

	// DefaultSDFBufferSize is the reader buffer; SDF lines are short but
	// data items under > <tag> headers can run long.
	DefaultSDFBufferSize = 64 * 1024

	// DefaultMetricsNamespace prefixes every metric name.
	DefaultMetricsNamespace = "ringsense"
)

// applyDefaults fills zero-valued fields in place.
func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}
	if len(c.Log.ErrorOutputPaths) == 0 {
		c.Log.ErrorOutputPaths = []string{"stderr"}
	}
	if c.Perception.MaxFrerejacque == 0 {
		c.Perception.MaxFrerejacque = DefaultMaxFrerejacque
	}
	if c.SDF.BufferSize == 0 {
		c.SDF.BufferSize = DefaultSDFBufferSize
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// NewDefault answers a Config populated entirely from defaults.  It always
// validates.
func NewDefault() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}
