package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config holds the settings of the HTTP client collaborator, the logger and telemetry export.
// The underlying koanf instance stays available for custom keys.
type Config struct {
	HTTP          HTTPConfig          `koanf:"http" json:"http" yaml:"http"`
	Log           LogConfig           `koanf:"log" json:"log" yaml:"log"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability"`

	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// HTTPConfig configures the client used to dispatch tasks.
type HTTPConfig struct {
	Timeout        time.Duration     `koanf:"timeout" json:"timeout" yaml:"timeout"`
	UserAgent      string            `koanf:"useragent" json:"useragent" yaml:"useragent"`
	DefaultHeaders map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
	Trace          TraceConfig       `koanf:"trace" json:"trace" yaml:"trace"`
	Payload        PayloadConfig     `koanf:"payload" json:"payload" yaml:"payload"`
}

// TraceConfig controls trace header propagation.
type TraceConfig struct {
	Header string `koanf:"header" json:"header" yaml:"header"` // e.g. "X-Request-ID"
	W3C    bool   `koanf:"w3c" json:"w3c" yaml:"w3c"`
}

// PayloadConfig controls debug logging of request and response payloads.
type PayloadConfig struct {
	Log      bool `koanf:"log" json:"log" yaml:"log"`
	MaxBytes int  `koanf:"maxbytes" json:"maxbytes" yaml:"maxbytes"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// ObservabilityConfig selects where dispatch spans and metrics are exported.
type ObservabilityConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Service  string `koanf:"service" json:"service" yaml:"service"`
	Exporter string `koanf:"exporter" json:"exporter" yaml:"exporter"` // "stdout" or "none"
	Pretty   bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// String returns the raw value at key, for settings outside the typed struct.
func (c *Config) String(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// Exists reports whether key was set by any source.
func (c *Config) Exists(key string) bool {
	return c.k != nil && c.k.Exists(key)
}
