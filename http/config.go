package http

import (
	"github.com/gaborage/go-dots/config"
	"github.com/gaborage/go-dots/logger"
)

// NewFromConfig builds a client from loaded configuration. A nil cfg yields the defaults.
func NewFromConfig(cfg *config.HTTPConfig, log logger.Logger) Client {
	return BuilderFromConfig(cfg, log).Build()
}

// BuilderFromConfig seeds a Builder with cfg so callers can add interceptors before Build.
func BuilderFromConfig(cfg *config.HTTPConfig, log logger.Logger) *Builder {
	b := NewBuilder(log)
	if cfg == nil {
		return b
	}

	if cfg.Timeout > 0 {
		b.WithTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		b.WithDefaultHeader("User-Agent", cfg.UserAgent)
	}
	for key, value := range cfg.DefaultHeaders {
		b.WithDefaultHeader(key, value)
	}
	return b.
		WithTraceIDHeader(cfg.Trace.Header).
		WithW3CTrace(cfg.Trace.W3C).
		WithLogPayloads(cfg.Payload.Log).
		WithMaxPayloadLogBytes(cfg.Payload.MaxBytes)
}
