package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	validExporters = []string{"stdout", "none"}
)

// Validate checks every section and joins the failures.
func Validate(cfg *Config) error {
	return errors.Join(
		validateHTTP(&cfg.HTTP),
		validateLog(&cfg.Log),
		validateObservability(&cfg.Observability),
	)
}

func validateHTTP(cfg *HTTPConfig) error {
	var errs []error
	if cfg.Timeout < 0 {
		errs = append(errs, NewInvalidFieldError("http.timeout", fmt.Sprintf("must not be negative, got %v", cfg.Timeout), nil))
	}
	if strings.TrimSpace(cfg.Trace.Header) == "" {
		errs = append(errs, NewMissingFieldError("http.trace.header"))
	}
	if cfg.Payload.MaxBytes < 0 {
		errs = append(errs, NewInvalidFieldError("http.payload.maxbytes", "must not be negative", nil))
	}
	for name := range cfg.DefaultHeaders {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, NewInvalidFieldError("http.headers", "header name must not be empty", nil))
			break
		}
	}
	return errors.Join(errs...)
}

func validateLog(cfg *LogConfig) error {
	if cfg.Level == "" {
		return NewMissingFieldError("log.level")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Level)) {
		return NewInvalidFieldError("log.level", fmt.Sprintf("unknown level %q", cfg.Level), validLogLevels)
	}
	return nil
}

func validateObservability(cfg *ObservabilityConfig) error {
	if !cfg.Enabled {
		return nil
	}
	var errs []error
	if strings.TrimSpace(cfg.Service) == "" {
		errs = append(errs, NewMissingFieldError("observability.service"))
	}
	if !slices.Contains(validExporters, cfg.Exporter) {
		errs = append(errs, NewInvalidFieldError("observability.exporter", fmt.Sprintf("unknown exporter %q", cfg.Exporter), validExporters))
	}
	return errors.Join(errs...)
}
