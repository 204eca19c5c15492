package observability

import "errors"

// ErrMissingServiceName is returned when observability is enabled but no service name is configured.
var ErrMissingServiceName = errors.New("observability: service name is required when observability is enabled")

// ErrInvalidExporter is returned when the exporter is neither "stdout" nor "none".
var ErrInvalidExporter = errors.New("observability: exporter must be either 'stdout' or 'none'")
