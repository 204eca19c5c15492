// Package config loads client, logger and telemetry settings with koanf.
//
// Sources, lowest priority first: built-in defaults, a YAML file or YAML bytes,
// then environment variables prefixed with DOTS_ (DOTS_HTTP_TIMEOUT=5s maps to
// http.timeout).
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "DOTS_"

type loadOptions struct {
	file  string
	bytes []byte
	env   bool
}

// Option customizes Load
type Option func(*loadOptions)

// WithFile loads a YAML file. A missing file is an error.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithYAML loads YAML from memory
func WithYAML(data []byte) Option {
	return func(o *loadOptions) {
		o.bytes = data
	}
}

// WithoutEnv skips environment variables
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.env = false
	}
}

// Load builds a Config from defaults, optional YAML and the environment, then validates it.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{env: true}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", o.file, err)
		}
	}

	if len(o.bytes) > 0 {
		if err := k.Load(rawbytes.Provider(o.bytes), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	if o.env {
		if err := k.Load(env.Provider(".", env.Opt{
			Prefix: EnvPrefix,
			TransformFunc: func(key, value string) (string, any) {
				key = strings.TrimPrefix(key, EnvPrefix)
				return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
			},
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"http.timeout":          "30s",
		"http.useragent":        "go-dots/1.0",
		"http.trace.header":     "X-Request-ID",
		"http.trace.w3c":        false,
		"http.payload.log":      false,
		"http.payload.maxbytes": 4096,

		"log.level":  "info",
		"log.pretty": false,

		"observability.enabled":  false,
		"observability.service":  "go-dots",
		"observability.exporter": "stdout",
		"observability.pretty":   false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
