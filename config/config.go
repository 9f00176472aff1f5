// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of an httpchain.Client from
// defaults, an optional YAML file, and the environment, and turns it
// into client options.
//
// Sources are applied in increasing priority: built-in defaults, then
// the YAML file, then environment variables prefixed with HTTPCHAIN_.
// In environment variable names a double underscore separates nested
// keys, so HTTPCHAIN_RETRY__MAX_ATTEMPTS sets retry.max_attempts.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HTTPCHAIN_"

// Orderings accepted in Config.Ordering.
const (
	OrderingClientFirst  = "client_first"
	OrderingRequestFirst = "request_first"
)

// Config is the configuration of a client.
type Config struct {
	// UserAgent is added to requests which carry no User-Agent.
	UserAgent string `koanf:"user_agent"`

	// Headers are added to requests which do not already carry them.
	Headers map[string]string `koanf:"headers"`

	// RequestIDHeader names a header which is set to a fresh UUID on
	// requests which do not carry it. Empty disables request IDs.
	RequestIDHeader string `koanf:"request_id_header"`

	// TraceContext enables W3C trace context propagation.
	TraceContext bool `koanf:"trace_context"`

	// Ordering is client_first or request_first.
	Ordering string `koanf:"ordering" validate:"oneof=client_first request_first"`

	Status   Status   `koanf:"status"`
	Throttle Throttle `koanf:"throttle"`
	Retry    Retry    `koanf:"retry"`
}

// Status is the range of accepted response status codes.
type Status struct {
	Lower int `koanf:"lower" validate:"gte=100,lte=599"`
	Upper int `koanf:"upper" validate:"gte=100,lte=599,gtefield=Lower"`
}

// Throttle configures a token bucket shared by every request of the
// client. A zero Rate disables throttling.
type Throttle struct {
	// Rate is the number of requests per second.
	Rate float64 `koanf:"rate" validate:"gte=0"`
	// Burst is the bucket size.
	Burst int `koanf:"burst" validate:"gte=0"`
}

// Retry configures the retry policy.
type Retry struct {
	// MaxAttempts is the maximum number of attempts per request,
	// including the first. Values below 2 disable retries.
	MaxAttempts int `koanf:"max_attempts" validate:"gte=0"`

	// Statuses are the response status codes which are retried.
	Statuses []int `koanf:"statuses" validate:"dive,gte=100,lte=599"`

	// Transient enables retrying transient transport errors such as
	// timeouts and connection resets.
	Transient bool `koanf:"transient"`

	// Deadline stops retries once a request has been executing this
	// long. Zero means no deadline.
	Deadline time.Duration `koanf:"deadline" validate:"gte=0"`

	Backoff Backoff `koanf:"backoff"`

	// RetryAfter makes the policy honor the Retry-After response header,
	// waiting at most MaxRetryAfter.
	RetryAfter    bool          `koanf:"retry_after"`
	MaxRetryAfter time.Duration `koanf:"max_retry_after" validate:"gte=0"`
}

// Backoff configures jittered exponential backoff between retries.
type Backoff struct {
	Base time.Duration `koanf:"base" validate:"gt=0"`
	Max  time.Duration `koanf:"max" validate:"gtefield=Base"`
}

// Defaults returns the built-in defaults as a flat key map.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"user_agent":            "",
		"request_id_header":     "",
		"trace_context":         false,
		"ordering":              OrderingClientFirst,
		"status.lower":          200,
		"status.upper":          299,
		"throttle.rate":         0,
		"throttle.burst":        1,
		"retry.max_attempts":    5,
		"retry.statuses":        []int{429, 502, 503, 504},
		"retry.transient":       true,
		"retry.deadline":        "0s",
		"retry.backoff.base":    "50ms",
		"retry.backoff.max":     "1s",
		"retry.retry_after":     true,
		"retry.max_retry_after": "30s",
	}
}

var validation = validator.New()

// Load reads the configuration. If path is not empty, the YAML file at
// path must exist and is merged over the defaults. Environment
// variables are merged last.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("httpchain/config: failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("httpchain/config: failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("httpchain/config: failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("httpchain/config: failed to unmarshal: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("httpchain/config: invalid configuration: %w", err)
	}

	return &cfg, nil
}

// listKeys are the keys whose environment values are comma separated
// lists. Every other value is taken verbatim, commas included.
var listKeys = map[string]bool{
	"retry.statuses": true,
}

// envKey maps HTTPCHAIN_RETRY__MAX_ATTEMPTS to retry.max_attempts.
func envKey(k, v string) (string, interface{}) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	k = strings.ReplaceAll(k, "__", ".")
	if listKeys[k] {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return k, parts
	}
	return k, v
}

// Validate checks cfg against its field constraints.
func Validate(cfg *Config) error {
	if err := validation.Struct(cfg); err != nil {
		return err
	}
	if cfg.Throttle.Rate > 0 && cfg.Throttle.Burst < 1 {
		return errors.New("throttle burst must be at least 1 when rate is set")
	}
	for k := range cfg.Headers {
		if k == "" {
			return errors.New("header name must not be empty")
		}
	}
	return nil
}
