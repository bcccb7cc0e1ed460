// Package config loads the server configuration from defaults, an optional
// TOML file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Transport names.
const (
	TransportStdio     = "stdio"
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Config is the full server configuration.
type Config struct {
	Transport string `toml:"transport"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`

	AuthEnabled bool     `toml:"auth_enabled"`
	APIKeys     []string `toml:"api_keys"`
	AuthHeader  string   `toml:"auth_header"`

	ToolSet string `toml:"tool_set"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	RateLimit       int           `toml:"rate_limit"`
	RateBurst       int           `toml:"rate_burst"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	MaxRequestBytes int64         `toml:"max_request_bytes"`
	CORSOrigins     []string      `toml:"cors_origins"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// Source is the TOML file the configuration was read from, if any.
	Source string `toml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Transport:       TransportStdio,
		Host:            "0.0.0.0",
		Port:            8080,
		AuthHeader:      "x-api-key",
		ToolSet:         "full",
		LogLevel:        "info",
		LogFormat:       "json",
		RequestTimeout:  30 * time.Second,
		MaxRequestBytes: 1 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Addr returns host:port for the network bindings.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportWebSocket:
	default:
		errs = append(errs, fmt.Errorf("transport: unknown transport %q (want stdio, http or websocket)", c.Transport))
	}
	switch c.ToolSet {
	case "full", "minimal":
	default:
		errs = append(errs, fmt.Errorf("tool_set: unknown tool set %q (want full or minimal)", c.ToolSet))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port: %d is outside 1..65535", c.Port))
	}
	if c.AuthEnabled {
		if len(c.APIKeys) == 0 {
			errs = append(errs, errors.New("api_keys: auth is enabled but no keys are configured"))
		}
		if c.AuthHeader == "" {
			errs = append(errs, errors.New("auth_header: must not be empty when auth is enabled"))
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown format %q", c.LogFormat))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate_limit: must not be negative"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout: must not be negative"))
	}
	if c.MaxRequestBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_request_bytes: %d must be positive", c.MaxRequestBytes))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout: must be positive"))
	}

	return errors.Join(errs...)
}
