package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvConfig          = "INFERENCO_MCP_CONFIG"
	EnvTransport       = "INFERENCO_MCP_TRANSPORT"
	EnvHost            = "INFERENCO_MCP_HOST"
	EnvPort            = "INFERENCO_MCP_PORT"
	EnvAuthEnabled     = "INFERENCO_MCP_AUTH_ENABLED"
	EnvAPIKeys         = "INFERENCO_MCP_API_KEYS"
	EnvAuthHeader      = "INFERENCO_MCP_AUTH_HEADER"
	EnvTools           = "INFERENCO_MCP_TOOLS"
	EnvLogLevel        = "INFERENCO_MCP_LOG_LEVEL"
	EnvLogFormat       = "INFERENCO_MCP_LOG_FORMAT"
	EnvRateLimit       = "INFERENCO_MCP_RATE_LIMIT"
	EnvRateBurst       = "INFERENCO_MCP_RATE_BURST"
	EnvRequestTimeout  = "INFERENCO_MCP_REQUEST_TIMEOUT"
	EnvMaxRequestBytes = "INFERENCO_MCP_MAX_REQUEST_BYTES"
	EnvCORSOrigins     = "INFERENCO_MCP_CORS_ORIGINS"
	EnvShutdownTimeout = "INFERENCO_MCP_SHUTDOWN_TIMEOUT"
)

// LookupFunc looks up a variable the way os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// applyEnv overrides cfg with every variable lookup finds. Unparsable
// values are collected, not skipped.
func applyEnv(cfg *Config, lookup LookupFunc) []error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q is not a duration", key, v))
				return
			}
			*dst = d
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			*dst = SplitList(v)
		}
	}

	str(EnvTransport, &cfg.Transport)
	str(EnvHost, &cfg.Host)
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
		if err != nil || port == 0 {
			errs = append(errs, fmt.Errorf("%s: %q is not a valid port", EnvPort, v))
		} else {
			cfg.Port = int(port)
		}
	}
	if v, ok := lookup(EnvAuthEnabled); ok {
		b, err := ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvAuthEnabled, err))
		} else {
			cfg.AuthEnabled = b
		}
	}
	list(EnvAPIKeys, &cfg.APIKeys)
	str(EnvAuthHeader, &cfg.AuthHeader)
	str(EnvTools, &cfg.ToolSet)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvLogFormat, &cfg.LogFormat)
	integer(EnvRateLimit, &cfg.RateLimit)
	integer(EnvRateBurst, &cfg.RateBurst)
	duration(EnvRequestTimeout, &cfg.RequestTimeout)
	if v, ok := lookup(EnvMaxRequestBytes); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", EnvMaxRequestBytes, v))
		} else {
			cfg.MaxRequestBytes = n
		}
	}
	list(EnvCORSOrigins, &cfg.CORSOrigins)
	duration(EnvShutdownTimeout, &cfg.ShutdownTimeout)

	return errs
}

// SplitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseBool accepts the usual spellings of true and false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off", "":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean", s)
	}
}
