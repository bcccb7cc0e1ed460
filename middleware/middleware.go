package middleware

import "time"

// StackConfig selects the middleware Stack installs. Zero values disable
// the corresponding middleware.
type StackConfig struct {
	Logger         Logger
	ServiceName    string
	ServiceVersion string
	Timeout        time.Duration
	MaxParamBytes  int64
	RateLimit      int
	RateBurst      int
	OTel           []OTelOption
}

// Stack returns the production middleware in order: recovery, request id,
// logging, telemetry, rate limiting, size limit, timeout.
func Stack(cfg StackConfig) []Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	otelOpts := []OTelOption{}
	if cfg.ServiceName != "" {
		otelOpts = append(otelOpts, WithServiceName(cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		otelOpts = append(otelOpts, WithServiceVersion(cfg.ServiceVersion))
	}
	otelOpts = append(otelOpts, cfg.OTel...)

	stack := []Middleware{
		Recover(logger),
		RequestID(),
		Logging(logger),
		OTel(otelOpts...),
	}
	if cfg.RateLimit > 0 {
		stack = append(stack, RateLimit(cfg.RateLimit, cfg.RateBurst, WithRateLimitLogger(logger)))
	}
	if cfg.MaxParamBytes > 0 {
		stack = append(stack, SizeLimit(cfg.MaxParamBytes, logger))
	}
	if cfg.Timeout > 0 {
		stack = append(stack, Timeout(cfg.Timeout))
	}
	return stack
}
