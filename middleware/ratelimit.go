package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(ctx context.Context, req *protocol.Request) string

// RateLimitOption configures RateLimit.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc KeyFunc
	logger  Logger
}

// WithRateLimitKeyFunc overrides how requests are bucketed.
func WithRateLimitKeyFunc(fn KeyFunc) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.keyFunc = fn
	}
}

// WithRateLimitLogger logs rejected requests to l.
func WithRateLimitLogger(l Logger) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.logger = l
	}
}

// ClientKey buckets requests by authenticated client, falling back to the
// remote address and then to a single global bucket.
func ClientKey(ctx context.Context, _ *protocol.Request) string {
	if id := protocol.GetRequestMeta(ctx, protocol.MetaClientID); id != "" {
		return "client:" + id
	}
	if addr := protocol.GetRequestMeta(ctx, protocol.MetaRemoteAddr); addr != "" {
		return "addr:" + addr
	}
	return "global"
}

// RateLimit returns token-bucket middleware allowing rate requests per
// second with the given burst. Rejected requests fail with -32003.
func RateLimit(rate, burst int, opts ...RateLimitOption) Middleware {
	cfg := &rateLimitConfig{keyFunc: ClientKey}
	for _, opt := range opts {
		opt(cfg)
	}
	if burst <= 0 {
		burst = rate
	}

	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     rate,
		Burst:    burst,
		Interval: time.Second,
	})

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			key := cfg.keyFunc(ctx, req)
			if !limiter.Allow(ctx, key) {
				if cfg.logger != nil {
					cfg.logger.Warn("rate limit exceeded",
						F("method", req.Method),
						F("key", key),
					)
				}
				return nil, protocol.NewRateLimited("rate limit exceeded")
			}
			return next(ctx, req)
		}
	}
}
