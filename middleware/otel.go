package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/inferenco/inferenco-mcp/protocol"
)

const instrumentationName = "github.com/inferenco/inferenco-mcp"

// OTelOption configures OTel.
type OTelOption func(*otelConfig)

type otelConfig struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	serviceName    string
	version        string
}

// WithTracerProvider sets the tracer provider. The global one is used
// otherwise.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider. The global one is used
// otherwise.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// WithServiceName sets the service.name attribute.
func WithServiceName(name string) OTelOption {
	return func(c *otelConfig) {
		c.serviceName = name
	}
}

// WithServiceVersion sets the instrumentation version.
func WithServiceVersion(v string) OTelOption {
	return func(c *otelConfig) {
		c.version = v
	}
}

// OTel returns middleware that opens a server span per request and records
// request count, latency and error count. Tool calls carry the tool name.
func OTel(opts ...OTelOption) Middleware {
	cfg := &otelConfig{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		serviceName:    "inferenco-mcp",
		version:        "dev",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(instrumentationName, trace.WithInstrumentationVersion(cfg.version))
	meter := cfg.meterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(cfg.version))

	// Instrument creation only fails on invalid names; these are constant.
	requests, _ := meter.Int64Counter(
		"inferenco.mcp.requests",
		metric.WithDescription("Number of JSON-RPC requests handled"),
		metric.WithUnit("{request}"),
	)
	latency, _ := meter.Float64Histogram(
		"inferenco.mcp.request.duration",
		metric.WithDescription("Request handling latency"),
		metric.WithUnit("ms"),
	)
	failures, _ := meter.Int64Counter(
		"inferenco.mcp.errors",
		metric.WithDescription("Number of requests answered with a JSON-RPC error"),
		metric.WithUnit("{error}"),
	)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			attrs := []attribute.KeyValue{
				attribute.String("rpc.method", req.Method),
				attribute.String("service.name", cfg.serviceName),
			}
			if tool := ToolName(req); tool != "" {
				attrs = append(attrs, attribute.String("mcp.tool", tool))
			}

			ctx, span := tracer.Start(ctx, "mcp."+req.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			if id := RequestIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String("mcp.request_id", id))
			}

			start := time.Now()
			requests.Add(ctx, 1, metric.WithAttributes(attrs...))

			resp, err := next(ctx, req)

			latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(attrs...))

			var rpcErr *protocol.Error
			switch {
			case err != nil:
				rpcErr = protocol.AsError(err)
				span.RecordError(err)
			case resp != nil && resp.Error != nil:
				rpcErr = resp.Error
			}
			if rpcErr != nil {
				span.SetStatus(codes.Error, rpcErr.Message)
				span.SetAttributes(attribute.Int("rpc.jsonrpc.error_code", rpcErr.Code))
				failures.Add(ctx, 1, metric.WithAttributes(
					append(attrs, attribute.Int("rpc.jsonrpc.error_code", rpcErr.Code))...,
				))
			} else {
				span.SetStatus(codes.Ok, "")
			}

			return resp, err
		}
	}
}
