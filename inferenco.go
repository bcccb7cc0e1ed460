// Package inferenco wires the tool registry, session state, dispatcher,
// middleware and transports into a runnable MCP server.
//
//	cfg, err := config.Load(config.Options{})
//	if err != nil {
//	    return err
//	}
//	srv, err := inferenco.New(cfg, inferenco.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	return srv.Serve(ctx)
package inferenco

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/inferenco/inferenco-mcp/config"
	"github.com/inferenco/inferenco-mcp/internal/logging"
	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
	"github.com/inferenco/inferenco-mcp/server"
	"github.com/inferenco/inferenco-mcp/tools"
	"github.com/inferenco/inferenco-mcp/transport"
)

// Name is the server name reported to clients.
const Name = "inferenco-mcp"

// Version is set at build time.
var Version = "dev"

// Server is a configured MCP server.
type Server struct {
	cfg        config.Config
	zl         *zap.Logger
	log        middleware.Logger
	dispatcher *server.Dispatcher
	handler    middleware.HandlerFunc

	stdin  io.Reader
	stdout io.Writer
}

// Option configures New.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	toolOpts   []tools.Option
	extraTools []server.Tool
	middleware []middleware.Middleware
	otel       []middleware.OTelOption
	stdin      io.Reader
	stdout     io.Writer
}

// WithLogger sets the logger. A no-op logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithToolOptions passes options to the built-in tools.
func WithToolOptions(opts ...tools.Option) Option {
	return func(o *options) {
		o.toolOpts = append(o.toolOpts, opts...)
	}
}

// WithTools registers extra tools after the built-ins.
func WithTools(ts ...server.Tool) Option {
	return func(o *options) {
		o.extraTools = append(o.extraTools, ts...)
	}
}

// WithMiddleware adds middleware inside the default stack, closest to the
// dispatcher.
func WithMiddleware(m ...middleware.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, m...)
	}
}

// WithTelemetry passes options to the OpenTelemetry middleware.
func WithTelemetry(opts ...middleware.OTelOption) Option {
	return func(o *options) {
		o.otel = append(o.otel, opts...)
	}
}

// WithStdio replaces stdin and stdout for the stdio binding.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.stdin = in
		o.stdout = out
	}
}

// New validates cfg and builds the server. Registering the tools is part of
// startup, so a duplicate tool name fails here.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	set, err := tools.ParseSet(cfg.ToolSet)
	if err != nil {
		return nil, err
	}
	registry := server.NewRegistry()
	if err := tools.Register(registry, set, o.toolOpts...); err != nil {
		return nil, err
	}
	for _, t := range o.extraTools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("register %s: %w", t.Name, err)
		}
	}

	dispatcher := server.NewDispatcher(server.Info{
		Name:         Name,
		Version:      Version,
		Instructions: "Demonstration tools: " + strings.Join(registry.Names(), ", ") + ".",
	}, registry, server.NewSessionState())

	log := logging.Adapt(o.logger)
	stack := middleware.Stack(middleware.StackConfig{
		Logger:         log,
		ServiceName:    Name,
		ServiceVersion: Version,
		Timeout:        cfg.RequestTimeout,
		MaxParamBytes:  cfg.MaxRequestBytes,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		OTel:           o.otel,
	})
	stack = append(stack, o.middleware...)

	return &Server{
		cfg:        cfg,
		zl:         o.logger,
		log:        log,
		dispatcher: dispatcher,
		handler:    middleware.Wrap(dispatcher.HandleRequest, stack...),
		stdin:      o.stdin,
		stdout:     o.stdout,
	}, nil
}

// HandleRequest runs req through the middleware stack and the dispatcher.
func (s *Server) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return s.handler(ctx, req)
}

// Config returns the configuration the server was built with.
func (s *Server) Config() config.Config {
	return s.cfg
}

// Registry returns the tool registry.
func (s *Server) Registry() *server.Registry {
	return s.dispatcher.Registry()
}

// State returns the session state shared by all tool calls.
func (s *Server) State() *server.SessionState {
	return s.dispatcher.State()
}

// Transport builds the binding selected by the configuration.
func (s *Server) Transport() (transport.Transport, error) {
	info := transport.ServiceInfo{Name: Name, Version: Version, ProtocolVersion: protocol.LatestVersion}

	var auth *transport.APIKeyAuth
	if s.cfg.AuthEnabled {
		auth = transport.NewAPIKeyAuth(s.cfg.AuthHeader, s.cfg.APIKeys, s.log)
	}

	switch s.cfg.Transport {
	case config.TransportStdio:
		opts := []transport.StdioOption{
			transport.WithStdioLogger(s.log),
			transport.WithMaxLineBytes(int(s.cfg.MaxRequestBytes)),
		}
		if s.stdin != nil {
			opts = append(opts, transport.WithStdin(s.stdin))
		}
		if s.stdout != nil {
			opts = append(opts, transport.WithStdout(s.stdout))
		}
		return transport.NewStdio(opts...), nil

	case config.TransportHTTP:
		opts := []transport.HTTPOption{
			transport.WithHTTPLogger(s.log),
			transport.WithServiceInfo(info),
			transport.WithMaxBodyBytes(s.cfg.MaxRequestBytes),
			transport.WithShutdownTimeout(s.cfg.ShutdownTimeout),
		}
		if auth != nil {
			opts = append(opts, transport.WithAuth(auth))
		}
		if len(s.cfg.CORSOrigins) > 0 {
			opts = append(opts, transport.WithCORS(transport.CORSConfig{AllowOrigins: s.cfg.CORSOrigins}))
		}
		return transport.NewHTTP(s.cfg.Addr(), opts...), nil

	case config.TransportWebSocket:
		opts := []transport.WebSocketOption{
			transport.WithWebSocketLogger(s.log),
			transport.WithWebSocketServiceInfo(info),
			transport.WithWebSocketMaxMessageBytes(s.cfg.MaxRequestBytes),
			transport.WithWebSocketShutdownTimeout(s.cfg.ShutdownTimeout),
		}
		if auth != nil {
			opts = append(opts, transport.WithWebSocketAuth(auth))
		}
		if len(s.cfg.CORSOrigins) > 0 {
			opts = append(opts, transport.WithWebSocketCheckOrigin(allowOrigins(s.cfg.CORSOrigins)))
		}
		return transport.NewWebSocket(s.cfg.Addr(), opts...), nil

	default:
		return nil, fmt.Errorf("unknown transport %q", s.cfg.Transport)
	}
}

// Serve runs the configured binding until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	t, err := s.Transport()
	if err != nil {
		return err
	}
	s.zl.Info("starting server",
		zap.String("version", Version),
		zap.String("transport", s.cfg.Transport),
		zap.String("addr", t.Addr()),
		zap.Strings("tools", s.Registry().Names()),
		zap.Bool("auth", s.cfg.AuthEnabled),
	)
	err = t.Serve(ctx, s)
	s.zl.Info("server stopped", zap.Uint64("counter", s.State().Counter()), zap.Error(err))
	return err
}
