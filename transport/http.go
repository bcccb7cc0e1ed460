package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
)

// HTTP serves JSON-RPC over HTTP POST.
//
// Routes:
//
//	POST /mcp, POST /rpc, POST /sse  one JSON-RPC message per body
//	GET  /sse                        event stream with keepalives
//	GET  /health, GET /              service status, never authenticated
type HTTP struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	maxBodyBytes    int64
	shutdownTimeout time.Duration
	keepAlive       time.Duration
	auth            *APIKeyAuth
	cors            *CORSConfig
	info            ServiceInfo
	logger          middleware.Logger

	drainer *Drainer
	closing chan struct{}
	ready   chan struct{}

	mu         sync.RWMutex
	listenAddr string
}

// HTTPOption configures HTTP.
type HTTPOption func(*HTTP)

// WithReadTimeout bounds how long reading request headers may take.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.readTimeout = d
	}
}

// WithWriteTimeout sets the per-response write timeout for POST routes. The
// event stream is exempt.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.writeTimeout = d
	}
}

// WithMaxBodyBytes bounds request bodies. Larger bodies get 413.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		h.maxBodyBytes = n
	}
}

// WithShutdownTimeout bounds how long shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.shutdownTimeout = d
	}
}

// WithKeepAlive sets the interval between event stream keepalives.
func WithKeepAlive(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.keepAlive = d
	}
}

// WithAuth guards the JSON-RPC and event stream routes.
func WithAuth(a *APIKeyAuth) HTTPOption {
	return func(h *HTTP) {
		h.auth = a
	}
}

// WithCORS enables CORS handling.
func WithCORS(cfg CORSConfig) HTTPOption {
	return func(h *HTTP) {
		h.cors = &cfg
	}
}

// WithServiceInfo sets what the health endpoints report.
func WithServiceInfo(info ServiceInfo) HTTPOption {
	return func(h *HTTP) {
		h.info = info
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(l middleware.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = l
	}
}

// NewHTTP creates an HTTP binding listening on addr.
func NewHTTP(addr string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		addr:            addr,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		maxBodyBytes:    middleware.MB,
		shutdownTimeout: 10 * time.Second,
		keepAlive:       30 * time.Second,
		info: ServiceInfo{
			Name:            "inferenco-mcp",
			ProtocolVersion: protocol.LatestVersion,
		},
		logger:  middleware.NopLogger{},
		drainer: NewDrainer(),
		closing: make(chan struct{}),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Addr returns the configured address.
func (h *HTTP) Addr() string {
	return h.addr
}

// ListenAddr returns the bound address once Serve is listening.
func (h *HTTP) ListenAddr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.listenAddr
}

// Ready is closed once Serve is listening.
func (h *HTTP) Ready() <-chan struct{} {
	return h.ready
}

// Serve listens and serves until ctx is canceled, then drains in-flight
// requests, ends event streams and closes the listener. An HTTP value serves
// once.
func (h *HTTP) Serve(ctx context.Context, handler Handler) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", h.addr, err)
	}

	srv := &http.Server{
		Handler:           h.Handler(handler),
		ReadHeaderTimeout: h.readTimeout,
	}

	h.mu.Lock()
	h.listenAddr = ln.Addr().String()
	h.mu.Unlock()
	close(h.ready)

	h.logger.Info("http transport listening", middleware.F("addr", ln.Addr().String()))
	return serveAndShutdown(ctx, srv, ln, h.shutdown, h.logger)
}

func (h *HTTP) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if err := h.drainer.Drain(ctx); err != nil {
		h.logger.Warn("drain timed out", middleware.F("in_flight", h.drainer.InFlight()))
	}
	close(h.closing)
	return srv.Shutdown(ctx)
}

// serveAndShutdown runs srv on ln until ctx ends or serving fails, then
// calls shutdown.
func serveAndShutdown(ctx context.Context, srv *http.Server, ln net.Listener, shutdown func(*http.Server) error, logger middleware.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", middleware.F("addr", ln.Addr().String()))
		return shutdown(srv)
	})
	return g.Wait()
}

// Handler returns the router, for mounting or testing without a listener.
func (h *HTTP) Handler(handler Handler) http.Handler {
	r := chi.NewRouter()
	if h.cors != nil {
		cfg := *h.cors
		if h.auth != nil {
			cfg.AllowHeaders = append([]string{"Content-Type", "Authorization", "X-Request-ID", h.auth.Header()}, cfg.AllowHeaders...)
		}
		r.Use(CORS(cfg))
	}

	r.Get("/", h.handleHealth)
	r.Get("/health", h.handleHealth)

	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(h.auth.Middleware)
		}

		rpc := h.drainer.Middleware(h.rpcHandler(handler))
		r.Method(http.MethodPost, "/mcp", rpc)
		r.Method(http.MethodPost, "/rpc", rpc)
		r.Method(http.MethodPost, "/sse", rpc)
		r.Get("/sse", h.handleSSE)
	})

	return r
}

func (h *HTTP) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status, code := "ok", http.StatusOK
	if h.drainer.Draining() {
		status, code = "draining", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":           status,
		"service":          h.info.Name,
		"version":          h.info.Version,
		"protocol_version": h.info.ProtocolVersion,
	})
}

func (h *HTTP) rpcHandler(handler Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.writeTimeout > 0 {
			_ = http.NewResponseController(w).SetWriteDeadline(time.Now().Add(h.writeTimeout))
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, protocol.NewErrorResponse(nil,
					protocol.NewInvalidRequest(fmt.Sprintf("request body exceeds %d bytes", h.maxBodyBytes))))
				return
			}
			writeJSON(w, http.StatusBadRequest, protocol.NewErrorResponse(nil, protocol.NewParseError("read body: "+err.Error())))
			return
		}

		ctx := protocol.SetRequestMeta(r.Context(), protocol.MetaTransport, "http")
		ctx = protocol.SetRequestMeta(ctx, protocol.MetaRemoteAddr, r.RemoteAddr)

		resp := dispatch(ctx, handler, body, h.logger)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
