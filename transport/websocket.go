package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
)

// WebSocket serves JSON-RPC over WebSocket, one message per text frame.
// Messages on a connection are handled concurrently; responses are written
// whole, one frame each. Upgrades happen on GET /ws and GET /; GET /health
// reports status.
type WebSocket struct {
	addr            string
	upgrader        websocket.Upgrader
	maxMessageBytes int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	auth            *APIKeyAuth
	info            ServiceInfo
	logger          middleware.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool // set once shutdown starts; guarded by mu
	wg      sync.WaitGroup
	ready   chan struct{}

	listenAddr string
}

type wsClient struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

// WebSocketOption configures WebSocket.
type WebSocketOption func(*WebSocket)

// WithWebSocketReadTimeout closes connections idle for longer than d.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.readTimeout = d
	}
}

// WithWebSocketWriteTimeout bounds each frame write.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.writeTimeout = d
	}
}

// WithWebSocketMaxMessageBytes bounds inbound frames.
func WithWebSocketMaxMessageBytes(n int64) WebSocketOption {
	return func(ws *WebSocket) {
		ws.maxMessageBytes = n
	}
}

// WithWebSocketCheckOrigin sets the upgrade origin check.
func WithWebSocketCheckOrigin(fn func(r *http.Request) bool) WebSocketOption {
	return func(ws *WebSocket) {
		ws.upgrader.CheckOrigin = fn
	}
}

// WithWebSocketAuth requires an API key before the upgrade.
func WithWebSocketAuth(a *APIKeyAuth) WebSocketOption {
	return func(ws *WebSocket) {
		ws.auth = a
	}
}

// WithWebSocketServiceInfo sets what /health reports.
func WithWebSocketServiceInfo(info ServiceInfo) WebSocketOption {
	return func(ws *WebSocket) {
		ws.info = info
	}
}

// WithWebSocketShutdownTimeout bounds how long shutdown waits for
// connections to finish their in-flight messages.
func WithWebSocketShutdownTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.shutdownTimeout = d
	}
}

// WithWebSocketLogger sets the logger.
func WithWebSocketLogger(l middleware.Logger) WebSocketOption {
	return func(ws *WebSocket) {
		ws.logger = l
	}
}

// NewWebSocket creates a WebSocket binding listening on addr.
func NewWebSocket(addr string, opts ...WebSocketOption) *WebSocket {
	ws := &WebSocket{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		maxMessageBytes: middleware.MB,
		readTimeout:     5 * time.Minute,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 10 * time.Second,
		info: ServiceInfo{
			Name:            "inferenco-mcp",
			ProtocolVersion: protocol.LatestVersion,
		},
		logger:  middleware.NopLogger{},
		clients: make(map[*wsClient]struct{}),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Addr returns the configured address.
func (ws *WebSocket) Addr() string {
	return ws.addr
}

// ListenAddr returns the bound address once Serve is listening.
func (ws *WebSocket) ListenAddr() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.listenAddr
}

// Ready is closed once Serve is listening.
func (ws *WebSocket) Ready() <-chan struct{} {
	return ws.ready
}

// Serve listens until ctx is canceled, then closes every connection.
func (ws *WebSocket) Serve(ctx context.Context, handler Handler) error {
	ln, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", ws.addr, err)
	}

	srv := &http.Server{
		Handler:           ws.Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ws.mu.Lock()
	ws.listenAddr = ln.Addr().String()
	ws.mu.Unlock()
	close(ws.ready)

	ws.logger.Info("websocket transport listening", middleware.F("addr", ln.Addr().String()))
	return serveAndShutdown(ctx, srv, ln, ws.shutdown, ws.logger)
}

func (ws *WebSocket) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ws.shutdownTimeout)
	defer cancel()

	// Shutdown does not track hijacked connections.
	err := srv.Shutdown(ctx)
	ws.closeAll()

	done := make(chan struct{})
	go func() {
		ws.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		ws.logger.Warn("websocket connections did not finish in time")
	}
	return err
}

// Handler returns the router, for mounting or testing without a listener.
func (ws *WebSocket) Handler(handler Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":           "ok",
			"service":          ws.info.Name,
			"version":          ws.info.Version,
			"protocol_version": ws.info.ProtocolVersion,
		})
	})

	r.Group(func(r chi.Router) {
		if ws.auth != nil {
			r.Use(ws.auth.Middleware)
		}
		upgrade := func(w http.ResponseWriter, req *http.Request) {
			ws.serveConn(w, req, handler)
		}
		r.Get("/", upgrade)
		r.Get("/ws", upgrade)
	})
	return r
}

func (ws *WebSocket) serveConn(w http.ResponseWriter, r *http.Request, handler Handler) {
	if ws.shuttingDown() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server is shutting down"})
		return
	}
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Debug("websocket upgrade failed", middleware.F("error", err.Error()))
		return
	}
	conn.SetReadLimit(ws.maxMessageBytes)

	client := &wsClient{conn: conn, writeTimeout: ws.writeTimeout}
	if !ws.register(client) {
		client.close()
		return
	}

	// r.Context() is canceled when the handler returns, so messages get a
	// context of their own that keeps the auth metadata.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	ctx = protocol.SetRequestMeta(ctx, protocol.MetaTransport, "websocket")
	ctx = protocol.SetRequestMeta(ctx, protocol.MetaRemoteAddr, r.RemoteAddr)

	var inflight sync.WaitGroup
	defer func() {
		inflight.Wait()
		cancel()
		ws.mu.Lock()
		delete(ws.clients, client)
		ws.mu.Unlock()
		_ = conn.Close()
		ws.wg.Done()
	}()

	for {
		if ws.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(ws.readTimeout))
		}
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ws.logger.Debug("websocket read failed", middleware.F("error", err.Error()))
			}
			return
		}
		if kind != websocket.TextMessage {
			_ = client.writeJSON(protocol.NewErrorResponse(nil, protocol.NewInvalidRequest("expected a text frame")))
			continue
		}

		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if resp := dispatch(ctx, handler, msg, ws.logger); resp != nil {
				if err := client.writeJSON(resp); err != nil {
					ws.logger.Debug("websocket write failed", middleware.F("error", err.Error()))
				}
			}
		}()
	}
}

// register tracks c until its connection ends. It fails once shutdown has
// started, so wg.Add never races the final wg.Wait.
func (ws *WebSocket) register(c *wsClient) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return false
	}
	ws.clients[c] = struct{}{}
	ws.wg.Add(1)
	return true
}

func (ws *WebSocket) shuttingDown() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.closed
}

// closeAll stops accepting connections and closes the open ones.
func (ws *WebSocket) closeAll() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.closed = true
	for c := range ws.clients {
		c.close()
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	_ = c.conn.Close()
}
