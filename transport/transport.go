// Package transport frames JSON-RPC messages over stdio, HTTP and WebSocket
// and hands them to a Handler.
package transport

import (
	"context"
	"encoding/json"

	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
)

// Handler processes one decoded request. A nil response with a nil error
// means nothing is sent back.
type Handler interface {
	HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// HandleRequest calls f(ctx, req).
func (f HandlerFunc) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return f(ctx, req)
}

// Transport is a binding that feeds requests to a Handler.
type Transport interface {
	// Serve blocks until ctx is canceled or the binding fails. A clean
	// shutdown returns nil.
	Serve(ctx context.Context, handler Handler) error

	// Addr describes where the binding listens.
	Addr() string
}

// ServiceInfo is reported by the health endpoints and the SSE handshake.
type ServiceInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
}

// dispatch decodes one message, runs it through handler and returns the
// response to send, or nil when nothing is to be sent.
func dispatch(ctx context.Context, handler Handler, data []byte, logger middleware.Logger) *protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(data, &req); err != nil {
		if json.Valid(data) {
			return protocol.NewErrorResponse(nil, protocol.NewInvalidRequest("request must be a JSON object"))
		}
		logger.Debug("unparsable message", middleware.F("error", err.Error()))
		return protocol.NewErrorResponse(nil, protocol.NewParseError("parse error: "+err.Error()))
	}

	resp, err := handler.HandleRequest(ctx, &req)
	if req.IsNotification() && req.JSONRPC == protocol.JSONRPCVersion {
		return nil
	}
	if err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.AsError(err))
	}
	if resp == nil {
		// A request that carried an id always gets an answer.
		resp = protocol.NewResponse(req.ID, struct{}{})
	}
	return resp
}
