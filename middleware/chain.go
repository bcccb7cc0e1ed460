// Package middleware wraps the request dispatcher with cross-cutting
// behavior: panic recovery, request ids, logging, telemetry, rate limiting,
// size limits and deadlines.
package middleware

import (
	"context"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// HandlerFunc handles one decoded JSON-RPC request. A nil response with a
// nil error means the request was a notification.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middleware so that Chain(m1, m2)(h) runs m1, then m2, then h.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Wrap applies middlewares to h.
func Wrap(h HandlerFunc, middlewares ...Middleware) HandlerFunc {
	return Chain(middlewares...)(h)
}
