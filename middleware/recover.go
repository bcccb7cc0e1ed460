package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// Recover returns middleware that turns a panic anywhere below it into an
// internal error. The panic and its stack are logged; the client only sees
// a generic message.
func Recover(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						F("method", req.Method),
						F("panic", fmt.Sprint(r)),
						F("stack", string(debug.Stack())),
					)
					resp = nil
					err = protocol.NewInternalError("internal error").
						WithData(map[string]any{"isError": true})
				}
			}()
			return next(ctx, req)
		}
	}
}
