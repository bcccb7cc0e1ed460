package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// Timeout bounds each request by d. Handlers observe the deadline through
// ctx; a handler that gives up because of it surfaces as an internal error.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			resp, err := next(ctx, req)
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, protocol.NewInternalError(fmt.Sprintf("request timed out after %s", d))
			}
			return resp, err
		}
	}
}
