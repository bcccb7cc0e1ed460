package middleware

import (
	"context"
	"fmt"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// Size units.
const (
	KB = 1024
	MB = 1024 * KB
)

// SizeLimit rejects requests whose params exceed maxBytes with -32600.
// Transports bound whole messages before decoding; this bounds requests
// handed to the stack directly, without a transport in front.
func SizeLimit(maxBytes int64, logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if size := int64(len(req.Params)); size > maxBytes {
				logger.Warn("request size limit exceeded",
					F("method", req.Method),
					F("size", size),
					F("max", maxBytes),
				)
				return nil, protocol.NewInvalidRequest(fmt.Sprintf("request params of %d bytes exceed limit of %d bytes", size, maxBytes))
			}
			return next(ctx, req)
		}
	}
}
