package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/inferenco/inferenco-mcp/protocol"
)

// Logger is the structured logger the middleware writes to.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F creates a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns middleware that logs every request once. Internal errors
// are logged at error level, other JSON-RPC errors at warn.
func Logging(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			fields := []Field{
				F("method", req.Method),
				F("duration", time.Since(start)),
			}
			if id := RequestIDFromContext(ctx); id != "" {
				fields = append(fields, F("request_id", id))
			}
			if tool := ToolName(req); tool != "" {
				fields = append(fields, F("tool", tool))
			}
			if tr := protocol.GetRequestMeta(ctx, protocol.MetaTransport); tr != "" {
				fields = append(fields, F("transport", tr))
			}
			if client := protocol.GetRequestMeta(ctx, protocol.MetaClientID); client != "" {
				fields = append(fields, F("client_id", client))
			}
			if req.IsNotification() {
				fields = append(fields, F("notification", true))
			}

			if err == nil {
				logger.Info("request completed", fields...)
				return resp, nil
			}

			fields = append(fields, F("error", err.Error()))
			if rpcErr := protocol.AsError(err); rpcErr.Code != protocol.CodeInternalError {
				fields = append(fields, F("code", rpcErr.Code))
				logger.Warn("request rejected", fields...)
			} else {
				logger.Error("request failed", fields...)
			}
			return resp, err
		}
	}
}

// ToolName returns the tool named by a tools/call request, or "".
func ToolName(req *protocol.Request) string {
	if req.Method != protocol.MethodToolsCall || len(req.Params) == 0 {
		return ""
	}
	var p struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return ""
	}
	return p.Name
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Warn(string, ...Field)  {}
