package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inferenco/inferenco-mcp/protocol"
)

func TestStack(t *testing.T) {
	t.Run("minimal stack", func(t *testing.T) {
		if got := len(Stack(StackConfig{})); got != 4 {
			t.Errorf("len = %d, want 4", got)
		}
	})

	t.Run("full stack", func(t *testing.T) {
		stack := Stack(StackConfig{
			Logger:        NopLogger{},
			Timeout:       time.Second,
			MaxParamBytes: MB,
			RateLimit:     5,
		})
		if len(stack) != 7 {
			t.Errorf("len = %d, want 7", len(stack))
		}
	})

	t.Run("recovers panics and logs them", func(t *testing.T) {
		logger := &mockLogger{}
		h := Wrap(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic("kaboom")
		}, Stack(StackConfig{Logger: logger})...)

		_, err := h(context.Background(), &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/call"})

		var rpcErr *protocol.Error
		if !errors.As(err, &rpcErr) || rpcErr.Code != protocol.CodeInternalError {
			t.Fatalf("expected internal error, got %v", err)
		}

		var sawPanic bool
		for _, e := range logger.snapshot() {
			if e.message == "panic recovered" {
				sawPanic = true
			}
		}
		if !sawPanic {
			t.Error("expected panic to be logged")
		}
	})

	t.Run("size limit applies", func(t *testing.T) {
		h := Wrap(okHandler, Stack(StackConfig{MaxParamBytes: 16})...)
		_, err := h(context.Background(), &protocol.Request{
			ID:     json.RawMessage(`1`),
			Method: protocol.MethodToolsCall,
			Params: json.RawMessage(`{"name":"echo","arguments":{"message":"` + strings.Repeat("a", 32) + `"}}`),
		})
		if protocol.AsError(err).Code != protocol.CodeInvalidRequest {
			t.Errorf("expected -32600, got %v", err)
		}
	})
}
