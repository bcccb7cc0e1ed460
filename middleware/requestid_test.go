package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/inferenco/inferenco-mcp/protocol"
)

func TestRequestID(t *testing.T) {
	t.Run("injects a uuid", func(t *testing.T) {
		var got string
		h := RequestID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			got = RequestIDFromContext(ctx)
			return nil, nil
		})
		_, _ = h(context.Background(), &protocol.Request{Method: "ping"})

		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("request id %q is not a uuid: %v", got, err)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		ids := make(map[string]bool)
		h := RequestID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ids[RequestIDFromContext(ctx)] = true
			return nil, nil
		})
		for i := 0; i < 100; i++ {
			_, _ = h(context.Background(), &protocol.Request{Method: "ping"})
		}
		if len(ids) != 100 {
			t.Errorf("expected 100 unique ids, got %d", len(ids))
		}
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		var got string
		h := RequestIDWithGenerator(func() string { return "fresh" })(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				got = RequestIDFromContext(ctx)
				return nil, nil
			})
		_, _ = h(ContextWithRequestID(context.Background(), "upstream"), &protocol.Request{Method: "ping"})

		if got != "upstream" {
			t.Errorf("request id = %q, want upstream", got)
		}
	})

	t.Run("empty context has no id", func(t *testing.T) {
		if id := RequestIDFromContext(context.Background()); id != "" {
			t.Errorf("got %q", id)
		}
	})
}
