package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/inferenco/inferenco-mcp/protocol"
)

func tag(name string, order *[]string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			*order = append(*order, name+":before")
			resp, err := next(ctx, req)
			*order = append(*order, name+":after")
			return resp, err
		}
	}
}

func okHandler(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, "ok"), nil
}

func TestChain(t *testing.T) {
	t.Run("runs middleware in order", func(t *testing.T) {
		var order []string
		h := Chain(tag("a", &order), tag("b", &order), tag("c", &order))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				order = append(order, "handler")
				return nil, nil
			})

		_, _ = h(context.Background(), &protocol.Request{Method: "ping"})

		want := []string{"a:before", "b:before", "c:before", "handler", "c:after", "b:after", "a:after"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
			}
		}
	})

	t.Run("empty chain returns handler unchanged", func(t *testing.T) {
		h := Chain()(okHandler)
		resp, err := h(context.Background(), &protocol.Request{ID: json.RawMessage(`7`), Method: "ping"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.ID) != "7" {
			t.Errorf("id = %s, want 7", resp.ID)
		}
	})

	t.Run("middleware can short-circuit", func(t *testing.T) {
		called := false
		block := func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return nil, protocol.NewInvalidRequest("blocked")
			}
		}
		h := Wrap(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			called = true
			return nil, nil
		}, block)

		_, err := h(context.Background(), &protocol.Request{Method: "ping"})
		if err == nil {
			t.Fatal("expected error")
		}
		if called {
			t.Error("handler should not run")
		}
	})
}
