package tools

import (
	"context"
	"strconv"

	"github.com/inferenco/inferenco-mcp/schema"
	"github.com/inferenco/inferenco-mcp/server"
)

// Increment returns the increment tool, which bumps the session counter and
// reports the new value.
func Increment() server.Tool {
	return server.Tool{
		Name:        "increment",
		Description: "Increment an in-memory counter and return the new value.",
		InputSchema: schema.Object(),
		Annotations: &server.ToolAnnotations{
			Title:           "Increment counter",
			ReadOnlyHint:    server.Bool(false),
			DestructiveHint: server.Bool(false),
			IdempotentHint:  server.Bool(false),
			OpenWorldHint:   server.Bool(false),
		},
		Handler: func(_ context.Context, call *server.Call) (*server.Result, error) {
			v := call.State.Increment()
			return server.StructuredResult(strconv.FormatUint(v, 10), map[string]any{"value": v}), nil
		},
	}
}
