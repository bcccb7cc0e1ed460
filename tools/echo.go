package tools

import (
	"context"

	"github.com/inferenco/inferenco-mcp/schema"
	"github.com/inferenco/inferenco-mcp/server"
)

type echoArgs struct {
	Message string `json:"message"`
}

// Echo returns the echo tool. The message comes back byte for byte.
func Echo() server.Tool {
	return server.Tool{
		Name:        "echo",
		Description: "Echo back the provided message.",
		InputSchema: schema.Object(
			schema.Required("message", schema.String("The message to echo back")),
		),
		Annotations: &server.ToolAnnotations{
			Title:          "Echo",
			ReadOnlyHint:   server.Bool(true),
			IdempotentHint: server.Bool(true),
			OpenWorldHint:  server.Bool(false),
		},
		Handler: func(_ context.Context, call *server.Call) (*server.Result, error) {
			var args echoArgs
			if err := call.Bind(&args); err != nil {
				return nil, err
			}
			return server.TextResult(args.Message), nil
		},
	}
}
