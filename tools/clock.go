package tools

import (
	"context"
	"time"

	"github.com/inferenco/inferenco-mcp/schema"
	"github.com/inferenco/inferenco-mcp/server"
)

// ClockFormat is the layout of the clock tool's output.
const ClockFormat = time.RFC3339

// Clock returns the clock tool, which reports the current UTC time.
func Clock(now func() time.Time) server.Tool {
	return server.Tool{
		Name:        "clock",
		Description: "Return the current UTC time in RFC 3339 format.",
		InputSchema: schema.Object(),
		Annotations: &server.ToolAnnotations{
			Title:         "Current time",
			ReadOnlyHint:  server.Bool(true),
			OpenWorldHint: server.Bool(false),
		},
		Handler: func(context.Context, *server.Call) (*server.Result, error) {
			return server.TextResult(now().UTC().Format(ClockFormat)), nil
		},
	}
}
