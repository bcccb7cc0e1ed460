package tools

import (
	"context"

	"github.com/inferenco/inferenco-mcp/schema"
	"github.com/inferenco/inferenco-mcp/server"
)

type reverseArgs struct {
	Text string `json:"text"`
}

// Reverse returns the reverse tool.
func Reverse() server.Tool {
	return server.Tool{
		Name:        "reverse",
		Description: "Reverse the characters of the provided text.",
		InputSchema: schema.Object(
			schema.Required("text", schema.String("The text to reverse")),
		),
		Annotations: &server.ToolAnnotations{
			Title:          "Reverse text",
			ReadOnlyHint:   server.Bool(true),
			IdempotentHint: server.Bool(true),
			OpenWorldHint:  server.Bool(false),
		},
		Handler: func(_ context.Context, call *server.Call) (*server.Result, error) {
			var args reverseArgs
			if err := call.Bind(&args); err != nil {
				return nil, err
			}
			return server.TextResult(ReverseString(args.Text)), nil
		},
	}
}

// ReverseString reverses s by Unicode code point, so multi-byte characters
// stay intact.
func ReverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
