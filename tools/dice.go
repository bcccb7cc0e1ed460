package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/inferenco/inferenco-mcp/protocol"
	"github.com/inferenco/inferenco-mcp/schema"
	"github.com/inferenco/inferenco-mcp/server"
)

const (
	defaultSides = 6
	minSides     = 2
	maxSides     = math.MaxInt32
)

type diceArgs struct {
	Sides *float64 `json:"sides"`
}

// Dice returns the dice tool. intn must return a uniformly distributed value
// in [0, n).
func Dice(intn func(n int) int) server.Tool {
	return server.Tool{
		Name:        "dice",
		Description: "Roll a die with the given number of sides (default 6) and return the result.",
		InputSchema: schema.Object(
			schema.Prop("sides", schema.Integer("Number of sides on the die (at least 2)").
				Min(minSides).
				WithDefault(defaultSides)),
		),
		Annotations: &server.ToolAnnotations{
			Title:          "Roll dice",
			ReadOnlyHint:   server.Bool(true),
			IdempotentHint: server.Bool(false),
			OpenWorldHint:  server.Bool(false),
		},
		Handler: func(_ context.Context, call *server.Call) (*server.Result, error) {
			var args diceArgs
			if err := call.Bind(&args); err != nil {
				return nil, err
			}

			sides := defaultSides
			if args.Sides != nil {
				n := *args.Sides
				if n != math.Trunc(n) || n < minSides || n > maxSides {
					return nil, protocol.NewInvalidParams(fmt.Sprintf("sides must be an integer between %d and %d, got %v", minSides, maxSides, n))
				}
				sides = int(n)
			}

			roll := intn(sides) + 1
			return server.StructuredResult(strconv.Itoa(roll), map[string]any{
				"value": roll,
				"sides": sides,
			}), nil
		},
	}
}
