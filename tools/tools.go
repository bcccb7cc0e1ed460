// Package tools provides the built-in tools: echo, increment, reverse, dice
// and clock.
package tools

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/inferenco/inferenco-mcp/server"
)

// Set names a group of built-in tools.
type Set string

// Available tool sets.
const (
	// SetFull registers echo, increment, reverse, dice and clock.
	SetFull Set = "full"
	// SetMinimal registers echo and increment only.
	SetMinimal Set = "minimal"
)

// ParseSet parses a tool set name.
func ParseSet(s string) (Set, error) {
	switch Set(s) {
	case SetFull, SetMinimal:
		return Set(s), nil
	default:
		return "", fmt.Errorf("unknown tool set %q (want %q or %q)", s, SetFull, SetMinimal)
	}
}

// Option configures the built-in tools.
type Option func(*options)

type options struct {
	now  func() time.Time
	rand func(n int) int
}

// WithClock overrides the time source used by the clock tool.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRandom overrides the random source used by the dice tool. fn must
// return a value in [0, n).
func WithRandom(fn func(n int) int) Option {
	return func(o *options) {
		o.rand = fn
	}
}

// Builtins returns the descriptors of the given set in listing order.
func Builtins(set Set, opts ...Option) ([]server.Tool, error) {
	o := &options{
		now:  time.Now,
		rand: rand.IntN,
	}
	for _, opt := range opts {
		opt(o)
	}

	switch set {
	case SetFull:
		return []server.Tool{
			Echo(),
			Increment(),
			Reverse(),
			Dice(o.rand),
			Clock(o.now),
		}, nil
	case SetMinimal:
		return []server.Tool{
			Echo(),
			Increment(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown tool set %q", set)
	}
}

// Register adds the tools of set to reg. A name clash with an already
// registered tool is returned as an error.
func Register(reg *server.Registry, set Set, opts ...Option) error {
	builtins, err := Builtins(set, opts...)
	if err != nil {
		return err
	}
	for _, t := range builtins {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Name, err)
		}
	}
	return nil
}
