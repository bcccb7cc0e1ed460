// inferenco-mcp serves the demonstration MCP tools over stdio, HTTP or
// WebSocket.
package main

import (
	"fmt"
	"os"
)

// Build-time variables set via ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
