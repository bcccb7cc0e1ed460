package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inferenco/inferenco-mcp/protocol"
	"github.com/inferenco/inferenco-mcp/schema"
)

// ToolHandler runs a tool. Returning a *protocol.Error fails the JSON-RPC
// call with that error; any other error becomes a result with isError set.
type ToolHandler func(ctx context.Context, call *Call) (*Result, error)

// Tool describes a callable tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *schema.Schema
	Annotations *ToolAnnotations
	Handler     ToolHandler
}

func (t *Tool) info() ToolInfo {
	return ToolInfo{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
		Annotations: t.Annotations,
	}
}

// Call is a single validated tool invocation.
type Call struct {
	// Name is the tool being invoked.
	Name string
	// Arguments holds the argument object. It has already passed the
	// tool's input schema and is never empty.
	Arguments json.RawMessage
	// State is the session state shared by every call on this server.
	State *SessionState
}

// Bind decodes the arguments into v.
func (c *Call) Bind(v any) error {
	if err := json.Unmarshal(c.Arguments, v); err != nil {
		return protocol.NewInvalidParams(fmt.Sprintf("failed to parse arguments for %s: %v", c.Name, err))
	}
	return nil
}
