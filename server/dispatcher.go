package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inferenco/inferenco-mcp/protocol"
	"github.com/inferenco/inferenco-mcp/schema"
)

// Dispatcher routes decoded JSON-RPC requests to the registry. It satisfies
// transport.Handler.
type Dispatcher struct {
	info     Info
	registry *Registry
	state    *SessionState
}

// NewDispatcher creates a dispatcher over registry. state is shared by every
// call the dispatcher makes; a nil state gets a fresh one.
func NewDispatcher(info Info, registry *Registry, state *SessionState) *Dispatcher {
	if state == nil {
		state = NewSessionState()
	}
	return &Dispatcher{
		info:     info,
		registry: registry,
		state:    state,
	}
}

// Registry returns the dispatcher's tool registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// State returns the session state shared by the dispatcher's tool calls.
func (d *Dispatcher) State() *SessionState {
	return d.state
}

// HandleRequest dispatches a single request. A nil response with a nil
// error means nothing is to be sent back (notifications).
func (d *Dispatcher) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Method {
	case protocol.MethodInitialize:
		return d.handleInitialize(req)
	case protocol.MethodInitialized:
		return nil, nil
	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	case protocol.MethodToolsList:
		return d.handleToolsList(req)
	case protocol.MethodToolsCall:
		return d.handleToolsCall(ctx, req)
	default:
		if req.IsNotification() {
			return nil, nil
		}
		return nil, protocol.NewMethodNotFound("method not found: " + req.Method)
	}
}

func (d *Dispatcher) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, protocol.NewInvalidParams(err.Error())
		}
	}

	result := map[string]any{
		"protocolVersion": protocol.NegotiateVersion(params.ProtocolVersion),
		"capabilities": map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		"serverInfo": map[string]any{
			"name":    d.info.Name,
			"version": d.info.Version,
		},
	}
	if d.info.Instructions != "" {
		result["instructions"] = d.info.Instructions
	}

	return protocol.NewResponse(req.ID, result), nil
}

func (d *Dispatcher) handleToolsList(req *protocol.Request) (*protocol.Response, error) {
	result := map[string]any{
		"tools": d.registry.List(),
	}
	return protocol.NewResponse(req.ID, result), nil
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if len(req.Params) == 0 {
		return nil, protocol.NewInvalidParams("missing params")
	}

	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, protocol.NewInvalidParams(err.Error())
	}
	if params.Name == "" {
		return nil, protocol.NewInvalidParams("missing tool name")
	}

	tool, ok := d.registry.Resolve(params.Name)
	if !ok {
		return nil, protocol.NewMethodNotFound("tool not found: " + params.Name)
	}

	args := params.Arguments
	if len(args) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		args = json.RawMessage(`{}`)
	}

	if err := tool.InputSchema.Validate(args); err != nil {
		rpcErr := protocol.NewInvalidParams(fmt.Sprintf("invalid arguments for tool %s: %v", tool.Name, err))
		var verrs schema.ValidationErrors
		if errors.As(err, &verrs) {
			rpcErr = rpcErr.WithData(validationData(verrs))
		}
		return nil, rpcErr
	}

	result, err := d.invoke(ctx, tool, args)
	if err != nil {
		return nil, err
	}

	return protocol.NewResponse(req.ID, result), nil
}

// invoke runs the handler. Handler panics are turned into internal errors
// here so a failing tool never takes the dispatcher down.
func (d *Dispatcher) invoke(ctx context.Context, tool *Tool, args json.RawMessage) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = protocol.NewInternalError(fmt.Sprintf("tool %s failed: %v", tool.Name, r)).
				WithData(map[string]any{"isError": true})
		}
	}()

	result, err = tool.Handler(ctx, &Call{
		Name:      tool.Name,
		Arguments: args,
		State:     d.state,
	})
	if err != nil {
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			return nil, rpcErr
		}
		return ErrorResult(fmt.Sprintf("%s: %v", tool.Name, err)), nil
	}
	if result == nil {
		result = &Result{}
	}
	if result.Content == nil {
		result.Content = []Content{}
	}
	return result, nil
}

func validationData(verrs schema.ValidationErrors) map[string]any {
	fields := make([]map[string]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, map[string]string{
			"path":    v.Path,
			"message": v.Message,
		})
	}
	return map[string]any{"errors": fields}
}
